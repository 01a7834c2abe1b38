package dao

import (
	"context"
	"sage/sage/sources/psql/models"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sessionTitleLen = 30

type SessionDAO struct {
	DB *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{DB: db}
}

// Resolve returns the session a turn should run against. A client-supplied id
// is used only when it exists and belongs to the user; otherwise it is treated
// as absent and the user's most recently updated active session is used, or a
// fresh one is created titled from the first words of the message.
func (dao *SessionDAO) Resolve(ctx context.Context, userID int, clientSessionID string, firstMessage string) (*models.ChatSession, error) {
	if clientSessionID != "" {
		if id, err := uuid.Parse(clientSessionID); err == nil {
			var session models.ChatSession
			err := dao.DB.WithContext(ctx).
				Where("id = ? AND user_id = ?", id, userID).
				First(&session).Error
			if err == nil {
				return &session, nil
			}
			if err != gorm.ErrRecordNotFound {
				return nil, err
			}
			// not owned or unknown: fall through to active/create
		}
	}

	session, err := dao.ActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}
	return dao.Create(ctx, userID, seedTitle(firstMessage))
}

// ActiveForUser returns the most recently updated active session, or nil when
// the user has none.
func (dao *SessionDAO) ActiveForUser(ctx context.Context, userID int) (*models.ChatSession, error) {
	var session models.ChatSession
	err := dao.DB.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").
		First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a new active session, deactivating any previous active
// sessions of the user inside the same transaction.
func (dao *SessionDAO) Create(ctx context.Context, userID int, title string) (*models.ChatSession, error) {
	session := models.ChatSession{
		UserID:   userID,
		Title:    title,
		IsActive: true,
	}
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ChatSession{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Touch bumps updated_at so the session stays the most recent active one.
func (dao *SessionDAO) Touch(ctx context.Context, sessionID uuid.UUID) error {
	return dao.DB.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("id = ?", sessionID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// Deactivate flips is_active off. Sessions are never deleted here.
func (dao *SessionDAO) Deactivate(ctx context.Context, userID int, sessionID uuid.UUID) error {
	return dao.DB.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Update("is_active", false).Error
}

// ListForUser returns all sessions of a user, most recent first.
func (dao *SessionDAO) ListForUser(ctx context.Context, userID int) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// Owns reports whether the session exists and belongs to the user.
func (dao *SessionDAO) Owns(ctx context.Context, userID int, sessionID uuid.UUID) (bool, error) {
	var count int64
	err := dao.DB.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func seedTitle(message string) string {
	title := strings.TrimSpace(message)
	if len(title) > sessionTitleLen {
		title = title[:sessionTitleLen]
	}
	if title == "" {
		title = "New conversation"
	}
	return title
}
