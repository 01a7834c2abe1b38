package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatSession is the per-user conversation thread. At most one session is
// active per user; activating a new one deactivates the previous inside the
// same transaction.
type ChatSession struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    int       `json:"user_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ChatMessage is one turn half. Immutable once written; ordered by Timestamp
// within a session. Action holds the serialized action attached to assistant
// turns, empty otherwise.
type ChatMessage struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID   `json:"session_id" gorm:"type:uuid;not null;index"`
	Session   ChatSession `json:"-" gorm:"foreignKey:SessionID;references:ID;constraint:OnDelete:CASCADE"`
	Role      string      `json:"role" gorm:"type:varchar(50);not null"`
	Content   string      `json:"content" gorm:"type:text;not null"`
	Action    string      `json:"action,omitempty" gorm:"type:text"`
	Timestamp time.Time   `json:"timestamp" gorm:"not null;autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
