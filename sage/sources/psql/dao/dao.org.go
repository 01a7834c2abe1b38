package dao

import (
	"context"
	"sage/sage/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrgDAO struct {
	DB *gorm.DB
}

func NewOrgDAO(db *gorm.DB) *OrgDAO {
	return &OrgDAO{DB: db}
}

// OrganizationForUser resolves the user's organization through their profile.
// Returns nil when the user has no profile or no organization linkage.
func (dao *OrgDAO) OrganizationForUser(ctx context.Context, userID int) (*models.Organization, error) {
	var profile models.Profile
	err := dao.DB.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if profile.OrganizationID == nil {
		return nil, nil
	}
	var org models.Organization
	err = dao.DB.WithContext(ctx).First(&org, "id = ?", *profile.OrganizationID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// RecentTransactions returns up to limit most recent transactions of an
// organization, newest first.
func (dao *OrgDAO) RecentTransactions(ctx context.Context, orgID uuid.UUID, limit int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := dao.DB.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

// RecentEmissions returns up to limit most recent emission log entries of an
// organization, newest first.
func (dao *OrgDAO) RecentEmissions(ctx context.Context, orgID uuid.UUID, limit int) ([]models.EmissionLog, error) {
	var entries []models.EmissionLog
	err := dao.DB.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("logged_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
