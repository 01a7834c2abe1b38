package dao

import (
	"context"
	"sage/sage/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoadmapDAO struct {
	DB *gorm.DB
}

func NewRoadmapDAO(db *gorm.DB) *RoadmapDAO {
	return &RoadmapDAO{DB: db}
}

// ActiveScenario returns the user's active scenario, or nil when none exists.
func (dao *RoadmapDAO) ActiveScenario(ctx context.Context, userID int) (*models.Scenario, error) {
	var scenario models.Scenario
	err := dao.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.ScenarioStatusActive).
		Order("updated_at DESC").
		First(&scenario).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &scenario, nil
}

// CreateScenario inserts a new active scenario, archiving any previous active
// one of the user inside the same transaction.
func (dao *RoadmapDAO) CreateScenario(ctx context.Context, userID int, name string, baselineCost float64) (*models.Scenario, error) {
	scenario := models.Scenario{
		UserID:       userID,
		Name:         name,
		Status:       models.ScenarioStatusActive,
		BaselineCost: baselineCost,
	}
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Scenario{}).
			Where("user_id = ? AND status = ?", userID, models.ScenarioStatusActive).
			Update("status", models.ScenarioStatusArchived).Error; err != nil {
			return err
		}
		return tx.Create(&scenario).Error
	})
	if err != nil {
		return nil, err
	}
	return &scenario, nil
}

// InterventionsForScenario returns the scenario's interventions in insertion
// order.
func (dao *RoadmapDAO) InterventionsForScenario(ctx context.Context, scenarioID uuid.UUID) ([]models.Intervention, error) {
	var interventions []models.Intervention
	err := dao.DB.WithContext(ctx).
		Where("scenario_id = ?", scenarioID).
		Order("created_at ASC").
		Find(&interventions).Error
	if err != nil {
		return nil, err
	}
	return interventions, nil
}

// CreateIntervention appends one plan item. Existing rows are never touched.
func (dao *RoadmapDAO) CreateIntervention(ctx context.Context, intervention *models.Intervention) error {
	return dao.DB.WithContext(ctx).Create(intervention).Error
}

// MarkApplied flips the applied flag after a simulation ran against the item.
func (dao *RoadmapDAO) MarkApplied(ctx context.Context, interventionID uuid.UUID) error {
	return dao.DB.WithContext(ctx).
		Model(&models.Intervention{}).
		Where("id = ?", interventionID).
		Update("applied", true).Error
}
