package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ScenarioStatusActive   = "active"
	ScenarioStatusArchived = "archived"
)

// Scenario is a decarbonization plan container. At most one scenario is
// active per user; the merge engine reuses the active one and never creates
// a second.
type Scenario struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       int       `json:"user_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Status       string    `json:"status" gorm:"type:varchar(50);not null;default:'active';index"`
	BaselineCost float64   `json:"baseline_cost" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Scenario) TableName() string {
	return "scenarios"
}

func (s *Scenario) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Intervention is one plan item of a scenario. Append-only except for the
// Applied flag, which flips when a simulation runs against it.
type Intervention struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ScenarioID          uuid.UUID `json:"scenario_id" gorm:"type:uuid;not null;index"`
	Scenario            Scenario  `json:"-" gorm:"foreignKey:ScenarioID;references:ID;constraint:OnDelete:CASCADE"`
	Title               string    `json:"title" gorm:"type:varchar(255);not null"`
	ImpactDescription   string    `json:"impact_description" gorm:"type:text"`
	CapexCost           float64   `json:"capex_cost"`
	NPVValue            float64   `json:"npv_value"`
	ReductionPercentage float64   `json:"reduction_percentage"`
	Applied             bool      `json:"applied" gorm:"not null;default:false"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Intervention) TableName() string {
	return "interventions"
}

func (i *Intervention) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
