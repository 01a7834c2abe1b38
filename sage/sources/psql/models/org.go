package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile links a user to their organization. A user without a profile row
// (or with a nil organization) cannot run agent turns.
type Profile struct {
	UserID         int        `json:"user_id" gorm:"primaryKey"`
	FullName       string     `json:"full_name" gorm:"type:varchar(255)"`
	OrganizationID *uuid.UUID `json:"organization_id" gorm:"type:uuid;index"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}

type Organization struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	CreditBalance float64   `json:"credit_balance" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Organization) TableName() string {
	return "organizations"
}

func (o *Organization) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type Transaction struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	Kind           string    `json:"kind" gorm:"type:varchar(50);not null"`
	Amount         float64   `json:"amount" gorm:"not null"`
	Description    string    `json:"description" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type EmissionLog struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	Source         string    `json:"source" gorm:"type:varchar(255);not null"`
	Scope          int       `json:"scope"`
	CO2Kg          float64   `json:"co2_kg" gorm:"not null"`
	LoggedAt       time.Time `json:"logged_at" gorm:"not null;autoCreateTime"`
}

func (EmissionLog) TableName() string {
	return "emissions_log"
}

func (e *EmissionLog) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
