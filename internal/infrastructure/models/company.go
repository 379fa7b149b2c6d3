package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID string    `gorm:"type:varchar(50);not null;uniqueIndex"`

	Name               string    `gorm:"type:varchar(255);not null;index"`
	RegistrationNumber string    `gorm:"type:varchar(50);not null"`
	Jurisdiction       string    `gorm:"type:varchar(100);not null"`
	IncorporatedAt     time.Time `gorm:"not null"`

	Price    float64 `gorm:"not null"`
	Currency string  `gorm:"type:varchar(10);not null"`

	TotalShares       int64   `gorm:"not null"`
	TotalShareCapital float64 `gorm:"not null"`

	Status  string  `gorm:"type:varchar(50);not null;index"`
	OwnerID *string `gorm:"type:varchar(50)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Company) TableName() string {
	return "companies"
}
