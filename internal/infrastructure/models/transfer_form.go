package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferForm is the persistence model. Nested document blocks (parties,
// cap table, history, comments, attachments) are stored as serialized JSON
// columns, matching the document shape of the record.
type TransferForm struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	FormID string    `gorm:"type:varchar(50);not null;uniqueIndex"`

	OrderID     string `gorm:"type:varchar(50);not null;index"`
	CompanyID   string `gorm:"type:varchar(50);not null;index"`
	CompanyName string `gorm:"type:varchar(255);not null;index"`

	Seller       string `gorm:"type:text"`
	Buyer        string `gorm:"type:text"`
	Shareholders string `gorm:"type:text"`
	Controllers  string `gorm:"type:text"`

	NewCompanyName *string `gorm:"type:varchar(255)"`
	ActivityCodes  string  `gorm:"type:text"`

	TotalShares       int64   `gorm:"not null"`
	TotalShareCapital float64 `gorm:"not null"`
	PricePerShare     float64 `gorm:"not null"`

	Status                  string `gorm:"type:varchar(50);not null;index"`
	AmendmentsRequiredCount int    `gorm:"not null;default:0"`

	StatusHistory string `gorm:"type:text;not null"`
	Comments      string `gorm:"type:text"`
	Attachments   string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (TransferForm) TableName() string {
	return "transfer_forms"
}
