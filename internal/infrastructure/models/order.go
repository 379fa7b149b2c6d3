package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID string    `gorm:"type:varchar(50);not null;uniqueIndex"`

	CompanyID   string `gorm:"type:varchar(50);not null;index"`
	CompanyName string `gorm:"type:varchar(255);not null"`

	CustomerName  string `gorm:"type:varchar(255);not null"`
	CustomerEmail string `gorm:"type:varchar(255);not null;index"`
	CustomerPhone string `gorm:"type:varchar(50)"`

	Amount   float64 `gorm:"not null"`
	Currency string  `gorm:"type:varchar(10);not null"`

	Status string `gorm:"type:varchar(50);not null;index"`

	PaymentMethod     *string `gorm:"type:varchar(50)"`
	PaymentReference  *string `gorm:"type:varchar(255)"`
	PaymentReceivedAt *time.Time

	// Refund sub-record and status history as serialized JSON
	Refund        *string `gorm:"type:text"`
	StatusHistory string  `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Order) TableName() string {
	return "orders"
}
