package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Event     string    `gorm:"type:varchar(50);not null;index"`
	Recipient string    `gorm:"type:varchar(255);not null"`
	Subject   string    `gorm:"type:varchar(500);not null"`

	RefType string `gorm:"type:varchar(50);not null"`
	RefID   string `gorm:"type:varchar(50);not null;index"`

	Status       string `gorm:"type:varchar(20);not null;index"`
	ErrorMessage string `gorm:"type:text"`
	SentAt       *time.Time
	CreatedAt    time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
