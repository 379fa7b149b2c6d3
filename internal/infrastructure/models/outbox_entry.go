package models

import (
	"time"

	"github.com/google/uuid"
)

type OutboxEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecordType string    `gorm:"type:varchar(50);not null;index:idx_outbox_record"`
	RecordID   string    `gorm:"type:varchar(50);not null;index:idx_outbox_record"`
	Payload    string    `gorm:"type:text;not null"`

	Status      string `gorm:"type:varchar(20);not null;index"`
	Attempts    int    `gorm:"not null;default:0"`
	MaxAttempts int    `gorm:"not null"`
	RemoteID    string `gorm:"type:varchar(100)"`

	ScheduledAt  time.Time `gorm:"not null;index"`
	CompletedAt  *time.Time
	ErrorMessage string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (OutboxEntry) TableName() string {
	return "outbox_entries"
}
