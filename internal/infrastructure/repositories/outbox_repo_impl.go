package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"shelf-market.backend/internal/domain/entities"
	domainerrors "shelf-market.backend/internal/domain/errors"
	"shelf-market.backend/internal/infrastructure/models"
)

// OutboxRepository implements the mirror sync queue
type OutboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, entry *entities.OutboxEntry) error {
	m := &models.OutboxEntry{
		ID:          entry.ID,
		RecordType:  entry.RecordType,
		RecordID:    entry.RecordID,
		Payload:     entry.Payload,
		Status:      string(entry.Status),
		Attempts:    entry.Attempts,
		MaxAttempts: entry.MaxAttempts,
		RemoteID:    entry.RemoteID,
		ScheduledAt: entry.ScheduledAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	entry.ID = m.ID
	entry.CreatedAt = m.CreatedAt
	return nil
}

// GetDuePending returns pending entries due for a sync attempt, oldest first
func (r *OutboxRepository) GetDuePending(ctx context.Context, now time.Time, limit int) ([]*entities.OutboxEntry, error) {
	var ms []models.OutboxEntry
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ?", string(entities.OutboxStatusPending), now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]*entities.OutboxEntry, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}

func (r *OutboxRepository) MarkCompleted(ctx context.Context, id uuid.UUID, remoteID string) error {
	now := time.Now()
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.OutboxEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        string(entities.OutboxStatusCompleted),
			"remote_id":     remoteID,
			"completed_at":  &now,
			"error_message": "",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkRetry reschedules a failed attempt, or flips the entry to failed once
// attempts are exhausted.
func (r *OutboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, nextAt time.Time) error {
	db := GetDB(ctx, r.db)

	var m models.OutboxEntry
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrNotFound
		}
		return err
	}

	m.Attempts++
	updates := map[string]interface{}{
		"attempts":      m.Attempts,
		"error_message": errMsg,
		"scheduled_at":  nextAt,
	}
	if m.Attempts >= m.MaxAttempts {
		updates["status"] = string(entities.OutboxStatusFailed)
	}

	return db.WithContext(ctx).Model(&models.OutboxEntry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// LatestRemoteID returns the mirror record id from the most recent completed
// sync of the given record
func (r *OutboxRepository) LatestRemoteID(ctx context.Context, recordType, recordID string) (string, error) {
	var m models.OutboxEntry
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("record_type = ? AND record_id = ? AND status = ? AND remote_id <> ''",
			recordType, recordID, string(entities.OutboxStatusCompleted)).
		Order("completed_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return m.RemoteID, nil
}

func (r *OutboxRepository) toEntity(m *models.OutboxEntry) *entities.OutboxEntry {
	return &entities.OutboxEntry{
		ID:           m.ID,
		RecordType:   m.RecordType,
		RecordID:     m.RecordID,
		Payload:      m.Payload,
		Status:       entities.OutboxStatus(m.Status),
		Attempts:     m.Attempts,
		MaxAttempts:  m.MaxAttempts,
		RemoteID:     m.RemoteID,
		ScheduledAt:  m.ScheduledAt,
		CompletedAt:  m.CompletedAt,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
