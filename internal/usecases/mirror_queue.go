package usecases

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"shelf-market.backend/internal/domain/entities"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/pkg/logger"
	"shelf-market.backend/pkg/utils"
)

// MirrorQueue enqueues record snapshots for the background mirror sync. When
// the mirror is not configured nothing is queued and local commits stand
// alone.
type MirrorQueue struct {
	outboxRepo  domainRepos.OutboxRepository
	enabled     bool
	maxAttempts int
}

// NewMirrorQueue creates a mirror queue
func NewMirrorQueue(outboxRepo domainRepos.OutboxRepository, enabled bool, maxAttempts int) *MirrorQueue {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MirrorQueue{
		outboxRepo:  outboxRepo,
		enabled:     enabled,
		maxAttempts: maxAttempts,
	}
}

// Enqueue queues a full record snapshot. Call inside the same UnitOfWork as
// the local write so a committed record always has its sync queued.
func (q *MirrorQueue) Enqueue(ctx context.Context, recordType, recordID string, record interface{}) error {
	if !q.enabled {
		return nil
	}

	payload, err := json.Marshal(record)
	if err != nil {
		// A snapshot that cannot serialize is a bug, not a sync failure;
		// don't fail the local write over it.
		logger.Error(ctx, "Failed to serialize mirror snapshot",
			zap.String("record_type", recordType),
			zap.String("record_id", recordID),
			zap.Error(err))
		return nil
	}

	return q.outboxRepo.Enqueue(ctx, &entities.OutboxEntry{
		ID:          utils.GenerateUUIDv7(),
		RecordType:  recordType,
		RecordID:    recordID,
		Payload:     string(payload),
		Status:      entities.OutboxStatusPending,
		MaxAttempts: q.maxAttempts,
		ScheduledAt: time.Now(),
	})
}
