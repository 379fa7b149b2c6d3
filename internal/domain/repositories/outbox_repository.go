package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"shelf-market.backend/internal/domain/entities"
)

// OutboxRepository queues and tracks mirror sync entries
type OutboxRepository interface {
	// Enqueue inserts a pending entry. Call inside the same UnitOfWork as the
	// local write so a committed record always has its sync queued.
	Enqueue(ctx context.Context, entry *entities.OutboxEntry) error
	// GetDuePending returns pending entries whose scheduledAt has passed,
	// oldest first.
	GetDuePending(ctx context.Context, now time.Time, limit int) ([]*entities.OutboxEntry, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, remoteID string) error
	// MarkRetry increments the attempt counter and reschedules; flips the
	// entry to failed once attempts reach maxAttempts.
	MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, nextAt time.Time) error
	// LatestRemoteID returns the mirror record id from the most recent
	// completed entry for the given record, or empty if never synced.
	LatestRemoteID(ctx context.Context, recordType, recordID string) (string, error)
}
