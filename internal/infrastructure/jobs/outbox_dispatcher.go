package jobs

import (
	"context"
	"log"
	"time"

	"shelf-market.backend/internal/domain/entities"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/internal/infrastructure/mirror"
	"shelf-market.backend/pkg/metrics"
)

// OutboxDispatcher drains pending outbox entries into the remote mirror.
// Retries use exponential backoff from baseBackoff; an entry whose attempts
// are exhausted is flipped to failed and left for operator inspection.
type OutboxDispatcher struct {
	repo        domainRepos.OutboxRepository
	client      mirror.Client
	interval    time.Duration
	batchSize   int
	baseBackoff time.Duration
	stop        chan struct{}
}

func NewOutboxDispatcher(repo domainRepos.OutboxRepository, client mirror.Client, interval time.Duration, batchSize int, baseBackoff time.Duration) *OutboxDispatcher {
	return &OutboxDispatcher{
		repo:        repo,
		client:      client,
		interval:    interval,
		batchSize:   batchSize,
		baseBackoff: baseBackoff,
		stop:        make(chan struct{}),
	}
}

func (d *OutboxDispatcher) Start(ctx context.Context) {
	log.Println("🕐 Starting outbox mirror dispatcher...")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Outbox dispatcher stopped (context cancelled)")
			return
		case <-d.stop:
			log.Println("⏹️ Outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.ProcessDue(ctx)
		}
	}
}

func (d *OutboxDispatcher) Stop() {
	close(d.stop)
}

// ProcessDue syncs one batch of due entries. Exposed so a drain can be
// forced outside the ticker.
func (d *OutboxDispatcher) ProcessDue(ctx context.Context) {
	now := time.Now()
	due, err := d.repo.GetDuePending(ctx, now, d.batchSize)
	if err != nil {
		log.Printf("❌ Error fetching due outbox entries: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	log.Printf("🔄 Syncing %d outbox entries to mirror...", len(due))

	for _, entry := range due {
		d.syncEntry(ctx, entry)
	}
}

func (d *OutboxDispatcher) syncEntry(ctx context.Context, entry *entities.OutboxEntry) {
	remoteID := entry.RemoteID
	if remoteID == "" {
		// A prior entry for the same record may already have created the
		// remote row.
		known, err := d.repo.LatestRemoteID(ctx, entry.RecordType, entry.RecordID)
		if err != nil {
			log.Printf("❌ Error resolving remote id for %s %s: %v", entry.RecordType, entry.RecordID, err)
		} else {
			remoteID = known
		}
	}

	newRemoteID, err := d.client.Upsert(ctx, entry.RecordType, entry.RecordID, entry.Payload, remoteID)
	if err != nil {
		attempt := entry.Attempts + 1
		nextAt := time.Now().Add(d.backoff(attempt))
		if retryErr := d.repo.MarkRetry(ctx, entry.ID, err.Error(), nextAt); retryErr != nil {
			log.Printf("❌ Error recording outbox retry for %s: %v", entry.ID, retryErr)
			return
		}
		if attempt >= entry.MaxAttempts {
			log.Printf("❌ Outbox entry %s (%s %s) exhausted after %d attempts: %v",
				entry.ID, entry.RecordType, entry.RecordID, attempt, err)
			metrics.MirrorSyncTotal.WithLabelValues(entry.RecordType, "exhausted").Inc()
		} else {
			log.Printf("⚠️ Outbox sync failed for %s %s (attempt %d/%d), retrying at %s: %v",
				entry.RecordType, entry.RecordID, attempt, entry.MaxAttempts, nextAt.Format(time.RFC3339), err)
			metrics.MirrorSyncTotal.WithLabelValues(entry.RecordType, "retried").Inc()
		}
		return
	}

	if err := d.repo.MarkCompleted(ctx, entry.ID, newRemoteID); err != nil {
		log.Printf("❌ Error completing outbox entry %s: %v", entry.ID, err)
		return
	}
	metrics.MirrorSyncTotal.WithLabelValues(entry.RecordType, "completed").Inc()
}

// backoff doubles per attempt, capped at one hour
func (d *OutboxDispatcher) backoff(attempt int) time.Duration {
	delay := d.baseBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= time.Hour {
			return time.Hour
		}
	}
	return delay
}
