package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"shelf-market.backend/internal/domain/entities"
)

type memOutboxRepo struct {
	mu      sync.Mutex
	entries []*entities.OutboxEntry
}

func (r *memOutboxRepo) Enqueue(ctx context.Context, entry *entities.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memOutboxRepo) GetDuePending(ctx context.Context, now time.Time, limit int) ([]*entities.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.OutboxEntry
	for _, e := range r.entries {
		if e.Status == entities.OutboxStatusPending && !e.ScheduledAt.After(now) {
			cp := *e
			out = append(out, &cp)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memOutboxRepo) MarkCompleted(ctx context.Context, id uuid.UUID, remoteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			now := time.Now()
			e.Status = entities.OutboxStatusCompleted
			e.RemoteID = remoteID
			e.CompletedAt = &now
			return nil
		}
	}
	return errors.New("entry not found")
}

func (r *memOutboxRepo) MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, nextAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			e.Attempts++
			e.ErrorMessage = errMsg
			e.ScheduledAt = nextAt
			if e.Attempts >= e.MaxAttempts {
				e.Status = entities.OutboxStatusFailed
			}
			return nil
		}
	}
	return errors.New("entry not found")
}

func (r *memOutboxRepo) LatestRemoteID(ctx context.Context, recordType, recordID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if e.RecordType == recordType && e.RecordID == recordID &&
			e.Status == entities.OutboxStatusCompleted && e.RemoteID != "" {
			return e.RemoteID, nil
		}
	}
	return "", nil
}

func (r *memOutboxRepo) get(id uuid.UUID) *entities.OutboxEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			cp := *e
			return &cp
		}
	}
	return nil
}

type upsertCall struct {
	recordType string
	recordID   string
	remoteID   string
}

type stubMirrorClient struct {
	mu       sync.Mutex
	err      error
	returnID string
	calls    []upsertCall
}

func (c *stubMirrorClient) Upsert(ctx context.Context, recordType, recordID, payload, remoteID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, upsertCall{recordType: recordType, recordID: recordID, remoteID: remoteID})
	if c.err != nil {
		return "", c.err
	}
	return c.returnID, nil
}

func pendingEntry(recordType, recordID string) *entities.OutboxEntry {
	return &entities.OutboxEntry{
		ID:          uuid.New(),
		RecordType:  recordType,
		RecordID:    recordID,
		Payload:     `{"status":"under-review"}`,
		Status:      entities.OutboxStatusPending,
		MaxAttempts: 3,
		ScheduledAt: time.Now().Add(-time.Second),
	}
}

func TestOutboxDispatcher_CompletesDueEntries(t *testing.T) {
	repo := &memOutboxRepo{}
	client := &stubMirrorClient{returnID: "recABC123"}
	d := NewOutboxDispatcher(repo, client, time.Minute, 10, time.Second)

	entry := pendingEntry("transfer-form", "TF-1")
	require.NoError(t, repo.Enqueue(context.Background(), entry))

	d.ProcessDue(context.Background())

	stored := repo.get(entry.ID)
	require.NotNil(t, stored)
	require.Equal(t, entities.OutboxStatusCompleted, stored.Status)
	require.Equal(t, "recABC123", stored.RemoteID)
	require.NotNil(t, stored.CompletedAt)

	require.Len(t, client.calls, 1)
	require.Equal(t, "transfer-form", client.calls[0].recordType)
	require.Empty(t, client.calls[0].remoteID)
}

func TestOutboxDispatcher_ReusesKnownRemoteID(t *testing.T) {
	repo := &memOutboxRepo{}
	client := &stubMirrorClient{returnID: "recABC123"}
	d := NewOutboxDispatcher(repo, client, time.Minute, 10, time.Second)
	ctx := context.Background()

	first := pendingEntry("order", "ORD-1")
	require.NoError(t, repo.Enqueue(ctx, first))
	d.ProcessDue(ctx)

	// a later write to the same record updates the existing remote row
	second := pendingEntry("order", "ORD-1")
	require.NoError(t, repo.Enqueue(ctx, second))
	d.ProcessDue(ctx)

	require.Len(t, client.calls, 2)
	require.Empty(t, client.calls[0].remoteID)
	require.Equal(t, "recABC123", client.calls[1].remoteID)
}

func TestOutboxDispatcher_RetriesThenExhausts(t *testing.T) {
	repo := &memOutboxRepo{}
	client := &stubMirrorClient{err: errors.New("airtable: 503")}
	d := NewOutboxDispatcher(repo, client, time.Minute, 10, time.Second)
	ctx := context.Background()

	entry := pendingEntry("order", "ORD-1")
	require.NoError(t, repo.Enqueue(ctx, entry))

	d.ProcessDue(ctx)
	stored := repo.get(entry.ID)
	require.Equal(t, entities.OutboxStatusPending, stored.Status)
	require.Equal(t, 1, stored.Attempts)
	require.Contains(t, stored.ErrorMessage, "503")
	require.True(t, stored.ScheduledAt.After(time.Now()))

	// force the rescheduled entry due again for two more rounds
	for i := 0; i < 2; i++ {
		repo.mu.Lock()
		repo.entries[0].ScheduledAt = time.Now().Add(-time.Second)
		repo.mu.Unlock()
		d.ProcessDue(ctx)
	}

	stored = repo.get(entry.ID)
	require.Equal(t, entities.OutboxStatusFailed, stored.Status)
	require.Equal(t, 3, stored.Attempts)

	// failed entries are never picked up again
	d.ProcessDue(ctx)
	require.Len(t, client.calls, 3)
}

func TestOutboxDispatcher_SkipsFutureEntries(t *testing.T) {
	repo := &memOutboxRepo{}
	client := &stubMirrorClient{returnID: "rec1"}
	d := NewOutboxDispatcher(repo, client, time.Minute, 10, time.Second)

	entry := pendingEntry("order", "ORD-1")
	entry.ScheduledAt = time.Now().Add(time.Hour)
	require.NoError(t, repo.Enqueue(context.Background(), entry))

	d.ProcessDue(context.Background())
	require.Empty(t, client.calls)
}

func TestOutboxDispatcher_Backoff(t *testing.T) {
	d := NewOutboxDispatcher(&memOutboxRepo{}, &stubMirrorClient{}, time.Minute, 10, 30*time.Second)

	require.Equal(t, 30*time.Second, d.backoff(1))
	require.Equal(t, time.Minute, d.backoff(2))
	require.Equal(t, 2*time.Minute, d.backoff(3))
	require.Equal(t, time.Hour, d.backoff(10))
}

func TestOutboxDispatcher_StartStop(t *testing.T) {
	repo := &memOutboxRepo{}
	client := &stubMirrorClient{returnID: "rec1"}
	d := NewOutboxDispatcher(repo, client, 10*time.Millisecond, 10, time.Second)

	entry := pendingEntry("order", "ORD-1")
	require.NoError(t, repo.Enqueue(context.Background(), entry))

	done := make(chan struct{})
	go func() {
		d.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		c := repo.get(entry.ID)
		return c != nil && c.Status == entities.OutboxStatusCompleted
	}, time.Second, 10*time.Millisecond)

	d.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
