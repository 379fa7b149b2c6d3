package entities

import (
	"time"

	"github.com/google/uuid"
)

// OutboxStatus represents the sync state of an outbox entry
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusCompleted OutboxStatus = "completed"
	OutboxStatusFailed    OutboxStatus = "failed" // attempts exhausted
)

// OutboxEntry is one queued mirror sync. Every local commit that must reach
// the remote mirror enqueues an entry in the same transaction; a background
// dispatcher drains the queue with retry and backoff. The API response never
// waits on it.
type OutboxEntry struct {
	ID          uuid.UUID    `json:"id"`
	RecordType  string       `json:"recordType"` // "transfer-form" | "order"
	RecordID    string       `json:"recordId"`   // user-facing formId / orderId
	Payload     string       `json:"payload"`    // full record snapshot, JSON
	Status      OutboxStatus `json:"status"`
	Attempts    int          `json:"attempts"`
	MaxAttempts int          `json:"maxAttempts"`
	// RemoteID is the mirror-side record id once known; empty means the next
	// sync creates rather than updates.
	RemoteID     string     `json:"remoteId,omitempty"`
	ScheduledAt  time.Time  `json:"scheduledAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
