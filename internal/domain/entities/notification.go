package entities

import (
	"time"

	"github.com/google/uuid"
)

// NotificationEvent identifies which email template a delivery uses
type NotificationEvent string

const (
	NotificationFormSubmitted     NotificationEvent = "form-submitted"
	NotificationFormStatusChanged NotificationEvent = "form-status-changed"
	NotificationAmendmentRequired NotificationEvent = "amendment-required"
	NotificationTransferComplete  NotificationEvent = "transfer-complete"
	NotificationOrderStatusChanged NotificationEvent = "order-status-changed"
	NotificationRefundResolved    NotificationEvent = "refund-resolved"
)

// DeliveryStatus records the outcome of a notification attempt
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
	DeliveryStatusSkipped DeliveryStatus = "skipped" // SMTP not configured
)

// Notification is a recorded outbound email. Delivery is best effort; the
// record makes missed notifications auditable instead of silently swallowed.
type Notification struct {
	ID        uuid.UUID         `json:"id"`
	Event     NotificationEvent `json:"event"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`

	// Correlation back to the triggering record
	RefType string `json:"refType"` // "transfer-form" | "order"
	RefID   string `json:"refId"`

	Status       DeliveryStatus `json:"status"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	SentAt       *time.Time     `json:"sentAt,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
