package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// OrderStatus represents a purchase order status. Unlike the transfer form
// workflow there is no transition table; handlers may set any known value.
type OrderStatus string

const (
	OrderStatusPendingPayment      OrderStatus = "pending-payment"
	OrderStatusPaid                OrderStatus = "paid"
	OrderStatusTransferFormPending OrderStatus = "transfer-form-pending"
	OrderStatusUnderReview         OrderStatus = "under-review"
	OrderStatusAmendRequired       OrderStatus = "amend-required"
	OrderStatusPendingTransfer     OrderStatus = "pending-transfer"
	OrderStatusCompleted           OrderStatus = "completed"
	OrderStatusCancelled           OrderStatus = "cancelled"
	OrderStatusRefunded            OrderStatus = "refunded"
	OrderStatusDisputed            OrderStatus = "disputed"
)

var orderStatuses = map[OrderStatus]struct{}{
	OrderStatusPendingPayment:      {},
	OrderStatusPaid:                {},
	OrderStatusTransferFormPending: {},
	OrderStatusUnderReview:         {},
	OrderStatusAmendRequired:       {},
	OrderStatusPendingTransfer:     {},
	OrderStatusCompleted:           {},
	OrderStatusCancelled:           {},
	OrderStatusRefunded:            {},
	OrderStatusDisputed:            {},
}

// IsValid reports whether s is one of the ten known order statuses
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatuses[s]
	return ok
}

// RefundStatus represents the status of a refund sub-record, independent of
// the order status.
type RefundStatus string

const (
	RefundStatusRequested  RefundStatus = "requested"
	RefundStatusReviewing  RefundStatus = "reviewing"
	RefundStatusApproved   RefundStatus = "approved"
	RefundStatusRejected   RefundStatus = "rejected"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
)

// Refund is the optional refund sub-record attached to an order
type Refund struct {
	Status      RefundStatus `json:"status"`
	Reason      string       `json:"reason,omitempty"`
	Amount      float64      `json:"amount"`
	RequestedAt time.Time    `json:"requestedAt"`
	ResolvedAt  *time.Time   `json:"resolvedAt,omitempty"`
	ResolvedBy  string       `json:"resolvedBy,omitempty"`
	AdminNotes  string       `json:"adminNotes,omitempty"`
}

// Order represents a company purchase
type Order struct {
	ID      uuid.UUID `json:"id"`
	OrderID string    `json:"orderId"`

	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone,omitempty"`

	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`

	Status OrderStatus `json:"status"`

	PaymentMethod     null.String `json:"paymentMethod,omitempty"`
	PaymentReference  null.String `json:"paymentReference,omitempty"`
	PaymentReceivedAt *time.Time  `json:"paymentReceivedAt,omitempty"`

	Refund *Refund `json:"refund,omitempty"`

	StatusHistory []StatusHistoryEntry `json:"statusHistory"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}

// CreateOrderInput represents input for creating an order
type CreateOrderInput struct {
	CompanyID     string  `json:"companyId" binding:"required"`
	CompanyName   string  `json:"companyName" binding:"required"`
	CustomerName  string  `json:"customerName" binding:"required"`
	CustomerEmail string  `json:"customerEmail" binding:"required"`
	CustomerPhone string  `json:"customerPhone"`
	Amount        float64 `json:"amount" binding:"required"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"paymentMethod"`
}

// UpdateOrderInput represents a partial field merge on an order
type UpdateOrderInput struct {
	CustomerName     *string  `json:"customerName"`
	CustomerEmail    *string  `json:"customerEmail"`
	CustomerPhone    *string  `json:"customerPhone"`
	Amount           *float64 `json:"amount"`
	PaymentMethod    *string  `json:"paymentMethod"`
	PaymentReference *string  `json:"paymentReference"`
}
