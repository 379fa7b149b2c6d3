package repositories

import (
	"context"

	"github.com/google/uuid"
	"shelf-market.backend/internal/domain/entities"
)

// NotificationRepository records outbound email deliveries
type NotificationRepository interface {
	Create(ctx context.Context, n *entities.Notification) error
	// MarkResult finalizes a delivery attempt. errMsg is empty on success.
	MarkResult(ctx context.Context, id uuid.UUID, status entities.DeliveryStatus, errMsg string) error
	List(ctx context.Context, status entities.DeliveryStatus, limit, offset int) ([]*entities.Notification, int, error)
}
