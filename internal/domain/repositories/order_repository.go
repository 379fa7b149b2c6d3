package repositories

import (
	"context"

	"shelf-market.backend/internal/domain/entities"
)

// OrderFilter narrows an order listing. Zero values mean "any".
type OrderFilter struct {
	CompanyID     string
	CustomerEmail string
	Status        entities.OrderStatus
}

// OrderRepository defines order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	// GetByID resolves either the internal id or the user-facing orderId.
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	List(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entities.Order, int, error)
	Update(ctx context.Context, order *entities.Order) error
}
