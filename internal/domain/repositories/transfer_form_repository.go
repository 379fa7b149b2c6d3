package repositories

import (
	"context"

	"github.com/google/uuid"
	"shelf-market.backend/internal/domain/entities"
)

// FormFilter narrows a transfer form listing. Zero values mean "any".
type FormFilter struct {
	OrderID     string
	CompanyID   string
	CompanyName string
	Status      entities.FormStatus
}

// TransferFormRepository defines transfer form data operations
type TransferFormRepository interface {
	Create(ctx context.Context, form *entities.TransferForm) error
	// GetByID resolves either the internal id or the user-facing formId.
	GetByID(ctx context.Context, id string) (*entities.TransferForm, error)
	List(ctx context.Context, filter FormFilter, limit, offset int) ([]*entities.TransferForm, int, error)
	// Update persists the full record, including the serialized history,
	// comments and attachment blocks.
	Update(ctx context.Context, form *entities.TransferForm) error
	Delete(ctx context.Context, id uuid.UUID) error
}
