package repositories

import (
	"context"

	"github.com/volatiletech/null/v8"
	"shelf-market.backend/internal/domain/entities"
)

// CompanyRepository defines shelf company data operations
type CompanyRepository interface {
	Create(ctx context.Context, company *entities.Company) error
	GetByCompanyID(ctx context.Context, companyID string) (*entities.Company, error)
	List(ctx context.Context, status entities.CompanyStatus, limit, offset int) ([]*entities.Company, int, error)
	// UpdateStatus moves a company between the available/reserved/owned pools.
	// ownerID carries the orderId of the completed purchase, or null when the
	// company returns to the pool.
	UpdateStatus(ctx context.Context, companyID string, status entities.CompanyStatus, ownerID null.String) error
}
