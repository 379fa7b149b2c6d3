package usecases

import (
	"context"

	"shelf-market.backend/internal/domain/entities"
	"shelf-market.backend/internal/domain/errors"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/pkg/utils"
)

// CompanyUsecase implements shelf company catalog operations
type CompanyUsecase struct {
	companyRepo domainRepos.CompanyRepository
}

// NewCompanyUsecase creates a new company usecase
func NewCompanyUsecase(companyRepo domainRepos.CompanyRepository) *CompanyUsecase {
	return &CompanyUsecase{companyRepo: companyRepo}
}

// CreateCompanyInput represents input for listing a new shelf company
type CreateCompanyInput struct {
	Name               string  `json:"name" binding:"required"`
	RegistrationNumber string  `json:"registrationNumber" binding:"required"`
	Jurisdiction       string  `json:"jurisdiction"`
	Price              float64 `json:"price" binding:"required"`
	Currency           string  `json:"currency"`
	TotalShares        int64   `json:"totalShares" binding:"required"`
	TotalShareCapital  float64 `json:"totalShareCapital" binding:"required"`
}

// CreateCompany lists a new shelf company as available
func (uc *CompanyUsecase) CreateCompany(ctx context.Context, input *CreateCompanyInput) (*entities.Company, error) {
	currency := input.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	company := &entities.Company{
		ID:                 utils.GenerateUUIDv7(),
		CompanyID:          utils.GenerateReference(CompanyReferencePrefix),
		Name:               input.Name,
		RegistrationNumber: input.RegistrationNumber,
		Jurisdiction:       input.Jurisdiction,
		Price:              input.Price,
		Currency:           currency,
		TotalShares:        input.TotalShares,
		TotalShareCapital:  input.TotalShareCapital,
		Status:             entities.CompanyStatusAvailable,
	}

	if err := uc.companyRepo.Create(ctx, company); err != nil {
		return nil, errors.InternalError(err)
	}
	return company, nil
}

// GetCompany fetches a company by companyId
func (uc *CompanyUsecase) GetCompany(ctx context.Context, companyID string) (*entities.Company, error) {
	company, err := uc.companyRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		if err == errors.ErrNotFound {
			return nil, errors.NotFound("company not found")
		}
		return nil, errors.InternalError(err)
	}
	return company, nil
}

// ListCompanies lists companies, optionally filtered by status. An empty
// status returns every listing regardless of availability.
func (uc *CompanyUsecase) ListCompanies(ctx context.Context, status entities.CompanyStatus, limit, offset int) ([]*entities.Company, int, error) {
	return uc.companyRepo.List(ctx, status, limit, offset)
}
