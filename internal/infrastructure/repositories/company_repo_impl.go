package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"shelf-market.backend/internal/domain/entities"
	domainerrors "shelf-market.backend/internal/domain/errors"
	"shelf-market.backend/internal/infrastructure/models"
)

// CompanyRepository implements shelf company data operations
type CompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, company *entities.Company) error {
	m := r.toModel(company)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	company.ID = m.ID
	return nil
}

func (r *CompanyRepository) GetByCompanyID(ctx context.Context, companyID string) (*entities.Company, error) {
	var m models.Company
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("company_id = ?", companyID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *CompanyRepository) List(ctx context.Context, status entities.CompanyStatus, limit, offset int) ([]*entities.Company, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Company{})
	if status != "" {
		db = db.Where("status = ?", string(status))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Company
	query := db.Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	companies := make([]*entities.Company, 0, len(ms))
	for i := range ms {
		companies = append(companies, r.toEntity(&ms[i]))
	}
	return companies, int(total), nil
}

// UpdateStatus moves a company between availability pools
func (r *CompanyRepository) UpdateStatus(ctx context.Context, companyID string, status entities.CompanyStatus, ownerID null.String) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Company{}).
		Where("company_id = ?", companyID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"owner_id":   ownerID.Ptr(),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) toModel(c *entities.Company) *models.Company {
	return &models.Company{
		ID:                 c.ID,
		CompanyID:          c.CompanyID,
		Name:               c.Name,
		RegistrationNumber: c.RegistrationNumber,
		Jurisdiction:       c.Jurisdiction,
		IncorporatedAt:     c.IncorporatedAt,
		Price:              c.Price,
		Currency:           c.Currency,
		TotalShares:        c.TotalShares,
		TotalShareCapital:  c.TotalShareCapital,
		Status:             string(c.Status),
		OwnerID:            c.OwnerID.Ptr(),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func (r *CompanyRepository) toEntity(m *models.Company) *entities.Company {
	return &entities.Company{
		ID:                 m.ID,
		CompanyID:          m.CompanyID,
		Name:               m.Name,
		RegistrationNumber: m.RegistrationNumber,
		Jurisdiction:       m.Jurisdiction,
		IncorporatedAt:     m.IncorporatedAt,
		Price:              m.Price,
		Currency:           m.Currency,
		TotalShares:        m.TotalShares,
		TotalShareCapital:  m.TotalShareCapital,
		Status:             entities.CompanyStatus(m.Status),
		OwnerID:            null.StringFromPtr(m.OwnerID),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
