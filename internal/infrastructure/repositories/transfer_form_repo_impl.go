package repositories

import (
	"errors"

	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"shelf-market.backend/internal/domain/entities"
	domainerrors "shelf-market.backend/internal/domain/errors"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/internal/infrastructure/models"
)

// TransferFormRepository implements transfer form data operations
type TransferFormRepository struct {
	db *gorm.DB
}

// NewTransferFormRepository creates a new transfer form repository
func NewTransferFormRepository(db *gorm.DB) *TransferFormRepository {
	return &TransferFormRepository{db: db}
}

// Create creates a new transfer form
func (r *TransferFormRepository) Create(ctx context.Context, form *entities.TransferForm) error {
	m := r.toModel(form)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	form.ID = m.ID
	form.CreatedAt = m.CreatedAt
	form.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a transfer form by internal id or user-facing formId. Takes a
// row lock when the context was marked by UnitOfWork.WithLock.
func (r *TransferFormRepository) GetByID(ctx context.Context, id string) (*entities.TransferForm, error) {
	var m models.TransferForm
	db := applyLock(ctx, GetDB(ctx, r.db).WithContext(ctx))

	query := db.Where("form_id = ?", id)
	if parsed, err := uuid.Parse(id); err == nil {
		query = db.Where("id = ? OR form_id = ?", parsed, id)
	}

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List lists transfer forms matching the filter, newest first
func (r *TransferFormRepository) List(ctx context.Context, filter domainRepos.FormFilter, limit, offset int) ([]*entities.TransferForm, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.TransferForm{})

	if filter.OrderID != "" {
		db = db.Where("order_id = ?", filter.OrderID)
	}
	if filter.CompanyID != "" {
		db = db.Where("company_id = ?", filter.CompanyID)
	}
	if filter.CompanyName != "" {
		db = db.Where("company_name = ?", filter.CompanyName)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.TransferForm
	query := db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	forms := make([]*entities.TransferForm, 0, len(ms))
	for i := range ms {
		forms = append(forms, r.toEntity(&ms[i]))
	}
	return forms, int(total), nil
}

// Update persists the full record
func (r *TransferFormRepository) Update(ctx context.Context, form *entities.TransferForm) error {
	m := r.toModel(form)
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.TransferForm{}).
		Where("id = ?", form.ID).
		Updates(map[string]interface{}{
			"seller":                    m.Seller,
			"buyer":                     m.Buyer,
			"shareholders":              m.Shareholders,
			"controllers":               m.Controllers,
			"new_company_name":          m.NewCompanyName,
			"activity_codes":            m.ActivityCodes,
			"status":                    m.Status,
			"amendments_required_count": m.AmendmentsRequiredCount,
			"status_history":            m.StatusHistory,
			"comments":                  m.Comments,
			"attachments":               m.Attachments,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a transfer form
func (r *TransferFormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&models.TransferForm{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TransferFormRepository) toModel(f *entities.TransferForm) *models.TransferForm {
	m := &models.TransferForm{
		ID:                      f.ID,
		FormID:                  f.FormID,
		OrderID:                 f.OrderID,
		CompanyID:               f.CompanyID,
		CompanyName:             f.CompanyName,
		Seller:                  marshalColumn(f.Seller),
		Buyer:                   marshalColumn(f.Buyer),
		Shareholders:            marshalColumn(f.Shareholders),
		Controllers:             marshalColumn(f.Controllers),
		ActivityCodes:           marshalColumn(f.ActivityCodes),
		TotalShares:             f.TotalShares,
		TotalShareCapital:       f.TotalShareCapital,
		PricePerShare:           f.PricePerShare,
		Status:                  string(f.Status),
		AmendmentsRequiredCount: f.AmendmentsRequiredCount,
		StatusHistory:           marshalColumn(f.StatusHistory),
		Comments:                marshalColumn(f.Comments),
		Attachments:             marshalColumn(f.Attachments),
		CreatedAt:               f.CreatedAt,
		UpdatedAt:               f.UpdatedAt,
	}
	if f.NewCompanyName.Valid {
		v := f.NewCompanyName.String
		m.NewCompanyName = &v
	}
	return m
}

func (r *TransferFormRepository) toEntity(m *models.TransferForm) *entities.TransferForm {
	f := &entities.TransferForm{
		ID:                      m.ID,
		FormID:                  m.FormID,
		OrderID:                 m.OrderID,
		CompanyID:               m.CompanyID,
		CompanyName:             m.CompanyName,
		NewCompanyName:          null.StringFromPtr(m.NewCompanyName),
		TotalShares:             m.TotalShares,
		TotalShareCapital:       m.TotalShareCapital,
		PricePerShare:           m.PricePerShare,
		Status:                  entities.FormStatus(m.Status),
		AmendmentsRequiredCount: m.AmendmentsRequiredCount,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
	unmarshalColumn(m.Seller, &f.Seller)
	unmarshalColumn(m.Buyer, &f.Buyer)
	unmarshalColumn(m.Shareholders, &f.Shareholders)
	unmarshalColumn(m.Controllers, &f.Controllers)
	unmarshalColumn(m.ActivityCodes, &f.ActivityCodes)
	unmarshalColumn(m.StatusHistory, &f.StatusHistory)
	unmarshalColumn(m.Comments, &f.Comments)
	unmarshalColumn(m.Attachments, &f.Attachments)
	return f
}
