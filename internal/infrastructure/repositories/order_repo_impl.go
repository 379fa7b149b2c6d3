package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"shelf-market.backend/internal/domain/entities"
	domainerrors "shelf-market.backend/internal/domain/errors"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/internal/infrastructure/models"
)

// OrderRepository implements order data operations
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create creates a new order
func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) error {
	m := r.toModel(order)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	order.ID = m.ID
	order.CreatedAt = m.CreatedAt
	order.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets an order by internal id or user-facing orderId. Takes a row
// lock when the context was marked by UnitOfWork.WithLock.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	var m models.Order
	db := applyLock(ctx, GetDB(ctx, r.db).WithContext(ctx))

	query := db.Where("order_id = ?", id)
	if parsed, err := uuid.Parse(id); err == nil {
		query = db.Where("id = ? OR order_id = ?", parsed, id)
	}

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List lists orders matching the filter, newest first
func (r *OrderRepository) List(ctx context.Context, filter domainRepos.OrderFilter, limit, offset int) ([]*entities.Order, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Order{})

	if filter.CompanyID != "" {
		db = db.Where("company_id = ?", filter.CompanyID)
	}
	if filter.CustomerEmail != "" {
		db = db.Where("customer_email = ?", filter.CustomerEmail)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Order
	query := db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*entities.Order, 0, len(ms))
	for i := range ms {
		orders = append(orders, r.toEntity(&ms[i]))
	}
	return orders, int(total), nil
}

// Update persists the full record
func (r *OrderRepository) Update(ctx context.Context, order *entities.Order) error {
	m := r.toModel(order)
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"customer_name":       m.CustomerName,
			"customer_email":      m.CustomerEmail,
			"customer_phone":      m.CustomerPhone,
			"amount":              m.Amount,
			"status":              m.Status,
			"payment_method":      m.PaymentMethod,
			"payment_reference":   m.PaymentReference,
			"payment_received_at": m.PaymentReceivedAt,
			"refund":              m.Refund,
			"status_history":      m.StatusHistory,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) toModel(o *entities.Order) *models.Order {
	m := &models.Order{
		ID:                o.ID,
		OrderID:           o.OrderID,
		CompanyID:         o.CompanyID,
		CompanyName:       o.CompanyName,
		CustomerName:      o.CustomerName,
		CustomerEmail:     o.CustomerEmail,
		CustomerPhone:     o.CustomerPhone,
		Amount:            o.Amount,
		Currency:          o.Currency,
		Status:            string(o.Status),
		PaymentMethod:     o.PaymentMethod.Ptr(),
		PaymentReference:  o.PaymentReference.Ptr(),
		PaymentReceivedAt: o.PaymentReceivedAt,
		StatusHistory:     marshalColumn(o.StatusHistory),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if o.Refund != nil {
		v := marshalColumn(o.Refund)
		m.Refund = &v
	}
	return m
}

func (r *OrderRepository) toEntity(m *models.Order) *entities.Order {
	o := &entities.Order{
		ID:                m.ID,
		OrderID:           m.OrderID,
		CompanyID:         m.CompanyID,
		CompanyName:       m.CompanyName,
		CustomerName:      m.CustomerName,
		CustomerEmail:     m.CustomerEmail,
		CustomerPhone:     m.CustomerPhone,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Status:            entities.OrderStatus(m.Status),
		PaymentMethod:     null.StringFromPtr(m.PaymentMethod),
		PaymentReference:  null.StringFromPtr(m.PaymentReference),
		PaymentReceivedAt: m.PaymentReceivedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	unmarshalColumn(m.StatusHistory, &o.StatusHistory)
	if m.Refund != nil {
		var refund entities.Refund
		unmarshalColumn(*m.Refund, &refund)
		o.Refund = &refund
	}
	return o
}
