package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"shelf-market.backend/internal/domain/entities"
	domainerrors "shelf-market.backend/internal/domain/errors"
	"shelf-market.backend/internal/infrastructure/models"
)

// NotificationRepository implements notification delivery records
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	m := &models.Notification{
		ID:        n.ID,
		Event:     string(n.Event),
		Recipient: n.Recipient,
		Subject:   n.Subject,
		RefType:   n.RefType,
		RefID:     n.RefID,
		Status:    string(n.Status),
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

// MarkResult finalizes a delivery attempt
func (r *NotificationRepository) MarkResult(ctx context.Context, id uuid.UUID, status entities.DeliveryStatus, errMsg string) error {
	updates := map[string]interface{}{
		"status":        string(status),
		"error_message": errMsg,
	}
	if status == entities.DeliveryStatusSent {
		now := time.Now()
		updates["sent_at"] = &now
	}

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, status entities.DeliveryStatus, limit, offset int) ([]*entities.Notification, int, error) {
	db := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Notification{})
	if status != "" {
		db = db.Where("status = ?", string(status))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Notification
	query := db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Notification, 0, len(ms))
	for i := range ms {
		m := ms[i]
		out = append(out, &entities.Notification{
			ID:           m.ID,
			Event:        entities.NotificationEvent(m.Event),
			Recipient:    m.Recipient,
			Subject:      m.Subject,
			RefType:      m.RefType,
			RefID:        m.RefID,
			Status:       entities.DeliveryStatus(m.Status),
			ErrorMessage: m.ErrorMessage,
			SentAt:       m.SentAt,
			CreatedAt:    m.CreatedAt,
		})
	}
	return out, int(total), nil
}
