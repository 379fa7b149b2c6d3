package usecases

import (
	"context"

	"go.uber.org/zap"
	"shelf-market.backend/internal/domain/entities"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/internal/infrastructure/mail"
	"shelf-market.backend/pkg/logger"
	"shelf-market.backend/pkg/metrics"
	"shelf-market.backend/pkg/utils"
)

// NotificationDispatcher sends notification emails and records every attempt
// with its outcome. Delivery never affects the triggering request: callers
// invoke Dispatch in a goroutine and ignore the result.
type NotificationDispatcher struct {
	repo   domainRepos.NotificationRepository
	sender mail.Sender
}

// NewNotificationDispatcher creates a notification dispatcher
func NewNotificationDispatcher(repo domainRepos.NotificationRepository, sender mail.Sender) *NotificationDispatcher {
	return &NotificationDispatcher{repo: repo, sender: sender}
}

// Dispatch renders the template for event, attempts delivery and records the
// outcome (sent, failed or skipped). Errors are logged, never returned.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, event entities.NotificationEvent, recipient, refType, refID string, tctx mail.TemplateContext) {
	if recipient == "" {
		return
	}

	subject, htmlBody, textBody := mail.Render(event, tctx)

	n := &entities.Notification{
		ID:        utils.GenerateUUIDv7(),
		Event:     event,
		Recipient: recipient,
		Subject:   subject,
		RefType:   refType,
		RefID:     refID,
		Status:    entities.DeliveryStatusPending,
	}
	if err := d.repo.Create(ctx, n); err != nil {
		logger.Error(ctx, "Failed to record notification",
			zap.String("event", string(event)),
			zap.String("ref_id", refID),
			zap.Error(err))
		return
	}

	status := entities.DeliveryStatusSent
	errMsg := ""
	if err := d.sender.Send(recipient, subject, htmlBody, textBody); err != nil {
		if err == mail.ErrNotConfigured {
			status = entities.DeliveryStatusSkipped
			logger.Info(ctx, "SMTP not configured, notification skipped",
				zap.String("event", string(event)),
				zap.String("recipient", recipient),
				zap.String("subject", subject))
		} else {
			status = entities.DeliveryStatusFailed
			errMsg = err.Error()
			logger.Warn(ctx, "Notification delivery failed",
				zap.String("event", string(event)),
				zap.String("recipient", recipient),
				zap.Error(err))
		}
	}

	metrics.NotificationTotal.WithLabelValues(string(event), string(status)).Inc()

	if err := d.repo.MarkResult(ctx, n.ID, status, errMsg); err != nil {
		logger.Error(ctx, "Failed to record notification outcome",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err))
	}
}

// ListDeliveries returns recorded deliveries for the admin audit view
func (d *NotificationDispatcher) ListDeliveries(ctx context.Context, status entities.DeliveryStatus, limit, offset int) ([]*entities.Notification, int, error) {
	return d.repo.List(ctx, status, limit, offset)
}
