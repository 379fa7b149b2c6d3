package usecases

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"shelf-market.backend/internal/domain/entities"
	"shelf-market.backend/internal/domain/errors"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/internal/infrastructure/mail"
	"shelf-market.backend/pkg/logger"
	"shelf-market.backend/pkg/utils"
)

// OrderUsecase implements the purchase order lifecycle
type OrderUsecase struct {
	orderRepo   domainRepos.OrderRepository
	companyRepo domainRepos.CompanyRepository
	uow         domainRepos.UnitOfWork
	queue       *MirrorQueue
	dispatcher  *NotificationDispatcher
}

// NewOrderUsecase creates a new order usecase
func NewOrderUsecase(
	orderRepo domainRepos.OrderRepository,
	companyRepo domainRepos.CompanyRepository,
	uow domainRepos.UnitOfWork,
	queue *MirrorQueue,
	dispatcher *NotificationDispatcher,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:   orderRepo,
		companyRepo: companyRepo,
		uow:         uow,
		queue:       queue,
		dispatcher:  dispatcher,
	}
}

// CreateOrder creates an order in pending-payment and reserves the company
func (uc *OrderUsecase) CreateOrder(ctx context.Context, input *entities.CreateOrderInput) (*entities.Order, error) {
	company, err := uc.companyRepo.GetByCompanyID(ctx, input.CompanyID)
	if err != nil {
		return nil, errors.NotFound("company not found")
	}
	if company.Status != entities.CompanyStatusAvailable {
		return nil, errors.Conflict("company is not available for purchase", errors.ErrCompanyNotAvailable)
	}

	currency := input.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	now := time.Now()
	order := &entities.Order{
		ID:            utils.GenerateUUIDv7(),
		OrderID:       utils.GenerateReference(OrderReferencePrefix),
		CompanyID:     input.CompanyID,
		CompanyName:   input.CompanyName,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		Amount:        input.Amount,
		Currency:      currency,
		Status:        entities.OrderStatusPendingPayment,
		StatusHistory: []entities.StatusHistoryEntry{{
			FromStatus:  "",
			ToStatus:    string(entities.OrderStatusPendingPayment),
			ChangedDate: now,
			ChangedBy:   ActorCustomer,
			Reason:      "order created",
		}},
	}
	if input.PaymentMethod != "" {
		order.PaymentMethod = null.StringFrom(input.PaymentMethod)
	}

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Create(txCtx, order); err != nil {
			return err
		}
		if err := uc.companyRepo.UpdateStatus(txCtx, input.CompanyID, entities.CompanyStatusReserved, null.StringFrom(order.OrderID)); err != nil {
			return err
		}
		return uc.queue.Enqueue(txCtx, RecordTypeOrder, order.OrderID, order)
	})
	if err != nil {
		return nil, errors.InternalError(err)
	}

	return order, nil
}

// GetOrder fetches an order by internal id or orderId
func (uc *OrderUsecase) GetOrder(ctx context.Context, id string) (*entities.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		if err == errors.ErrNotFound {
			return nil, errors.NotFound("order not found")
		}
		return nil, errors.InternalError(err)
	}
	return order, nil
}

// ListOrders lists orders matching the filter
func (uc *OrderUsecase) ListOrders(ctx context.Context, filter domainRepos.OrderFilter, limit, offset int) ([]*entities.Order, int, error) {
	return uc.orderRepo.List(ctx, filter, limit, offset)
}

// UpdateOrder merges non-status fields into an order
func (uc *OrderUsecase) UpdateOrder(ctx context.Context, id string, input *entities.UpdateOrderInput) (*entities.Order, error) {
	order, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != nil {
		order.CustomerName = *input.CustomerName
	}
	if input.CustomerEmail != nil {
		order.CustomerEmail = *input.CustomerEmail
	}
	if input.CustomerPhone != nil {
		order.CustomerPhone = *input.CustomerPhone
	}
	if input.Amount != nil {
		order.Amount = *input.Amount
	}
	if input.PaymentMethod != nil {
		order.PaymentMethod = null.StringFrom(*input.PaymentMethod)
	}
	if input.PaymentReference != nil {
		order.PaymentReference = null.StringFrom(*input.PaymentReference)
	}

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Update(txCtx, order); err != nil {
			return err
		}
		return uc.queue.Enqueue(txCtx, RecordTypeOrder, order.OrderID, order)
	})
	if err != nil {
		return nil, errors.InternalError(err)
	}
	return order, nil
}

// UpdateStatus sets an order status. There is no transition table for orders;
// any known value may be set. The order is re-read under a row lock inside
// the transaction so concurrent writers append history in sequence. Value-
// triggered side effects fire after the write commits, and a notification is
// queued.
func (uc *OrderUsecase) UpdateStatus(ctx context.Context, id string, target entities.OrderStatus, changedBy, reason, notes string) (*entities.Order, error) {
	if !target.IsValid() {
		return nil, errors.BadRequest("unknown order status: " + string(target))
	}

	var order *entities.Order
	var from entities.OrderStatus
	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.GetByID(uc.uow.WithLock(txCtx), id)
		if err != nil {
			if err == errors.ErrNotFound {
				return errors.NotFound("order not found")
			}
			return err
		}

		from = o.Status
		now := time.Now()
		o.Status = target
		o.StatusHistory = append(o.StatusHistory, entities.StatusHistoryEntry{
			FromStatus:  string(from),
			ToStatus:    string(target),
			ChangedDate: now,
			ChangedBy:   changedBy,
			Reason:      reason,
			Notes:       notes,
		})

		if target == entities.OrderStatusPaid && o.PaymentReceivedAt == nil {
			o.PaymentReceivedAt = &now
		}
		if target == entities.OrderStatusRefunded && from != entities.OrderStatusRefunded {
			uc.finalizeRefund(o, changedBy, now)
		}

		if err := uc.orderRepo.Update(txCtx, o); err != nil {
			return err
		}
		if err := uc.queue.Enqueue(txCtx, RecordTypeOrder, o.OrderID, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, errors.FromErr(err)
	}

	uc.applyCompanySideEffects(ctx, order, target)

	go uc.dispatcher.Dispatch(context.Background(), entities.NotificationOrderStatusChanged,
		order.CustomerEmail, RecordTypeOrder, order.OrderID, mail.TemplateContext{
			RecipientName: order.CustomerName,
			CompanyName:   order.CompanyName,
			RecordID:      order.OrderID,
			FromStatus:    string(from),
			ToStatus:      string(target),
			Reason:        reason,
		})

	return order, nil
}

// applyCompanySideEffects moves the linked company between availability pools
// based on the new status value. Each effect is best effort; a failure is
// logged and does not undo the committed status write.
func (uc *OrderUsecase) applyCompanySideEffects(ctx context.Context, order *entities.Order, target entities.OrderStatus) {
	switch target {
	case entities.OrderStatusCompleted:
		if err := uc.companyRepo.UpdateStatus(ctx, order.CompanyID, entities.CompanyStatusOwned, null.StringFrom(order.OrderID)); err != nil {
			logger.Warn(ctx, "Failed to mark company owned",
				zap.String("company_id", order.CompanyID),
				zap.String("order_id", order.OrderID),
				zap.Error(err))
		}
	case entities.OrderStatusCancelled, entities.OrderStatusRefunded:
		if err := uc.companyRepo.UpdateStatus(ctx, order.CompanyID, entities.CompanyStatusAvailable, null.String{}); err != nil {
			logger.Warn(ctx, "Failed to return company to available pool",
				zap.String("company_id", order.CompanyID),
				zap.String("order_id", order.OrderID),
				zap.Error(err))
		}
	}
}

func (uc *OrderUsecase) finalizeRefund(order *entities.Order, resolvedBy string, now time.Time) {
	if order.Refund == nil {
		order.Refund = &entities.Refund{
			Status:      entities.RefundStatusCompleted,
			Amount:      order.Amount,
			RequestedAt: now,
		}
	} else {
		order.Refund.Status = entities.RefundStatusCompleted
	}
	order.Refund.ResolvedAt = &now
	if order.Refund.ResolvedBy == "" {
		order.Refund.ResolvedBy = resolvedBy
	}
}

// RequestRefund opens a refund sub-record on an order
func (uc *OrderUsecase) RequestRefund(ctx context.Context, id, reason string) (*entities.Order, error) {
	order, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Refund != nil && order.Refund.Status != entities.RefundStatusRejected {
		return nil, errors.Conflict("a refund request is already open for this order", errors.ErrRefundPending)
	}

	order.Refund = &entities.Refund{
		Status:      entities.RefundStatusRequested,
		Reason:      reason,
		Amount:      order.Amount,
		RequestedAt: time.Now(),
	}

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Update(txCtx, order); err != nil {
			return err
		}
		return uc.queue.Enqueue(txCtx, RecordTypeOrder, order.OrderID, order)
	})
	if err != nil {
		return nil, errors.InternalError(err)
	}
	return order, nil
}

// ResolveRefund approves or rejects an open refund request. Approval moves
// the order to refunded, which finalizes the sub-record and returns the
// company to the pool.
func (uc *OrderUsecase) ResolveRefund(ctx context.Context, id string, approve bool, resolvedBy, adminNotes string) (*entities.Order, error) {
	order, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Refund == nil {
		return nil, errors.NotFound("no refund request on this order")
	}
	if order.Refund.Status != entities.RefundStatusRequested && order.Refund.Status != entities.RefundStatusReviewing {
		return nil, errors.Conflict("refund request is already resolved", errors.ErrRefundPending)
	}

	now := time.Now()
	order.Refund.ResolvedBy = resolvedBy
	order.Refund.AdminNotes = adminNotes

	if approve {
		order.Refund.Status = entities.RefundStatusApproved
		err = uc.uow.Do(ctx, func(txCtx context.Context) error {
			if err := uc.orderRepo.Update(txCtx, order); err != nil {
				return err
			}
			return uc.queue.Enqueue(txCtx, RecordTypeOrder, order.OrderID, order)
		})
		if err != nil {
			return nil, errors.InternalError(err)
		}
		return uc.UpdateStatus(ctx, order.OrderID, entities.OrderStatusRefunded, resolvedBy, "refund approved", adminNotes)
	}

	order.Refund.Status = entities.RefundStatusRejected
	order.Refund.ResolvedAt = &now
	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Update(txCtx, order); err != nil {
			return err
		}
		return uc.queue.Enqueue(txCtx, RecordTypeOrder, order.OrderID, order)
	})
	if err != nil {
		return nil, errors.InternalError(err)
	}

	go uc.dispatcher.Dispatch(context.Background(), entities.NotificationRefundResolved,
		order.CustomerEmail, RecordTypeOrder, order.OrderID, mail.TemplateContext{
			RecipientName: order.CustomerName,
			CompanyName:   order.CompanyName,
			RecordID:      order.OrderID,
			ToStatus:      string(entities.RefundStatusRejected),
			Notes:         adminNotes,
		})

	return order, nil
}
