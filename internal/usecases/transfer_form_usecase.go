package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"shelf-market.backend/internal/domain/entities"
	"shelf-market.backend/internal/domain/errors"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/internal/infrastructure/mail"
	"shelf-market.backend/pkg/logger"
	"shelf-market.backend/pkg/utils"
)

// formToOrderStatus maps a form status to the order status the linked order
// is nudged towards. The two status fields are independent; this sync is ad
// hoc and best effort.
var formToOrderStatus = map[entities.FormStatus]entities.OrderStatus{
	entities.FormStatusUnderReview:        entities.OrderStatusUnderReview,
	entities.FormStatusAmendRequired:      entities.OrderStatusAmendRequired,
	entities.FormStatusConfirmApplication: entities.OrderStatusPendingTransfer,
	entities.FormStatusTransferring:       entities.OrderStatusPendingTransfer,
	entities.FormStatusCompleteTransfer:   entities.OrderStatusCompleted,
}

// TransferFormUsecase implements the ownership-transfer form lifecycle
type TransferFormUsecase struct {
	formRepo   domainRepos.TransferFormRepository
	orderUC    *OrderUsecase
	uow        domainRepos.UnitOfWork
	queue      *MirrorQueue
	dispatcher *NotificationDispatcher
}

// NewTransferFormUsecase creates a new transfer form usecase
func NewTransferFormUsecase(
	formRepo domainRepos.TransferFormRepository,
	orderUC *OrderUsecase,
	uow domainRepos.UnitOfWork,
	queue *MirrorQueue,
	dispatcher *NotificationDispatcher,
) *TransferFormUsecase {
	return &TransferFormUsecase{
		formRepo:   formRepo,
		orderUC:    orderUC,
		uow:        uow,
		queue:      queue,
		dispatcher: dispatcher,
	}
}

// CreateFormOutput bundles the created form with its soft-validation warnings
type CreateFormOutput struct {
	Form     *entities.TransferForm       `json:"form"`
	Warnings []entities.ValidationWarning `json:"warnings,omitempty"`
}

// CreateForm creates a transfer form in under-review with one history entry
func (uc *TransferFormUsecase) CreateForm(ctx context.Context, input *entities.CreateTransferFormInput) (*CreateFormOutput, error) {
	if input.TotalShares <= 0 {
		return nil, errors.BadRequest("totalShares must be positive")
	}
	if input.TotalShareCapital <= 0 {
		return nil, errors.BadRequest("totalShareCapital must be positive")
	}

	submittedBy := input.SubmittedBy
	if submittedBy == "" {
		submittedBy = ActorCustomer
	}

	now := time.Now()
	form := &entities.TransferForm{
		ID:                utils.GenerateUUIDv7(),
		FormID:            utils.GenerateReference(FormReferencePrefix),
		OrderID:           input.OrderID,
		CompanyID:         input.CompanyID,
		CompanyName:       input.CompanyName,
		Seller:            input.Seller,
		Buyer:             input.Buyer,
		Shareholders:      input.Shareholders,
		Controllers:       input.Controllers,
		ActivityCodes:     input.ActivityCodes,
		TotalShares:       input.TotalShares,
		TotalShareCapital: input.TotalShareCapital,
		PricePerShare:     input.TotalShareCapital / float64(input.TotalShares),
		Status:            entities.FormStatusUnderReview,
		StatusHistory: []entities.StatusHistoryEntry{{
			FromStatus:  "",
			ToStatus:    string(entities.FormStatusUnderReview),
			ChangedDate: now,
			ChangedBy:   submittedBy,
			Reason:      "form submitted",
		}},
		Comments:    []entities.FormComment{},
		Attachments: []entities.FormAttachment{},
	}
	if input.NewCompanyName != "" {
		form.NewCompanyName = null.StringFrom(input.NewCompanyName)
	}

	warnings := uc.logWarnings(ctx, form)

	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.formRepo.Create(txCtx, form); err != nil {
			return err
		}
		return uc.queue.Enqueue(txCtx, RecordTypeTransferForm, form.FormID, form)
	})
	if err != nil {
		return nil, errors.InternalError(err)
	}

	uc.syncOrderStatus(ctx, form, "transfer form submitted")

	go uc.dispatcher.Dispatch(context.Background(), entities.NotificationFormSubmitted,
		form.Buyer.Email, RecordTypeTransferForm, form.FormID, mail.TemplateContext{
			RecipientName: form.Buyer.Name,
			CompanyName:   form.CompanyName,
			RecordID:      form.FormID,
		})

	return &CreateFormOutput{Form: form, Warnings: warnings}, nil
}

// GetForm fetches a form by internal id or formId
func (uc *TransferFormUsecase) GetForm(ctx context.Context, id string) (*entities.TransferForm, error) {
	form, err := uc.formRepo.GetByID(ctx, id)
	if err != nil {
		if err == errors.ErrNotFound {
			return nil, errors.NotFound("transfer form not found")
		}
		return nil, errors.InternalError(err)
	}
	return form, nil
}

// ListForms lists forms matching the filter
func (uc *TransferFormUsecase) ListForms(ctx context.Context, filter domainRepos.FormFilter, limit, offset int) ([]*entities.TransferForm, int, error) {
	return uc.formRepo.List(ctx, filter, limit, offset)
}

// UpdateForm merges submitted fields into the form. Status is not touched
// here; use UpdateStatus.
func (uc *TransferFormUsecase) UpdateForm(ctx context.Context, id string, input *entities.UpdateTransferFormInput) (*CreateFormOutput, error) {
	form, err := uc.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Seller != nil {
		form.Seller = *input.Seller
	}
	if input.Buyer != nil {
		form.Buyer = *input.Buyer
	}
	if input.Shareholders != nil {
		form.Shareholders = input.Shareholders
	}
	if input.Controllers != nil {
		form.Controllers = input.Controllers
	}
	if input.NewCompanyName != nil {
		if *input.NewCompanyName == "" {
			form.NewCompanyName = null.String{}
		} else {
			form.NewCompanyName = null.StringFrom(*input.NewCompanyName)
		}
	}
	if input.ActivityCodes != nil {
		form.ActivityCodes = input.ActivityCodes
	}

	warnings := uc.logWarnings(ctx, form)

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.formRepo.Update(txCtx, form); err != nil {
			return err
		}
		return uc.queue.Enqueue(txCtx, RecordTypeTransferForm, form.FormID, form)
	})
	if err != nil {
		return nil, errors.InternalError(err)
	}

	return &CreateFormOutput{Form: form, Warnings: warnings}, nil
}

// UpdateStatus moves a form through the review workflow. The transition
// table is load-bearing: a disallowed target is rejected with a 409 before
// anything is persisted. The form is re-read under a row lock inside the
// transaction so concurrent transitions serialize and neither overwrites the
// other's history entry.
func (uc *TransferFormUsecase) UpdateStatus(ctx context.Context, id string, target entities.FormStatus, changedBy, reason, notes string) (*entities.TransferForm, error) {
	if !target.IsValid() {
		return nil, errors.BadRequest("unknown form status: " + string(target))
	}

	var form *entities.TransferForm
	var from entities.FormStatus
	err := uc.uow.Do(ctx, func(txCtx context.Context) error {
		f, err := uc.formRepo.GetByID(uc.uow.WithLock(txCtx), id)
		if err != nil {
			if err == errors.ErrNotFound {
				return errors.NotFound("transfer form not found")
			}
			return err
		}

		from = f.Status
		if !entities.CanTransition(from, target) {
			return errors.InvalidTransition(
				"cannot move form from " + string(from) + " to " + string(target))
		}

		now := time.Now()
		f.Status = target
		f.StatusHistory = append(f.StatusHistory, entities.StatusHistoryEntry{
			FromStatus:  string(from),
			ToStatus:    string(target),
			ChangedDate: now,
			ChangedBy:   changedBy,
			Reason:      reason,
			Notes:       notes,
		})

		if target == entities.FormStatusAmendRequired {
			f.AmendmentsRequiredCount++
		}
		if notes != "" {
			f.Comments = append(f.Comments, entities.FormComment{
				Author:      changedBy,
				Text:        notes,
				CreatedAt:   now,
				IsAdminOnly: true,
			})
		}

		if err := uc.formRepo.Update(txCtx, f); err != nil {
			return err
		}
		if err := uc.queue.Enqueue(txCtx, RecordTypeTransferForm, f.FormID, f); err != nil {
			return err
		}
		form = f
		return nil
	})
	if err != nil {
		return nil, errors.FromErr(err)
	}

	uc.syncOrderStatus(ctx, form, "transfer form moved to "+string(target))

	event := entities.NotificationFormStatusChanged
	switch target {
	case entities.FormStatusAmendRequired:
		event = entities.NotificationAmendmentRequired
	case entities.FormStatusCompleteTransfer:
		event = entities.NotificationTransferComplete
	}
	go uc.dispatcher.Dispatch(context.Background(), event,
		form.Buyer.Email, RecordTypeTransferForm, form.FormID, mail.TemplateContext{
			RecipientName: form.Buyer.Name,
			CompanyName:   form.CompanyName,
			RecordID:      form.FormID,
			FromStatus:    string(from),
			ToStatus:      string(target),
			Reason:        reason,
			Notes:         notes,
		})

	return form, nil
}

// AddComment appends a comment to a form
func (uc *TransferFormUsecase) AddComment(ctx context.Context, id, author, text string, isAdminOnly bool) (*entities.TransferForm, error) {
	if text == "" {
		return nil, errors.BadRequest("comment text is required")
	}

	form, err := uc.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}

	form.Comments = append(form.Comments, entities.FormComment{
		Author:      author,
		Text:        text,
		CreatedAt:   time.Now(),
		IsAdminOnly: isAdminOnly,
	})

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.formRepo.Update(txCtx, form); err != nil {
			return err
		}
		return uc.queue.Enqueue(txCtx, RecordTypeTransferForm, form.FormID, form)
	})
	if err != nil {
		return nil, errors.InternalError(err)
	}
	return form, nil
}

// AddAttachment registers attachment metadata on a form
func (uc *TransferFormUsecase) AddAttachment(ctx context.Context, id string, att entities.FormAttachment) (*entities.TransferForm, error) {
	if att.Name == "" {
		return nil, errors.BadRequest("attachment name is required")
	}

	form, err := uc.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}

	if att.ID == "" {
		att.ID = uuid.New().String()
	}
	att.UploadedDate = time.Now()
	form.Attachments = append(form.Attachments, att)

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.formRepo.Update(txCtx, form); err != nil {
			return err
		}
		return uc.queue.Enqueue(txCtx, RecordTypeTransferForm, form.FormID, form)
	})
	if err != nil {
		return nil, errors.InternalError(err)
	}
	return form, nil
}

// DeleteAttachment removes attachment metadata from a form
func (uc *TransferFormUsecase) DeleteAttachment(ctx context.Context, id, attachmentID string) (*entities.TransferForm, error) {
	form, err := uc.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	kept := form.Attachments[:0]
	for _, att := range form.Attachments {
		if att.ID == attachmentID {
			found = true
			continue
		}
		kept = append(kept, att)
	}
	if !found {
		return nil, errors.NotFound("attachment not found")
	}
	form.Attachments = kept

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.formRepo.Update(txCtx, form); err != nil {
			return err
		}
		return uc.queue.Enqueue(txCtx, RecordTypeTransferForm, form.FormID, form)
	})
	if err != nil {
		return nil, errors.InternalError(err)
	}
	return form, nil
}

// syncOrderStatus nudges the linked order towards the status matching the
// form's. Best effort: a missing or unmoved order is logged, never surfaced.
func (uc *TransferFormUsecase) syncOrderStatus(ctx context.Context, form *entities.TransferForm, reason string) {
	target, ok := formToOrderStatus[form.Status]
	if !ok || form.OrderID == "" {
		return
	}

	order, err := uc.orderUC.GetOrder(ctx, form.OrderID)
	if err != nil {
		logger.Warn(ctx, "Linked order not found for status sync",
			zap.String("form_id", form.FormID),
			zap.String("order_id", form.OrderID))
		return
	}
	if order.Status == target {
		return
	}

	if _, err := uc.orderUC.UpdateStatus(ctx, form.OrderID, target, ActorSystem, reason, ""); err != nil {
		logger.Warn(ctx, "Failed to sync order status from form",
			zap.String("form_id", form.FormID),
			zap.String("order_id", form.OrderID),
			zap.String("target", string(target)),
			zap.Error(err))
	}
}

func (uc *TransferFormUsecase) logWarnings(ctx context.Context, form *entities.TransferForm) []entities.ValidationWarning {
	warnings := form.Validate()
	for _, w := range warnings {
		logger.Warn(ctx, "Transfer form validation warning",
			zap.String("form_id", form.FormID),
			zap.String("field", w.Field),
			zap.String("message", w.Message))
	}
	return warnings
}
