package usecases_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"shelf-market.backend/internal/domain/entities"
	domainerrors "shelf-market.backend/internal/domain/errors"
	domainRepos "shelf-market.backend/internal/domain/repositories"
	"shelf-market.backend/internal/usecases"
)

type formStack struct {
	forms  *fakeFormRepo
	orders *orderStack
	outbox *fakeOutboxRepo
	uc     *usecases.TransferFormUsecase
}

// newFormStack builds a form usecase sharing an outbox and order stack, so
// tests can watch the form-to-order status sync end to end.
func newFormStack(t *testing.T) *formStack {
	t.Helper()
	orders := newOrderStack(t)
	s := &formStack{
		forms:  newFakeFormRepo(),
		orders: orders,
		outbox: orders.outbox,
	}
	queue := usecases.NewMirrorQueue(s.outbox, true, 3)
	dispatcher := usecases.NewNotificationDispatcher(orders.notifs, &fakeSender{})
	s.uc = usecases.NewTransferFormUsecase(s.forms, orders.uc, &fakeUnitOfWork{}, queue, dispatcher)
	return s
}

func baseFormInput(orderID string) *entities.CreateTransferFormInput {
	return &entities.CreateTransferFormInput{
		OrderID:           orderID,
		CompanyID:         "CO-1",
		CompanyName:       "Acme Holdings Ltd",
		TotalShares:       1000,
		TotalShareCapital: 100000,
		Seller:            entities.ContactBlock{Name: "Shelf Market Ltd", Email: "sales@shelf.test"},
		Buyer:             entities.ContactBlock{Name: "Jane Buyer", Email: "jane@buyer.test"},
		Shareholders: []entities.Shareholder{
			{ID: "sh-1", Name: "Jane Buyer", Percentage: 100},
		},
	}
}

func (s *formStack) createForm(t *testing.T, orderID string) *entities.TransferForm {
	t.Helper()
	out, err := s.uc.CreateForm(context.Background(), baseFormInput(orderID))
	require.NoError(t, err)
	return out.Form
}

func TestTransferFormUsecase_CreateForm(t *testing.T) {
	s := newFormStack(t)
	s.orders.seedCompany(t, "CO-1", entities.CompanyStatusAvailable)
	order := s.orders.createOrder(t, "CO-1")

	out, err := s.uc.CreateForm(context.Background(), baseFormInput(order.OrderID))
	require.NoError(t, err)
	form := out.Form

	require.NotEmpty(t, form.FormID)
	require.Equal(t, entities.FormStatusUnderReview, form.Status)
	require.InDelta(t, 100.0, form.PricePerShare, 0.001)
	require.Len(t, form.StatusHistory, 1)
	require.Equal(t, string(entities.FormStatusUnderReview), form.StatusHistory[0].ToStatus)
	require.Equal(t, "form submitted", form.StatusHistory[0].Reason)
	require.Empty(t, out.Warnings)

	// the linked order is nudged to under-review
	synced, err := s.orders.uc.GetOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	require.Equal(t, entities.OrderStatusUnderReview, synced.Status)

	// form write and order sync each landed an outbox entry
	entries, err := s.outbox.GetDuePending(context.Background(), time.Now().Add(time.Minute), 0)
	require.NoError(t, err)
	var formEntries int
	for _, e := range entries {
		if e.RecordType == "transfer-form" {
			formEntries++
			require.Equal(t, form.FormID, e.RecordID)
		}
	}
	require.Equal(t, 1, formEntries)
}

func TestTransferFormUsecase_CreateFormRejectsBadNumbers(t *testing.T) {
	s := newFormStack(t)

	input := baseFormInput("")
	input.TotalShares = 0
	_, err := s.uc.CreateForm(context.Background(), input)
	requireAppErrorCode(t, err, http.StatusBadRequest)

	input = baseFormInput("")
	input.TotalShareCapital = -5
	_, err = s.uc.CreateForm(context.Background(), input)
	requireAppErrorCode(t, err, http.StatusBadRequest)
}

func TestTransferFormUsecase_CreateFormReturnsWarnings(t *testing.T) {
	s := newFormStack(t)

	input := baseFormInput("")
	input.Shareholders = []entities.Shareholder{
		{ID: "sh-1", Name: "Jane Buyer", Percentage: 60},
		{ID: "sh-2", Name: "John Buyer", Percentage: 20},
	}
	out, err := s.uc.CreateForm(context.Background(), input)
	require.NoError(t, err)
	require.NotEmpty(t, out.Warnings)
	require.Equal(t, "shareholders", out.Warnings[0].Field)
}

func TestTransferFormUsecase_GetFormByEitherID(t *testing.T) {
	s := newFormStack(t)
	form := s.createForm(t, "")

	byRef, err := s.uc.GetForm(context.Background(), form.FormID)
	require.NoError(t, err)
	require.Equal(t, form.ID, byRef.ID)

	byUUID, err := s.uc.GetForm(context.Background(), form.ID.String())
	require.NoError(t, err)
	require.Equal(t, form.FormID, byUUID.FormID)

	_, err = s.uc.GetForm(context.Background(), "TF-nope")
	requireAppErrorCode(t, err, http.StatusNotFound)
}

func TestTransferFormUsecase_UpdateStatusRejectsInvalidTransition(t *testing.T) {
	s := newFormStack(t)
	form := s.createForm(t, "")

	// under-review cannot jump straight to transferring
	_, err := s.uc.UpdateStatus(context.Background(), form.FormID, entities.FormStatusTransferring, "admin", "", "")
	requireAppErrorCode(t, err, http.StatusConflict)
	require.ErrorIs(t, err, domainerrors.ErrInvalidTransition)

	// and unknown values fail before the table is consulted
	_, err = s.uc.UpdateStatus(context.Background(), form.FormID, "approved", "admin", "", "")
	requireAppErrorCode(t, err, http.StatusBadRequest)

	// nothing was persisted
	stored, err := s.uc.GetForm(context.Background(), form.FormID)
	require.NoError(t, err)
	require.Equal(t, entities.FormStatusUnderReview, stored.Status)
	require.Len(t, stored.StatusHistory, 1)
}

func TestTransferFormUsecase_AmendRequiredCountsAndComments(t *testing.T) {
	s := newFormStack(t)
	form := s.createForm(t, "")
	ctx := context.Background()

	updated, err := s.uc.UpdateStatus(ctx, form.FormID, entities.FormStatusAmendRequired, "admin@shelf.test", "details missing", "fix the shareholder addresses")
	require.NoError(t, err)
	require.Equal(t, entities.FormStatusAmendRequired, updated.Status)
	require.Equal(t, 1, updated.AmendmentsRequiredCount)
	require.Len(t, updated.StatusHistory, 2)
	require.Equal(t, "details missing", updated.StatusHistory[1].Reason)

	// the reviewer notes become an admin-only comment
	require.Len(t, updated.Comments, 1)
	require.Equal(t, "fix the shareholder addresses", updated.Comments[0].Text)
	require.True(t, updated.Comments[0].IsAdminOnly)

	// round trip back and out again increments the counter once more
	_, err = s.uc.UpdateStatus(ctx, form.FormID, entities.FormStatusUnderReview, "customer", "resubmitted", "")
	require.NoError(t, err)
	updated, err = s.uc.UpdateStatus(ctx, form.FormID, entities.FormStatusAmendRequired, "admin@shelf.test", "still missing", "")
	require.NoError(t, err)
	require.Equal(t, 2, updated.AmendmentsRequiredCount)
	require.Len(t, updated.Comments, 1)
}

func TestTransferFormUsecase_CompleteTransferSyncsOrder(t *testing.T) {
	s := newFormStack(t)
	s.orders.seedCompany(t, "CO-1", entities.CompanyStatusAvailable)
	order := s.orders.createOrder(t, "CO-1")
	form := s.createForm(t, order.OrderID)
	ctx := context.Background()

	for _, target := range []entities.FormStatus{
		entities.FormStatusConfirmApplication,
		entities.FormStatusTransferring,
		entities.FormStatusCompleteTransfer,
	} {
		_, err := s.uc.UpdateStatus(ctx, form.FormID, target, "admin", "", "")
		require.NoError(t, err)
	}

	synced, err := s.orders.uc.GetOrder(ctx, order.OrderID)
	require.NoError(t, err)
	require.Equal(t, entities.OrderStatusCompleted, synced.Status)

	// completing the transfer hands the company over
	company, err := s.orders.companies.GetByCompanyID(ctx, "CO-1")
	require.NoError(t, err)
	require.Equal(t, entities.CompanyStatusOwned, company.Status)
}

func TestTransferFormUsecase_CancelDoesNotTouchOrder(t *testing.T) {
	s := newFormStack(t)
	s.orders.seedCompany(t, "CO-1", entities.CompanyStatusAvailable)
	order := s.orders.createOrder(t, "CO-1")
	form := s.createForm(t, order.OrderID)
	ctx := context.Background()

	orderBefore, err := s.orders.uc.GetOrder(ctx, order.OrderID)
	require.NoError(t, err)

	canceled, err := s.uc.UpdateStatus(ctx, form.FormID, entities.FormStatusCanceled, "customer", "changed plans", "")
	require.NoError(t, err)
	require.Equal(t, entities.FormStatusCanceled, canceled.Status)

	orderAfter, err := s.orders.uc.GetOrder(ctx, order.OrderID)
	require.NoError(t, err)
	require.Equal(t, orderBefore.Status, orderAfter.Status)

	// a canceled form can be reopened for review
	reopened, err := s.uc.UpdateStatus(ctx, form.FormID, entities.FormStatusUnderReview, "admin", "reopened on request", "")
	require.NoError(t, err)
	require.Equal(t, entities.FormStatusUnderReview, reopened.Status)
}

func TestTransferFormUsecase_UpdateFormMergesFields(t *testing.T) {
	s := newFormStack(t)
	form := s.createForm(t, "")
	ctx := context.Background()

	newName := "Brand New Trading Ltd"
	buyer := entities.ContactBlock{Name: "Jane Buyer", Email: "jane@buyer.test", Phone: "+44 20 7946 0000"}
	out, err := s.uc.UpdateForm(ctx, form.FormID, &entities.UpdateTransferFormInput{
		Buyer:          &buyer,
		NewCompanyName: &newName,
		ActivityCodes:  []string{"62012", "62020"},
	})
	require.NoError(t, err)
	require.Equal(t, buyer.Phone, out.Form.Buyer.Phone)
	require.Equal(t, newName, out.Form.NewCompanyName.String)
	require.Len(t, out.Form.ActivityCodes, 2)
	// untouched fields survive the merge
	require.Equal(t, "Shelf Market Ltd", out.Form.Seller.Name)

	// an explicit empty string clears the rename request
	empty := ""
	out, err = s.uc.UpdateForm(ctx, form.FormID, &entities.UpdateTransferFormInput{NewCompanyName: &empty})
	require.NoError(t, err)
	require.False(t, out.Form.NewCompanyName.Valid)
}

func TestTransferFormUsecase_Comments(t *testing.T) {
	s := newFormStack(t)
	form := s.createForm(t, "")
	ctx := context.Background()

	_, err := s.uc.AddComment(ctx, form.FormID, "jane@buyer.test", "", false)
	requireAppErrorCode(t, err, http.StatusBadRequest)

	updated, err := s.uc.AddComment(ctx, form.FormID, "jane@buyer.test", "when will this be reviewed?", false)
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	require.Equal(t, "jane@buyer.test", updated.Comments[0].Author)
	require.False(t, updated.Comments[0].IsAdminOnly)
}

func TestTransferFormUsecase_Attachments(t *testing.T) {
	s := newFormStack(t)
	form := s.createForm(t, "")
	ctx := context.Background()

	_, err := s.uc.AddAttachment(ctx, form.FormID, entities.FormAttachment{URL: "https://files.test/id.pdf"})
	requireAppErrorCode(t, err, http.StatusBadRequest)

	updated, err := s.uc.AddAttachment(ctx, form.FormID, entities.FormAttachment{
		Name: "passport.pdf",
		Type: "application/pdf",
		Size: 1024,
		URL:  "https://files.test/passport.pdf",
	})
	require.NoError(t, err)
	require.Len(t, updated.Attachments, 1)
	attID := updated.Attachments[0].ID
	require.NotEmpty(t, attID)
	require.False(t, updated.Attachments[0].UploadedDate.IsZero())

	_, err = s.uc.DeleteAttachment(ctx, form.FormID, "no-such-id")
	requireAppErrorCode(t, err, http.StatusNotFound)

	updated, err = s.uc.DeleteAttachment(ctx, form.FormID, attID)
	require.NoError(t, err)
	require.Empty(t, updated.Attachments)
}

func TestTransferFormUsecase_ListFilters(t *testing.T) {
	s := newFormStack(t)
	ctx := context.Background()
	first := s.createForm(t, "ORD-1")
	s.createForm(t, "ORD-2")

	_, err := s.uc.UpdateStatus(ctx, first.FormID, entities.FormStatusAmendRequired, "admin", "", "")
	require.NoError(t, err)

	forms, total, err := s.uc.ListForms(ctx, domainRepos.FormFilter{Status: entities.FormStatusAmendRequired}, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, first.FormID, forms[0].FormID)

	forms, total, err = s.uc.ListForms(ctx, domainRepos.FormFilter{OrderID: "ORD-2"}, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "ORD-2", forms[0].OrderID)
}

func TestTransferFormUsecase_ConcurrentStatusUpdatesSerialize(t *testing.T) {
	s := newFormStack(t)
	ctx := context.Background()
	form := s.createForm(t, "")

	// Two admins race valid transitions out of under-review. Whichever
	// commits second re-validates against the updated row and gets a 409;
	// the winner's history entry must survive.
	targets := []entities.FormStatus{
		entities.FormStatusAmendRequired,
		entities.FormStatusConfirmApplication,
	}
	errs := make(chan error, len(targets))
	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		go func(target entities.FormStatus) {
			defer wg.Done()
			_, err := s.uc.UpdateStatus(ctx, form.FormID, target, "admin", "", "")
			errs <- err
		}(target)
	}
	wg.Wait()
	close(errs)

	conflicts := 0
	for err := range errs {
		if err != nil {
			requireAppErrorCode(t, err, http.StatusConflict)
			conflicts++
		}
	}
	require.Equal(t, 1, conflicts)

	got, err := s.uc.GetForm(ctx, form.FormID)
	require.NoError(t, err)
	require.Len(t, got.StatusHistory, 2)
	require.Equal(t, string(entities.FormStatusUnderReview), got.StatusHistory[1].FromStatus)
	require.Equal(t, string(got.Status), got.StatusHistory[1].ToStatus)
}
