package usecases_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"shelf-market.backend/internal/domain/entities"
	domainerrors "shelf-market.backend/internal/domain/errors"
	domainRepos "shelf-market.backend/internal/domain/repositories"
)

// In-memory fakes for the repository interfaces. All are mutex guarded since
// the usecases dispatch notifications from goroutines.

// fakeUnitOfWork runs callbacks one at a time, standing in for the row lock
// a real transaction takes via WithLock.
type fakeUnitOfWork struct {
	mu sync.Mutex
}

func (f *fakeUnitOfWork) Do(ctx context.Context, fn func(context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeUnitOfWork) WithLock(ctx context.Context) context.Context {
	return ctx
}

type fakeFormRepo struct {
	mu    sync.Mutex
	forms map[string]*entities.TransferForm // keyed by formId
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{forms: map[string]*entities.TransferForm{}}
}

func (f *fakeFormRepo) Create(ctx context.Context, form *entities.TransferForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *form
	f.forms[form.FormID] = &cp
	return nil
}

func (f *fakeFormRepo) GetByID(ctx context.Context, id string) (*entities.TransferForm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if form, ok := f.forms[id]; ok {
		cp := *form
		return &cp, nil
	}
	for _, form := range f.forms {
		if form.ID.String() == id {
			cp := *form
			return &cp, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (f *fakeFormRepo) List(ctx context.Context, filter domainRepos.FormFilter, limit, offset int) ([]*entities.TransferForm, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.TransferForm
	for _, form := range f.forms {
		if filter.Status != "" && form.Status != filter.Status {
			continue
		}
		if filter.OrderID != "" && form.OrderID != filter.OrderID {
			continue
		}
		cp := *form
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeFormRepo) Update(ctx context.Context, form *entities.TransferForm) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.forms[form.FormID]; !ok {
		return domainerrors.ErrNotFound
	}
	cp := *form
	f.forms[form.FormID] = &cp
	return nil
}

func (f *fakeFormRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, form := range f.forms {
		if form.ID == id {
			delete(f.forms, key)
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entities.Order // keyed by orderId
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*entities.Order{}}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *entities.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *order
	f.orders[order.OrderID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order, ok := f.orders[id]; ok {
		cp := *order
		return &cp, nil
	}
	for _, order := range f.orders {
		if order.ID.String() == id {
			cp := *order
			return &cp, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (f *fakeOrderRepo) List(ctx context.Context, filter domainRepos.OrderFilter, limit, offset int) ([]*entities.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Order
	for _, order := range f.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		cp := *order
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, order *entities.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[order.OrderID]; !ok {
		return domainerrors.ErrNotFound
	}
	cp := *order
	f.orders[order.OrderID] = &cp
	return nil
}

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*entities.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: map[string]*entities.Company{}}
}

func (f *fakeCompanyRepo) Create(ctx context.Context, company *entities.Company) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *company
	f.companies[company.CompanyID] = &cp
	return nil
}

func (f *fakeCompanyRepo) GetByCompanyID(ctx context.Context, companyID string) (*entities.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if company, ok := f.companies[companyID]; ok {
		cp := *company
		return &cp, nil
	}
	return nil, domainerrors.ErrNotFound
}

func (f *fakeCompanyRepo) List(ctx context.Context, status entities.CompanyStatus, limit, offset int) ([]*entities.Company, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Company
	for _, company := range f.companies {
		if status != "" && company.Status != status {
			continue
		}
		cp := *company
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeCompanyRepo) UpdateStatus(ctx context.Context, companyID string, status entities.CompanyStatus, ownerID null.String) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	company, ok := f.companies[companyID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	company.Status = status
	company.OwnerID = ownerID
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entities.User // keyed by email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entities.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.Email] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[email]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, domainerrors.ErrNotFound
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	records []*entities.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *entities.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	f.records = append(f.records, &cp)
	return nil
}

func (f *fakeNotificationRepo) MarkResult(ctx context.Context, id uuid.UUID, status entities.DeliveryStatus, errMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			r.Status = status
			r.ErrorMessage = errMsg
			if status == entities.DeliveryStatusSent {
				now := time.Now()
				r.SentAt = &now
			}
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (f *fakeNotificationRepo) List(ctx context.Context, status entities.DeliveryStatus, limit, offset int) ([]*entities.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.Notification
	for _, r := range f.records {
		if status != "" && r.Status != status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeNotificationRepo) all() []*entities.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entities.Notification, len(f.records))
	for i, r := range f.records {
		cp := *r
		out[i] = &cp
	}
	return out
}

type fakeOutboxRepo struct {
	mu      sync.Mutex
	entries []*entities.OutboxEntry
}

func (f *fakeOutboxRepo) Enqueue(ctx context.Context, entry *entities.OutboxEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *entry
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeOutboxRepo) GetDuePending(ctx context.Context, now time.Time, limit int) ([]*entities.OutboxEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.OutboxEntry
	for _, e := range f.entries {
		if e.Status == entities.OutboxStatusPending && !e.ScheduledAt.After(now) {
			cp := *e
			out = append(out, &cp)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOutboxRepo) MarkCompleted(ctx context.Context, id uuid.UUID, remoteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID == id {
			now := time.Now()
			e.Status = entities.OutboxStatusCompleted
			e.RemoteID = remoteID
			e.CompletedAt = &now
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (f *fakeOutboxRepo) MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, nextAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID == id {
			e.Attempts++
			e.ErrorMessage = errMsg
			e.ScheduledAt = nextAt
			if e.Attempts >= e.MaxAttempts {
				e.Status = entities.OutboxStatusFailed
			}
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (f *fakeOutboxRepo) LatestRemoteID(ctx context.Context, recordType, recordID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
		if e.RecordType == recordType && e.RecordID == recordID &&
			e.Status == entities.OutboxStatusCompleted && e.RemoteID != "" {
			return e.RemoteID, nil
		}
	}
	return "", nil
}

func (f *fakeOutboxRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *fakeOutboxRepo) last() *entities.OutboxEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) == 0 {
		return nil
	}
	cp := *f.entries[len(f.entries)-1]
	return &cp
}

type fakeSender struct {
	mu   sync.Mutex
	err  error
	sent []string // subjects
}

func (f *fakeSender) Send(to, subject, htmlBody, textBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, subject)
	return nil
}
