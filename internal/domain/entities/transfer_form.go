package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// FormStatus represents a transfer form review status
type FormStatus string

const (
	FormStatusUnderReview        FormStatus = "under-review"
	FormStatusAmendRequired      FormStatus = "amend-required"
	FormStatusConfirmApplication FormStatus = "confirm-application"
	FormStatusTransferring       FormStatus = "transferring"
	FormStatusCompleteTransfer   FormStatus = "complete-transfer"
	FormStatusCanceled           FormStatus = "canceled"
)

// formTransitions is the fixed adjacency table for the review workflow.
// complete-transfer is terminal; canceled can be reopened back to review.
var formTransitions = map[FormStatus][]FormStatus{
	FormStatusUnderReview:        {FormStatusAmendRequired, FormStatusConfirmApplication, FormStatusCanceled},
	FormStatusAmendRequired:      {FormStatusUnderReview, FormStatusCanceled},
	FormStatusConfirmApplication: {FormStatusTransferring, FormStatusCanceled},
	FormStatusTransferring:       {FormStatusCompleteTransfer, FormStatusCanceled},
	FormStatusCompleteTransfer:   {},
	FormStatusCanceled:           {FormStatusUnderReview},
}

// IsValid reports whether s is one of the six known statuses
func (s FormStatus) IsValid() bool {
	_, ok := formTransitions[s]
	return ok
}

// IsTerminal reports whether s has no outgoing transitions
func (s FormStatus) IsTerminal() bool {
	targets, ok := formTransitions[s]
	return ok && len(targets) == 0
}

// CanTransition reports whether the workflow allows moving from current to target
func CanTransition(current, target FormStatus) bool {
	for _, t := range formTransitions[current] {
		if t == target {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from current
func NextStatuses(current FormStatus) []FormStatus {
	targets := formTransitions[current]
	out := make([]FormStatus, len(targets))
	copy(out, targets)
	return out
}

// ContactBlock holds the seller or buyer contact details. All fields optional.
type ContactBlock struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Shareholder is one row of the cap-table snapshot
type Shareholder struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Nationality string  `json:"nationality,omitempty"`
	Address     string  `json:"address,omitempty"`
	Percentage  float64 `json:"percentage"`
}

// PersonWithControl references a shareholder exercising significant control
type PersonWithControl struct {
	ShareholderID string   `json:"shareholderId"`
	ControlLevels []string `json:"controlLevels"`
}

// StatusHistoryEntry is an immutable audit record of a single status change
type StatusHistoryEntry struct {
	FromStatus  string    `json:"fromStatus"`
	ToStatus    string    `json:"toStatus"`
	ChangedDate time.Time `json:"changedDate"`
	ChangedBy   string    `json:"changedBy"`
	Reason      string    `json:"reason,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// FormComment is an append-only comment on a transfer form
type FormComment struct {
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
	IsAdminOnly bool      `json:"isAdminOnly"`
}

// FormAttachment holds attachment metadata. Content lives at URL; the upload
// mechanics themselves are outside this service.
type FormAttachment struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	UploadedDate time.Time `json:"uploadedDate"`
}

// TransferForm represents an ownership-transfer application for a purchased company
type TransferForm struct {
	ID     uuid.UUID `json:"id"`
	FormID string    `json:"formId"`

	OrderID     string `json:"orderId"`
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`

	Seller ContactBlock `json:"seller"`
	Buyer  ContactBlock `json:"buyer"`

	Shareholders []Shareholder       `json:"shareholders"`
	Controllers  []PersonWithControl `json:"personsWithSignificantControl"`

	// Requested company changes. ActivityCodes is intended to hold at most
	// four codes when a name/activity change is requested (soft invariant).
	NewCompanyName null.String `json:"newCompanyName,omitempty"`
	ActivityCodes  []string    `json:"activityCodes,omitempty"`

	TotalShares       int64   `json:"totalShares"`
	TotalShareCapital float64 `json:"totalShareCapital"`
	PricePerShare     float64 `json:"pricePerShare"`

	Status                  FormStatus `json:"status"`
	AmendmentsRequiredCount int        `json:"amendmentsRequiredCount"`

	StatusHistory []StatusHistoryEntry `json:"statusHistory"`
	Comments      []FormComment        `json:"comments"`
	Attachments   []FormAttachment     `json:"attachments"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}

// ValidationWarning describes a soft cap-table invariant violation. These are
// reported and logged, never rejected.
type ValidationWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const maxActivityCodes = 4

// Validate checks the intended cap-table invariants and returns warnings for
// any that do not hold.
func (f *TransferForm) Validate() []ValidationWarning {
	var warnings []ValidationWarning

	if len(f.Shareholders) > 0 {
		var sum float64
		for _, sh := range f.Shareholders {
			sum += sh.Percentage
		}
		if sum < 99.999 || sum > 100.001 {
			warnings = append(warnings, ValidationWarning{
				Field:   "shareholders",
				Message: "shareholder percentages do not sum to 100",
			})
		}
	}

	if len(f.Controllers) > len(f.Shareholders) {
		warnings = append(warnings, ValidationWarning{
			Field:   "personsWithSignificantControl",
			Message: "more persons with significant control than shareholders",
		})
	}

	if f.NewCompanyName.Valid && len(f.ActivityCodes) > maxActivityCodes {
		warnings = append(warnings, ValidationWarning{
			Field:   "activityCodes",
			Message: "at most 4 company activity codes may be selected",
		})
	}

	return warnings
}

// CreateTransferFormInput represents input for creating a transfer form
type CreateTransferFormInput struct {
	OrderID           string              `json:"orderId" binding:"required"`
	CompanyID         string              `json:"companyId" binding:"required"`
	CompanyName       string              `json:"companyName" binding:"required"`
	TotalShares       int64               `json:"totalShares" binding:"required"`
	TotalShareCapital float64             `json:"totalShareCapital" binding:"required"`
	Seller            ContactBlock        `json:"seller"`
	Buyer             ContactBlock        `json:"buyer"`
	Shareholders      []Shareholder       `json:"shareholders"`
	Controllers       []PersonWithControl `json:"personsWithSignificantControl"`
	NewCompanyName    string              `json:"newCompanyName"`
	ActivityCodes     []string            `json:"activityCodes"`
	SubmittedBy       string              `json:"submittedBy"`
}

// UpdateTransferFormInput represents a partial field merge. Nil slices and
// empty blocks leave the stored value untouched. Status is not updatable here.
type UpdateTransferFormInput struct {
	Seller         *ContactBlock       `json:"seller"`
	Buyer          *ContactBlock       `json:"buyer"`
	Shareholders   []Shareholder       `json:"shareholders"`
	Controllers    []PersonWithControl `json:"personsWithSignificantControl"`
	NewCompanyName *string             `json:"newCompanyName"`
	ActivityCodes  []string            `json:"activityCodes"`
}
