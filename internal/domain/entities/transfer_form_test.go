package entities

import "testing"

func TestFormStatus_CanTransition(t *testing.T) {
	allowed := []struct{ from, to FormStatus }{
		{FormStatusUnderReview, FormStatusAmendRequired},
		{FormStatusUnderReview, FormStatusConfirmApplication},
		{FormStatusUnderReview, FormStatusCanceled},
		{FormStatusAmendRequired, FormStatusUnderReview},
		{FormStatusAmendRequired, FormStatusCanceled},
		{FormStatusConfirmApplication, FormStatusTransferring},
		{FormStatusConfirmApplication, FormStatusCanceled},
		{FormStatusTransferring, FormStatusCompleteTransfer},
		{FormStatusTransferring, FormStatusCanceled},
		{FormStatusCanceled, FormStatusUnderReview},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to FormStatus }{
		{FormStatusUnderReview, FormStatusTransferring},
		{FormStatusUnderReview, FormStatusCompleteTransfer},
		{FormStatusAmendRequired, FormStatusConfirmApplication},
		{FormStatusConfirmApplication, FormStatusUnderReview},
		{FormStatusCompleteTransfer, FormStatusUnderReview},
		{FormStatusCompleteTransfer, FormStatusCanceled},
		{FormStatusCanceled, FormStatusCompleteTransfer},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}

	if CanTransition(FormStatus("bogus"), FormStatusUnderReview) {
		t.Error("unknown status should have no transitions")
	}
}

func TestFormStatus_IsValidAndTerminal(t *testing.T) {
	for _, s := range []FormStatus{
		FormStatusUnderReview, FormStatusAmendRequired, FormStatusConfirmApplication,
		FormStatusTransferring, FormStatusCompleteTransfer, FormStatusCanceled,
	} {
		if !s.IsValid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if FormStatus("done").IsValid() {
		t.Error("expected done to be invalid")
	}

	if !FormStatusCompleteTransfer.IsTerminal() {
		t.Error("complete-transfer should be terminal")
	}
	if FormStatusCanceled.IsTerminal() {
		t.Error("canceled should not be terminal, it can reopen")
	}
}

func TestNextStatuses(t *testing.T) {
	next := NextStatuses(FormStatusUnderReview)
	if len(next) != 3 {
		t.Fatalf("expected 3 next statuses, got %d", len(next))
	}

	if len(NextStatuses(FormStatusCompleteTransfer)) != 0 {
		t.Error("terminal status should have no next statuses")
	}
}

func TestTransferForm_Validate(t *testing.T) {
	clean := &TransferForm{
		Shareholders: []Shareholder{
			{ID: "sh-1", Name: "A", Percentage: 60},
			{ID: "sh-2", Name: "B", Percentage: 40},
		},
		Controllers: []PersonWithControl{{ShareholderID: "sh-1", ControlLevels: []string{"ownership-over-50"}}},
	}
	if warnings := clean.Validate(); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %+v", warnings)
	}

	badSum := &TransferForm{
		Shareholders: []Shareholder{{ID: "sh-1", Name: "A", Percentage: 70}},
	}
	warnings := badSum.Validate()
	if len(warnings) != 1 || warnings[0].Field != "shareholders" {
		t.Fatalf("expected shareholders warning, got %+v", warnings)
	}

	// a third of a point of rounding noise is tolerated
	rounded := &TransferForm{
		Shareholders: []Shareholder{
			{ID: "sh-1", Percentage: 33.3334},
			{ID: "sh-2", Percentage: 33.3333},
			{ID: "sh-3", Percentage: 33.3333},
		},
	}
	if warnings := rounded.Validate(); len(warnings) != 0 {
		t.Fatalf("expected rounding tolerance, got %+v", warnings)
	}

	tooManyControllers := &TransferForm{
		Shareholders: []Shareholder{{ID: "sh-1", Percentage: 100}},
		Controllers: []PersonWithControl{
			{ShareholderID: "sh-1"},
			{ShareholderID: "sh-2"},
		},
	}
	warnings = tooManyControllers.Validate()
	if len(warnings) != 1 || warnings[0].Field != "personsWithSignificantControl" {
		t.Fatalf("expected controllers warning, got %+v", warnings)
	}

	// activity code cap only applies when a rename is requested
	codes := &TransferForm{ActivityCodes: []string{"1", "2", "3", "4", "5"}}
	if warnings := codes.Validate(); len(warnings) != 0 {
		t.Fatalf("expected no warning without rename, got %+v", warnings)
	}
	codes.NewCompanyName.SetValid("New Name Ltd")
	warnings = codes.Validate()
	if len(warnings) != 1 || warnings[0].Field != "activityCodes" {
		t.Fatalf("expected activityCodes warning, got %+v", warnings)
	}
}
