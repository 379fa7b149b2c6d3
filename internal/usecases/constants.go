package usecases

// User-facing reference prefixes
const (
	FormReferencePrefix    = "TF"
	OrderReferencePrefix   = "ORD"
	CompanyReferencePrefix = "CO"
)

// Outbox record types
const (
	RecordTypeTransferForm = "transfer-form"
	RecordTypeOrder        = "order"
)

// Actor recorded in history entries for changes not tied to a signed-in user
const (
	ActorCustomer = "customer"
	ActorSystem   = "system"
)

// DefaultCurrency is applied when an order omits the currency
const DefaultCurrency = "GBP"
