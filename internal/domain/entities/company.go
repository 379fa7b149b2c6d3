package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// CompanyStatus represents the marketplace availability of a shelf company
type CompanyStatus string

const (
	CompanyStatusAvailable CompanyStatus = "available"
	CompanyStatusReserved  CompanyStatus = "reserved"
	CompanyStatusOwned     CompanyStatus = "owned"
)

// Company represents a shelf company listed on the marketplace
type Company struct {
	ID        uuid.UUID `json:"id"`
	CompanyID string    `json:"companyId"`

	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registrationNumber"`
	Jurisdiction       string    `json:"jurisdiction"`
	IncorporatedAt     time.Time `json:"incorporatedAt"`

	Price    float64 `json:"price"`
	Currency string  `json:"currency"`

	TotalShares       int64   `json:"totalShares"`
	TotalShareCapital float64 `json:"totalShareCapital"`

	Status  CompanyStatus `json:"status"`
	OwnerID null.String   `json:"ownerId,omitempty"` // orderId of the completed purchase

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}
