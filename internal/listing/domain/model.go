package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is a property record owned by exactly one broker. The owner is
// set at creation and never reassigned.
type Listing struct {
	ID           string
	OwnerID      string
	Address      string
	City         string
	StateCode    string
	Description  string
	Bedrooms     int
	Bathrooms    int
	GarageSpaces int
	TotalArea    decimal.Decimal
	BuiltArea    decimal.Decimal
	Price        decimal.Decimal
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListingInput is the validated, typed field set produced by the form
// decoder. ID is only set when the form targets an existing listing.
type ListingInput struct {
	ID           string
	Address      string
	City         string
	StateCode    string
	Description  string
	Bedrooms     int
	Bathrooms    int
	GarageSpaces int
	TotalArea    decimal.Decimal
	BuiltArea    decimal.Decimal
	Price        decimal.Decimal
}

// Identity is the authenticated broker for the current request, as
// supplied by the identity provider.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Owner carries the broker fields shown on the public detail page.
type Owner struct {
	ID    string
	Name  string
	Email string
}

// SearchFilter narrows the public listing search. Text matches address or
// city as a case-insensitive substring; MinBedrooms keeps listings with at
// least that many bedrooms. Both are optional and combined with AND.
type SearchFilter struct {
	Text        string
	MinBedrooms int
}
