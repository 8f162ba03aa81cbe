package domain

import "context"

// ListingRepository is the narrow persistence surface the workflow needs.
// Implementations return ErrNotFound for missing records and wrap backend
// failures in ErrStoreUnavailable.
type ListingRepository interface {
	// CreateOwned persists a new listing for ownerID, assigning ID and
	// CreatedAt. Business rules are assumed already validated.
	CreateOwned(ctx context.Context, ownerID string, in ListingInput, imageURL string) (*Listing, error)

	// ListByOwner returns the owner's listings, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Listing, error)

	// FindByOwnerAndID matches on both id and owner in a single query, so
	// a foreign-owned listing is indistinguishable from a missing one.
	FindByOwnerAndID(ctx context.Context, ownerID, id string) (*Listing, error)

	// FindByID fetches a listing regardless of owner, for the public
	// detail view.
	FindByID(ctx context.Context, id string) (*Listing, error)

	// UpdateByID replaces the mutable fields of a listing. ID, owner and
	// image URL are untouched.
	UpdateByID(ctx context.Context, id string, in ListingInput) (*Listing, error)

	DeleteByID(ctx context.Context, id string) error

	// Search returns listings matching the filter, newest first. An empty
	// filter returns the full set.
	Search(ctx context.Context, filter SearchFilter) ([]*Listing, error)
}

// OwnerRepository resolves broker display fields for the detail view.
type OwnerRepository interface {
	FindByID(ctx context.Context, id string) (*Owner, error)
}

// Storage uploads raw image bytes to object storage and returns a durable
// public URL.
type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// ViewCache caches rendered-view source data and supports the mandatory
// invalidation after every successful mutation.
type ViewCache interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	SetListing(ctx context.Context, listing *Listing) error
	InvalidateListing(ctx context.Context, id string) error

	GetDashboard(ctx context.Context, ownerID string) ([]*Listing, error)
	SetDashboard(ctx context.Context, ownerID string, listings []*Listing) error
	InvalidateDashboard(ctx context.Context, ownerID string) error
}

// EventPublisher emits listing lifecycle events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
