package usecase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/casalivre/listing-service/internal/listing/domain"
	"github.com/casalivre/listing-service/internal/listing/form"
	"github.com/casalivre/listing-service/internal/platform/logger"
)

// NATS subjects for listing lifecycle events.
const (
	SubjectListingCreated = "listing.created"
	SubjectListingUpdated = "listing.updated"
	SubjectListingDeleted = "listing.deleted"
)

// Mailer notifies a broker that their listing went live. Delivery is
// best-effort and never fails the workflow.
type Mailer interface {
	SendListingPublished(toEmail, address string) error
}

// ListingUsecase orchestrates the broker CRUD workflow: decode and validate
// the form, check ownership, mutate the store, then invalidate the cached
// views that rendered the stale data.
type ListingUsecase struct {
	repo    domain.ListingRepository
	owners  domain.OwnerRepository
	storage domain.Storage
	views   domain.ViewCache
	events  domain.EventPublisher
	mailer  Mailer
	logger  *logger.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	owners domain.OwnerRepository,
	storage domain.Storage,
	views domain.ViewCache,
	events domain.EventPublisher,
	mailer Mailer,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:    repo,
		owners:  owners,
		storage: storage,
		views:   views,
		events:  events,
		mailer:  mailer,
		logger:  log,
	}
}

// Create validates the form, uploads the image and persists the listing for
// the authenticated broker. The image upload must succeed before anything
// is written: its URL is part of the stored record, and a failed upload
// leaves the store untouched.
func (uc *ListingUsecase) Create(ctx context.Context, ident *domain.Identity, values url.Values, upload *form.Upload) (*domain.Listing, error) {
	if ident == nil {
		return nil, domain.ErrUnauthenticated
	}

	in, err := form.DecodeListing(values)
	if err != nil {
		uc.logger.Warn("create: form rejected", "owner_id", ident.ID, "error", err.Error())
		return nil, err
	}

	var imageURL string
	if upload != nil {
		imageURL, err = uc.storage.Upload(ctx, upload.Filename, upload.Data)
		if err != nil {
			uc.logger.Error("create: image upload failed", "owner_id", ident.ID, "error", err.Error())
			return nil, fmt.Errorf("%w: %v", domain.ErrImageUpload, err)
		}
	}

	listing, err := uc.repo.CreateOwned(ctx, ident.ID, in, imageURL)
	if err != nil {
		uc.logger.Error("create: store write failed", "owner_id", ident.ID, "error", err.Error())
		return nil, err
	}

	uc.invalidateDashboard(ctx, ident.ID)
	uc.publish(ctx, SubjectListingCreated, listing)
	uc.notifyPublished(ident, listing)

	uc.logger.Info("create: listing created", "listing_id", listing.ID, "owner_id", ident.ID)
	return listing, nil
}

// Update replaces the mutable fields of a listing owned by the caller. The
// form must carry the listing id.
func (uc *ListingUsecase) Update(ctx context.Context, ident *domain.Identity, values url.Values) (*domain.Listing, error) {
	if ident == nil {
		return nil, domain.ErrUnauthenticated
	}

	in, err := form.DecodeListing(values)
	if err != nil {
		uc.logger.Warn("update: form rejected", "owner_id", ident.ID, "error", err.Error())
		return nil, err
	}
	if in.ID == "" {
		return nil, fmt.Errorf("%w: missing listing id", domain.ErrInvalidInput)
	}

	if _, err := uc.authorizeMutation(ctx, ident.ID, in.ID); err != nil {
		return nil, err
	}

	listing, err := uc.repo.UpdateByID(ctx, in.ID, in)
	if err != nil {
		uc.logger.Error("update: store write failed", "listing_id", in.ID, "error", err.Error())
		return nil, err
	}

	uc.invalidateDashboard(ctx, ident.ID)
	uc.invalidateListing(ctx, listing.ID)
	uc.publish(ctx, SubjectListingUpdated, listing)

	uc.logger.Info("update: listing updated", "listing_id", listing.ID, "owner_id", ident.ID)
	return listing, nil
}

// Delete removes a listing owned by the caller. Deletion is immediate and
// irreversible; deleting an id that is already gone reports ErrNotFound.
func (uc *ListingUsecase) Delete(ctx context.Context, ident *domain.Identity, id string) error {
	if ident == nil {
		return domain.ErrUnauthenticated
	}
	if id == "" {
		return fmt.Errorf("%w: missing listing id", domain.ErrInvalidInput)
	}

	if _, err := uc.authorizeMutation(ctx, ident.ID, id); err != nil {
		return err
	}

	if err := uc.repo.DeleteByID(ctx, id); err != nil {
		uc.logger.Error("delete: store write failed", "listing_id", id, "error", err.Error())
		return err
	}

	uc.invalidateDashboard(ctx, ident.ID)
	uc.invalidateListing(ctx, id)
	uc.publish(ctx, SubjectListingDeleted, map[string]string{"id": id, "owner_id": ident.ID})

	uc.logger.Info("delete: listing deleted", "listing_id", id, "owner_id", ident.ID)
	return nil
}

// Search is the public browse path. No identity is required and an empty
// result is a normal outcome.
func (uc *ListingUsecase) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Listing, error) {
	listings, err := uc.repo.Search(ctx, filter)
	if err != nil {
		uc.logger.Error("search: query failed", "error", err.Error())
		return nil, err
	}
	return listings, nil
}

// Dashboard returns the caller's own listings, newest first, reading
// through the view cache.
func (uc *ListingUsecase) Dashboard(ctx context.Context, ident *domain.Identity) ([]*domain.Listing, error) {
	if ident == nil {
		return nil, domain.ErrUnauthenticated
	}

	if cached, err := uc.views.GetDashboard(ctx, ident.ID); err != nil {
		uc.logger.Warn("dashboard: cache read failed", "owner_id", ident.ID, "error", err.Error())
	} else if cached != nil {
		return cached, nil
	}

	listings, err := uc.repo.ListByOwner(ctx, ident.ID)
	if err != nil {
		uc.logger.Error("dashboard: store read failed", "owner_id", ident.ID, "error", err.Error())
		return nil, err
	}

	if err := uc.views.SetDashboard(ctx, ident.ID, listings); err != nil {
		uc.logger.Warn("dashboard: cache write failed", "owner_id", ident.ID, "error", err.Error())
	}
	return listings, nil
}

// Detail returns a single listing with its broker's display fields, for
// the public detail page.
func (uc *ListingUsecase) Detail(ctx context.Context, id string) (*domain.Listing, *domain.Owner, error) {
	listing, err := uc.views.GetListing(ctx, id)
	if err != nil {
		uc.logger.Warn("detail: cache read failed", "listing_id", id, "error", err.Error())
		listing = nil
	}
	if listing == nil {
		listing, err = uc.repo.FindByID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if err := uc.views.SetListing(ctx, listing); err != nil {
			uc.logger.Warn("detail: cache write failed", "listing_id", id, "error", err.Error())
		}
	}

	owner, err := uc.owners.FindByID(ctx, listing.OwnerID)
	if err != nil {
		// The listing is still renderable without broker contact info.
		uc.logger.Warn("detail: owner lookup failed", "owner_id", listing.OwnerID, "error", err.Error())
		owner = nil
	}
	return listing, owner, nil
}

// View invalidation is a required side effect of every successful mutation,
// but a cache hiccup must not fail a mutation that already committed.
func (uc *ListingUsecase) invalidateDashboard(ctx context.Context, ownerID string) {
	if err := uc.views.InvalidateDashboard(ctx, ownerID); err != nil {
		uc.logger.Warn("view invalidation failed", "view", "dashboard", "owner_id", ownerID, "error", err.Error())
	}
}

func (uc *ListingUsecase) invalidateListing(ctx context.Context, id string) {
	if err := uc.views.InvalidateListing(ctx, id); err != nil {
		uc.logger.Warn("view invalidation failed", "view", "listing", "listing_id", id, "error", err.Error())
	}
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, data interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("event publish failed", "subject", subject, "error", err.Error())
	}
}

func (uc *ListingUsecase) notifyPublished(ident *domain.Identity, listing *domain.Listing) {
	if uc.mailer == nil || ident.Email == "" {
		return
	}
	if err := uc.mailer.SendListingPublished(ident.Email, listing.Address); err != nil {
		uc.logger.Warn("publish notification failed", "owner_id", ident.ID, "error", err.Error())
	}
}
