package usecase

import (
	"context"

	"github.com/casalivre/listing-service/internal/listing/domain"
)

// authorizeMutation confirms the caller owns the listing before any
// mutation. The lookup filters on id AND owner in one query; a listing
// owned by someone else and a listing that does not exist both come back
// as domain.ErrNotFound, so callers cannot enumerate other brokers'
// listings.
func (uc *ListingUsecase) authorizeMutation(ctx context.Context, ownerID, listingID string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByOwnerAndID(ctx, ownerID, listingID)
	if err != nil {
		uc.logger.Warn("mutation not authorized", "listing_id", listingID, "caller_id", ownerID, "error", err.Error())
		return nil, err
	}
	return listing, nil
}
