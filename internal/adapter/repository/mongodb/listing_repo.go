// Package mongodb implements the persistence facade on MongoDB. Missing
// records map to domain.ErrNotFound; everything else surfaces as
// domain.ErrStoreUnavailable so the workflow never sees driver errors.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/casalivre/listing-service/internal/listing/domain"
)

type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{collection: db.Collection("listings")}
}

func (r *ListingRepository) CreateOwned(ctx context.Context, ownerID string, in domain.ListingInput, imageURL string) (*domain.Listing, error) {
	doc, err := toListingDocument(ownerID, in, imageURL)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, storeError("insert listing", err)
	}
	return toDomainListing(doc)
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID})
}

func (r *ListingRepository) FindByOwnerAndID(ctx context.Context, ownerID, id string) (*domain.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id is indistinguishable from a missing listing.
		return nil, domain.ErrNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID, "owner_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeError("find listing by owner and id", err)
	}
	return toDomainListing(&doc)
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeError("find listing", err)
	}
	return toDomainListing(&doc)
}

func (r *ListingRepository) UpdateByID(ctx context.Context, id string, in domain.ListingInput) (*domain.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	totalArea, err := toDecimal128(in.TotalArea)
	if err != nil {
		return nil, err
	}
	builtArea, err := toDecimal128(in.BuiltArea)
	if err != nil {
		return nil, err
	}
	price, err := toDecimal128(in.Price)
	if err != nil {
		return nil, err
	}

	// Full replace of the mutable fields. _id, owner_id, image_url and
	// created_at are never part of the update.
	update := bson.M{"$set": bson.M{
		"address":       in.Address,
		"city":          in.City,
		"state_code":    in.StateCode,
		"description":   in.Description,
		"bedrooms":      in.Bedrooms,
		"bathrooms":     in.Bathrooms,
		"garage_spaces": in.GarageSpaces,
		"total_area":    totalArea,
		"built_area":    builtArea,
		"price":         price,
		"updated_at":    time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc listingDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, storeError("update listing", err)
	}
	return toDomainListing(&doc)
}

func (r *ListingRepository) DeleteByID(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return storeError("delete listing", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Listing, error) {
	return r.find(ctx, searchQuery(filter))
}

// searchQuery builds the store filter for a public search. Both predicates
// are optional and ANDed; with neither set the query matches everything.
func searchQuery(filter domain.SearchFilter) bson.M {
	var and []bson.M
	if filter.Text != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Text), Options: "i"}
		and = append(and, bson.M{"$or": []bson.M{
			{"address": re},
			{"city": re},
		}})
	}
	if filter.MinBedrooms > 0 {
		and = append(and, bson.M{"bedrooms": bson.M{"$gte": filter.MinBedrooms}})
	}

	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

func (r *ListingRepository) find(ctx context.Context, query bson.M) ([]*domain.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, storeError("find listings", err)
	}

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storeError("decode listings", err)
	}
	return toDomainListings(docs)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}
