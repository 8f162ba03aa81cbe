package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/casalivre/listing-service/internal/listing/domain"
)

// listingDocument is the stored shape of a listing. Monetary and area
// values are kept as Decimal128 so no cents are lost to float rounding.
type listingDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	OwnerID      string               `bson:"owner_id"`
	Address      string               `bson:"address"`
	City         string               `bson:"city"`
	StateCode    string               `bson:"state_code"`
	Description  string               `bson:"description"`
	Bedrooms     int                  `bson:"bedrooms"`
	Bathrooms    int                  `bson:"bathrooms"`
	GarageSpaces int                  `bson:"garage_spaces"`
	TotalArea    primitive.Decimal128 `bson:"total_area"`
	BuiltArea    primitive.Decimal128 `bson:"built_area"`
	Price        primitive.Decimal128 `bson:"price"`
	ImageURL     string               `bson:"image_url,omitempty"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

type ownerDocument struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	d128, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %q: %w", d.String(), err)
	}
	return d128, nil
}

func fromDecimal128(d128 primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(d128.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal %q: %w", d128.String(), err)
	}
	return d, nil
}

func toListingDocument(ownerID string, in domain.ListingInput, imageURL string) (*listingDocument, error) {
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

	return &listingDocument{
		OwnerID:      ownerID,
		Address:      in.Address,
		City:         in.City,
		StateCode:    in.StateCode,
		Description:  in.Description,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		GarageSpaces: in.GarageSpaces,
		TotalArea:    totalArea,
		BuiltArea:    builtArea,
		Price:        price,
		ImageURL:     imageURL,
	}, nil
}

func toDomainListing(d *listingDocument) (*domain.Listing, error) {
	totalArea, err := fromDecimal128(d.TotalArea)
	if err != nil {
		return nil, err
	}
	builtArea, err := fromDecimal128(d.BuiltArea)
	if err != nil {
		return nil, err
	}
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, err
	}

	return &domain.Listing{
		ID:           d.ID.Hex(),
		OwnerID:      d.OwnerID,
		Address:      d.Address,
		City:         d.City,
		StateCode:    d.StateCode,
		Description:  d.Description,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		GarageSpaces: d.GarageSpaces,
		TotalArea:    totalArea,
		BuiltArea:    builtArea,
		Price:        price,
		ImageURL:     d.ImageURL,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func toDomainListings(docs []*listingDocument) ([]*domain.Listing, error) {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listing, err := toDomainListing(doc)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func toDomainOwner(d *ownerDocument) *domain.Owner {
	return &domain.Owner{
		ID:    d.ID.Hex(),
		Name:  d.Name,
		Email: d.Email,
	}
}
