package mongodb

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/casalivre/listing-service/internal/listing/domain"
)

func TestSearchQuery_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, searchQuery(domain.SearchFilter{}))
}

func TestSearchQuery_TextMatchesAddressOrCity(t *testing.T) {
	query := searchQuery(domain.SearchFilter{Text: "Rio"})

	and, ok := query["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 1)

	or, ok := and[0]["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)

	re, ok := or[0]["address"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "Rio", re.Pattern)
	assert.Equal(t, "i", re.Options)

	re, ok = or[1]["city"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "Rio", re.Pattern)
}

func TestSearchQuery_TextIsQuoted(t *testing.T) {
	query := searchQuery(domain.SearchFilter{Text: "Rua 7 (centro)"})

	and := query["$and"].([]bson.M)
	or := and[0]["$or"].([]bson.M)
	re := or[0]["address"].(primitive.Regex)
	assert.Equal(t, `Rua 7 \(centro\)`, re.Pattern)
}

func TestSearchQuery_CombinedPredicates(t *testing.T) {
	query := searchQuery(domain.SearchFilter{Text: "Rio", MinBedrooms: 3})

	and, ok := query["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 2)
	assert.Equal(t, bson.M{"bedrooms": bson.M{"$gte": 3}}, and[1])
}

func TestDecimal128RoundTrip(t *testing.T) {
	for _, s := range []string{"280000.00", "0.01", "199999.99", "250.5"} {
		d := decimal.RequireFromString(s)

		d128, err := toDecimal128(d)
		require.NoError(t, err)

		back, err := fromDecimal128(d128)
		require.NoError(t, err)
		assert.True(t, back.Equal(d), "round trip of %s", s)
	}
}

func TestListingDocumentConversion(t *testing.T) {
	in := domain.ListingInput{
		Address:      "Praça Barão do Rio Branco, 50",
		City:         "Vitória da Conquista",
		StateCode:    "BA",
		Description:  "Casa ampla com quintal",
		Bedrooms:     2,
		Bathrooms:    1,
		GarageSpaces: 1,
		TotalArea:    decimal.RequireFromString("250.5"),
		BuiltArea:    decimal.RequireFromString("180"),
		Price:        decimal.RequireFromString("280000.00"),
	}

	doc, err := toListingDocument("owner-1", in, "https://img.example/1.jpg")
	require.NoError(t, err)
	doc.ID = primitive.NewObjectID()

	listing, err := toDomainListing(doc)
	require.NoError(t, err)

	assert.Equal(t, doc.ID.Hex(), listing.ID)
	assert.Equal(t, "owner-1", listing.OwnerID)
	assert.Equal(t, in.Address, listing.Address)
	assert.Equal(t, in.City, listing.City)
	assert.Equal(t, in.StateCode, listing.StateCode)
	assert.Equal(t, in.Bedrooms, listing.Bedrooms)
	assert.Equal(t, "https://img.example/1.jpg", listing.ImageURL)
	assert.True(t, listing.Price.Equal(in.Price))
	assert.True(t, listing.TotalArea.Equal(in.TotalArea))
	assert.True(t, listing.BuiltArea.Equal(in.BuiltArea))
}
