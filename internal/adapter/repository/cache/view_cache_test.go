package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casalivre/listing-service/internal/listing/domain"
)

func newTestCache(t *testing.T) (*ViewCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewViewCacheWithClient(client), mr
}

func sampleListing() *domain.Listing {
	return &domain.Listing{
		ID:        "64f1c0ffee0000000000cafe",
		OwnerID:   "owner-1",
		Address:   "Praça Barão do Rio Branco, 50",
		City:      "Vitória da Conquista",
		StateCode: "BA",
		Bedrooms:  2,
		Price:     decimal.RequireFromString("280000.00"),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestViewCache_ListingRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	listing := sampleListing()

	require.NoError(t, c.SetListing(ctx, listing))

	got, err := c.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, listing.Address, got.Address)
	assert.True(t, got.Price.Equal(listing.Price))
}

func TestViewCache_MissReturnsNil(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.GetListing(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestViewCache_InvalidateListing(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	listing := sampleListing()

	require.NoError(t, c.SetListing(ctx, listing))
	require.NoError(t, c.InvalidateListing(ctx, listing.ID))

	assert.False(t, mr.Exists("listing:"+listing.ID))
	got, err := c.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestViewCache_DashboardRoundTripAndInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	listings := []*domain.Listing{sampleListing()}

	require.NoError(t, c.SetDashboard(ctx, "owner-1", listings))

	got, err := c.GetDashboard(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, listings[0].ID, got[0].ID)

	require.NoError(t, c.InvalidateDashboard(ctx, "owner-1"))
	assert.False(t, mr.Exists("dashboard:owner-1"))
}

func TestViewCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	listing := sampleListing()

	require.NoError(t, c.SetListing(ctx, listing))
	mr.FastForward(viewTTL + time.Minute)

	got, err := c.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
