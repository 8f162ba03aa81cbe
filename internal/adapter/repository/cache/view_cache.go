// Package cache backs the rendered views with Redis. Entries expire on
// their own, but every successful mutation also invalidates the views it
// staled so the next read is fresh.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/casalivre/listing-service/internal/listing/domain"
)

const viewTTL = 1 * time.Hour

type ViewCache struct {
	client *redis.Client
}

func NewViewCache(addr string) (*ViewCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &ViewCache{client: client}, nil
}

// NewViewCacheWithClient is used by tests.
func NewViewCacheWithClient(client *redis.Client) *ViewCache {
	return &ViewCache{client: client}
}

func listingKey(id string) string {
	return "listing:" + id
}

func dashboardKey(ownerID string) string {
	return "dashboard:" + ownerID
}

func (c *ViewCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *ViewCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKey(listing.ID), data, viewTTL).Err()
}

func (c *ViewCache) InvalidateListing(ctx context.Context, id string) error {
	return c.client.Del(ctx, listingKey(id)).Err()
}

func (c *ViewCache) GetDashboard(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	data, err := c.client.Get(ctx, dashboardKey(ownerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listings []*domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *ViewCache) SetDashboard(ctx context.Context, ownerID string, listings []*domain.Listing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardKey(ownerID), data, viewTTL).Err()
}

func (c *ViewCache) InvalidateDashboard(ctx context.Context, ownerID string) error {
	return c.client.Del(ctx, dashboardKey(ownerID)).Err()
}
