package promo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "promo:catalog:snapshot"

// Cache stores the raw promotion records in Redis so evaluation can fall
// back to the last known catalog when the store is unavailable.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a snapshot cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetRecords loads the cached snapshot. It reports whether a snapshot existed.
func (c *Cache) GetRecords(ctx context.Context) ([]Record, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, err
	}
	return records, true, nil
}

// SetRecords serialises the snapshot and stores it with the configured TTL.
func (c *Cache) SetRecords(ctx context.Context, records []Record) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey, data, c.ttl).Err()
}
