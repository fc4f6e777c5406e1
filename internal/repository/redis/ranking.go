package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Novel/internal/repository/cache"
)

const (
	// hard TTL = hardTTLFactor * logical TTL, after that the page is gone for good
	hardTTLFactor = 2
)

type rankingCache struct {
	client *redis.Client
}

var _ domain.RankingCache = (*rankingCache)(nil)

func NewRankingCache(client *redis.Client) *rankingCache {
	return &rankingCache{
		client,
	}
}

func (c *rankingCache) GetPage(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, domain.ErrCacheMiss
	} else if err != nil {
		return false, err
	}

	var entry cache.DataWithLogicalExpire
	if err = json.Unmarshal(data, &entry); err != nil {
		return false, err
	}
	if err = entry.Decode(dst); err != nil {
		return false, err
	}
	return entry.IsLogicalExpired(), nil
}

func (c *rankingCache) SetPage(ctx context.Context, key string, page any, ttl time.Duration) error {
	entry, err := cache.NewDataWithLogicalExpire(page, ttl)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), hardTTLFactor*ttl).Err()
}

func (c *rankingCache) DeletePage(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
