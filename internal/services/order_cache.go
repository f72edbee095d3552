package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Kempan/griptech-sub000/internal/domain"
)

// Cache is the slice of the redis client the order read cache uses. A nil
// Cache disables caching; every read degrades to the database.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// orderCacheTTL bounds how stale a cached order read can get. Order writes
// also delete the keys directly, so the TTL only covers what invalidation
// cannot reach.
const orderCacheTTL = 10 * time.Second

func orderIDKey(id uint64) string { return "orders:id:" + strconv.FormatUint(id, 10) }

func orderNumberKey(number string) string { return "orders:number:" + number }

// orderCache stores raw orders, not rendered responses: visibility
// (ownership, admin role, guest window) is evaluated on every read against
// the current caller, so a cache hit never widens who can see an order.
type orderCache struct {
	c Cache
}

func (oc orderCache) get(ctx context.Context, key string) *domain.Order {
	if oc.c == nil {
		return nil
	}
	data, err := oc.c.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var o domain.Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil
	}
	return &o
}

func (oc orderCache) fill(ctx context.Context, o *domain.Order) {
	if oc.c == nil || o == nil {
		return
	}
	data, err := json.Marshal(o)
	if err != nil {
		return
	}
	oc.c.Set(ctx, orderIDKey(o.ID), data, orderCacheTTL)
	oc.c.Set(ctx, orderNumberKey(o.OrderNumber), data, orderCacheTTL)
}

func (oc orderCache) invalidate(ctx context.Context, o *domain.Order) {
	if oc.c == nil || o == nil {
		return
	}
	oc.c.Del(ctx, orderIDKey(o.ID), orderNumberKey(o.OrderNumber))
}
