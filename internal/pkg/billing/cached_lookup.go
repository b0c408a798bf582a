package billing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/CourseFox/app/models"
)

const (
	customerCacheKeyPrefix  = "billing:customer:"
	DefaultCustomerCacheTTL = 10 * time.Minute
)

// CachedStore wraps a Store with a read-through Redis cache for customer
// lookups. Misses and cache errors fall through to the wrapped store; only
// successful lookups are cached.
type CachedStore struct {
	Store
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCachedStore(store Store, rdb redis.Cmdable, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCustomerCacheTTL
	}
	return &CachedStore{Store: store, rdb: rdb, ttl: ttl}
}

type cachedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *CachedStore) LookupUserByBillingCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	key := customerCacheKeyPrefix + customerID

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cu cachedUser
		if jsonErr := json.Unmarshal(raw, &cu); jsonErr == nil && cu.ID != 0 {
			return &models.User{ID: cu.ID, Name: cu.Name, Email: cu.Email}, nil
		}
	case !errors.Is(err, redis.Nil):
		fiberlog.Warnf("[Billing] customer cache read %s failed: %v", key, err)
	}

	user, err := s.Store.LookupUserByBillingCustomerID(ctx, customerID)
	if err != nil || user == nil {
		return user, err
	}

	if payload, err := json.Marshal(cachedUser{ID: user.ID, Name: user.Name, Email: user.Email}); err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			fiberlog.Warnf("[Billing] customer cache write %s failed: %v", key, err)
		}
	}
	return user, nil
}
