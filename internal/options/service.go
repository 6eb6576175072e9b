package options

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
)

const cacheKey = "field-options:v1"

// Service serves the per-field option sets with a Redis cache in front of
// the source queries. A cache failure falls through to the source; option
// serving must not depend on Redis being up.
type Service struct {
	repo   Repository
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewService constructs a Service. A nil cache disables caching.
func NewService(repo Repository, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// Options returns every field's option list. refetch bypasses the cache and
// re-primes it from the source.
func (s *Service) Options(ctx context.Context, refetch bool) (map[string][]Option, error) {
	if !refetch {
		if cached, ok := s.fromCache(ctx); ok {
			return cached, nil
		}
	}

	out, err := s.fromSource(ctx)
	if err != nil {
		return nil, err
	}
	s.prime(ctx, out)
	return out, nil
}

func (s *Service) fromSource(ctx context.Context) (map[string][]Option, error) {
	out, err := s.repo.StaticOptions(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.CustomerOptions(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.ProductOptions(ctx)
	if err != nil {
		return nil, err
	}
	out[string(catalog.FieldCustomerName)] = customers
	out[string(catalog.FieldItemCode)] = products
	return out, nil
}

func (s *Service) fromCache(ctx context.Context) (map[string][]Option, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Warn("options cache read", slog.Any("error", err))
		}
		return nil, false
	}
	var out map[string][]Option
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (s *Service) prime(ctx context.Context, value map[string][]Option) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil && s.logger != nil {
		s.logger.Warn("options cache write", slog.Any("error", err))
	}
}
