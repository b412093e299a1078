package indicator

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/econlab/indicadores/cache"
)

// ErrNoData is returned when neither the cache nor the upstream API yields
// any observation for the requested range.
var ErrNoData = errors.New("indicator: no data for requested range")

// Fetcher retrieves a series from the upstream provider. Dates are
// YYYY-MM-DD strings, matching the provider's request format.
type Fetcher interface {
	FetchSeries(ctx context.Context, seriesID, firstDate, lastDate string) (Series, error)
}

// Repository is the single place where cache and network meet. All
// consumers go through GetSeries so the empty-never-cached rule is enforced
// exactly once.
type Repository struct {
	store   cache.Store
	fetcher Fetcher
	ttl     time.Duration
	log     zerolog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithTTL overrides the cache TTL for fetched series.
func WithTTL(ttl time.Duration) RepositoryOption {
	return func(r *Repository) { r.ttl = ttl }
}

// WithLogger attaches a logger for cache/fetch diagnostics.
func WithLogger(log zerolog.Logger) RepositoryOption {
	return func(r *Repository) { r.log = log }
}

// NewRepository wires a cache store and an upstream fetcher together.
func NewRepository(store cache.Store, fetcher Fetcher, opts ...RepositoryOption) *Repository {
	r := &Repository{
		store:   store,
		fetcher: fetcher,
		ttl:     cache.DefaultTTL,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// GetSeries returns the series for (seriesID, firstDate, lastDate),
// cache-first. On a miss it fetches, caches non-empty results, and returns
// ErrNoData for empty ones so a transient empty window never poisons the
// cache for a full TTL.
//
// Two concurrent calls for the same key may both miss and both fetch; the
// last writer wins. That race is accepted, the entries are identical.
func (r *Repository) GetSeries(ctx context.Context, seriesID, firstDate, lastDate string) (Series, error) {
	key := cache.Key(seriesID, firstDate, lastDate)

	if data, ok := r.store.Get(key); ok {
		var s Series
		// An undecodable entry (stale format) is just a miss.
		if err := json.Unmarshal(data, &s); err == nil && len(s) > 0 {
			r.log.Debug().Str("key", key).Int("observations", len(s)).Msg("cache hit")
			return s, nil
		}
	}

	s, err := r.fetcher.FetchSeries(ctx, seriesID, firstDate, lastDate)
	if err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, ErrNoData
	}

	if data, err := json.Marshal(s); err == nil {
		r.store.Set(key, data, r.ttl)
	}
	r.log.Debug().Str("key", key).Int("observations", len(s)).Msg("fetched and cached")
	return s, nil
}
