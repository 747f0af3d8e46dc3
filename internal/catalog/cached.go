package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/emotune/emotune/internal/cache"
)

// CachedSearcher decorates a Searcher with a cache.Store. Cache failures are
// logged and bypassed; only errors from the wrapped searcher are returned.
type CachedSearcher struct {
	next   Searcher
	store  cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedSearcher(next Searcher, store cache.Store, ttl time.Duration, logger *slog.Logger) *CachedSearcher {
	return &CachedSearcher{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "catalog_cache"),
	}
}

// CacheKey is the store key for one search
func CacheKey(query string, limit int) string {
	return "catalog:search:" + strconv.Itoa(limit) + ":" + query
}

func (s *CachedSearcher) SearchTracks(ctx context.Context, query string, limit int) ([]Hit, error) {
	key := CacheKey(query, limit)

	data, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		var hits []Hit
		if jsonErr := json.Unmarshal(data, &hits); jsonErr == nil {
			return hits, nil
		}
		s.logger.WarnContext(ctx, "discarding corrupt cache entry", "key", key)
	case !cache.IsMiss(err):
		s.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	hits, err := s.next.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(hits); err == nil {
		if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
		}
	}

	return hits, nil
}

var _ Searcher = (*CachedSearcher)(nil)
