package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agentbase-hq/agentbase-engine/pkg/mls"
	"github.com/agentbase-hq/agentbase-engine/pkg/models"
)

// ListingSearchService runs MLS searches through the configured provider,
// with an optional Redis read-through cache in front of it.
type ListingSearchService interface {
	Search(ctx context.Context, filters mls.SearchFilters) ([]*models.NormalizedProperty, error)
}

type listingSearchService struct {
	provider mls.Provider
	// cache may be nil, in which case every search hits the provider.
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewListingSearchService creates a new listing search service. A nil
// Redis client disables caching.
func NewListingSearchService(provider mls.Provider, cache *redis.Client, ttl time.Duration, logger *zap.Logger) ListingSearchService {
	return &listingSearchService{
		provider: provider,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Search returns normalized listings matching the filters. Results are
// cached per provider and filter set; cache failures fall back to the
// provider rather than failing the search.
func (s *listingSearchService) Search(ctx context.Context, filters mls.SearchFilters) ([]*models.NormalizedProperty, error) {
	key, err := s.cacheKey(filters)
	if err == nil && s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var listings []*models.NormalizedProperty
			if err := json.Unmarshal(cached, &listings); err == nil {
				s.logger.Debug("MLS search cache hit", zap.String("key", key))
				return listings, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("MLS search cache read failed", zap.Error(err))
		}
	}

	listings, err := s.provider.Search(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", s.provider.Name(), err)
	}

	if s.cache != nil && key != "" {
		payload, err := json.Marshal(listings)
		if err == nil {
			if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
				s.logger.Warn("MLS search cache write failed", zap.Error(err))
			}
		}
	}

	return listings, nil
}

// cacheKey derives a stable key from the provider name and the filter set.
func (s *listingSearchService) cacheKey(filters mls.SearchFilters) (string, error) {
	encoded, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return fmt.Sprintf("mls:search:%s:%s", s.provider.Name(), hex.EncodeToString(sum[:])), nil
}

// Ensure listingSearchService implements ListingSearchService at compile time.
var _ ListingSearchService = (*listingSearchService)(nil)
