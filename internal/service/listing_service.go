package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/umuhuza/umuhuza_api/internal/config"
	"github.com/umuhuza/umuhuza_api/internal/filter"
	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

const (
	featuredLimit = 10
	fetchTimeout  = 10 * time.Second
)

// ListingService serves the browse page: a coarse fetch from the product
// store followed by the in-memory client tier of the filter.
type ListingService struct {
	products ProductStore
	cache    ListingCache
	group    singleflight.Group
	sessions *browseSessions
	limit    int
}

// NewListingService creates a new ListingService. cache may be nil.
func NewListingService(products ProductStore, cache ListingCache, cfg config.ListingConfig) *ListingService {
	limit := cfg.FetchLimit
	if limit <= 0 {
		limit = 100
	}
	idle := cfg.SessionIdleTTL
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &ListingService{
		products: products,
		cache:    cache,
		sessions: newBrowseSessions(idle),
		limit:    limit,
	}
}

// Start drops idle browse sessions until ctx is cancelled.
func (s *ListingService) Start(ctx context.Context) {
	log.Info().Dur("idle_ttl", s.sessions.idleTTL).Msg("Browse session sweeper started")
	s.sessions.run(ctx, time.Minute)
}

// Browse returns the products matching state. When session is non-empty and
// another Browse for the same session started while this one was fetching,
// the result is dropped with utils.ErrStaleResult.
func (s *ListingService) Browse(ctx context.Context, session string, state filter.State) (*models.BrowseResult, error) {
	var ticket uint64
	if session != "" {
		ticket = s.sessions.next(session)
	}

	q := state.ServerQuery(s.limit)
	key := filter.QueryKey(q)

	products, err := s.fetch(ctx, q, key)
	if err != nil {
		// Read failures degrade to an empty listing.
		log.Error().Err(err).Str("query_key", key).Msg("Failed to fetch listings")
		products = nil
	}

	if session != "" && !s.sessions.isLatest(session, ticket) {
		log.Debug().Str("session", session).Uint64("ticket", ticket).Msg("Dropping stale browse result")
		return nil, utils.ErrStaleResult
	}

	matched := state.Apply(products)
	return &models.BrowseResult{
		Products:      matched,
		Total:         len(matched),
		ActiveFilters: state.ActiveCount(),
		QueryKey:      key,
	}, nil
}

// Featured returns the approved products highlighted on the home page.
func (s *ListingService) Featured(ctx context.Context) ([]models.Product, error) {
	q := models.ProductQuery{
		Status:   models.ProductApproved,
		Featured: true,
		Sort:     filter.DefaultSort,
		Limit:    featuredLimit,
	}
	products, err := s.fetch(ctx, q, filter.QueryKey(q)+"|featured")
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch featured products")
		return []models.Product{}, nil
	}
	return products, nil
}

// Invalidate drops cached listings after a product write.
func (s *ListingService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate listing cache")
	}
}

func (s *ListingService) fetch(ctx context.Context, q models.ProductQuery, key string) ([]models.Product, error) {
	version := ""
	if s.cache != nil {
		cached, ver, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("query_key", key).Msg("Listing cache read failed")
		}
		if ok {
			return cached, nil
		}
		version = ver
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// Shared by every caller waiting on key; no single caller may cancel it.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()

		products, err := s.products.List(fetchCtx, q)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		if s.cache != nil && version != "" {
			if err := s.cache.Set(fetchCtx, version, key, products); err != nil {
				log.Warn().Err(err).Str("query_key", key).Msg("Listing cache write failed")
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("query_key", key).Msg("Shared in-flight listing fetch")
	}
	return v.([]models.Product), nil
}
