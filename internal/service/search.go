package service

import (
	"context"
	"fmt"
	"time"

	"prospectfinder/internal/model"
	"prospectfinder/internal/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SearchService orchestrates the prospect search pipeline: resolve center,
// cache lookup, per-category aggregation, recall boost, pagination, distance
// and residential filtering, truncation, cache store.
type SearchService struct {
	catalog    *repository.CatalogStore
	provider   PlacesAPI
	aggregator *Aggregator
	booster    *Booster
	paginator  *Paginator
	cache      *SearchCache
	searchLog  *repository.SearchLogRepository

	defaultMaxResults int
	detailsBatchCap   int
}

// NewSearchService creates a new search service
func NewSearchService(
	catalog *repository.CatalogStore,
	provider PlacesAPI,
	cache *SearchCache,
	searchLog *repository.SearchLogRepository,
	pageSize, defaultMaxResults, detailsBatchCap int,
) *SearchService {
	return &SearchService{
		catalog:           catalog,
		provider:          provider,
		aggregator:        NewAggregator(provider, pageSize),
		booster:           NewBooster(provider, pageSize),
		paginator:         NewPaginator(provider),
		cache:             cache,
		searchLog:         searchLog,
		defaultMaxResults: defaultMaxResults,
		detailsBatchCap:   detailsBatchCap,
	}
}

// Search runs the full aggregation pipeline for one request.
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	startTime := time.Now()

	// Pick up taxonomy edits without a restart. A refresh failure keeps the
	// previously loaded packs.
	if err := s.catalog.Refresh(); err != nil {
		log.Printf("Warning: category catalog refresh failed: %v", err)
	}

	// Validate the whole key list before any provider call. A silently
	// skipped category would silently change recall, so an unknown key
	// aborts the request outright.
	packs := make([]model.CategoryPack, 0, len(req.Categories))
	for _, key := range req.Categories {
		pack, ok := s.catalog.Get(key)
		if !ok {
			if hint := s.catalog.Suggest(key); hint != "" {
				return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownCategory, key, hint)
			}
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
		}
		packs = append(packs, pack)
	}

	center, err := s.provider.ResolveCenter(ctx, req.Center)
	if err != nil {
		return nil, err
	}

	maxResults := s.defaultMaxResults
	if req.MaxResults != nil {
		maxResults = *req.MaxResults
	}

	searchID := uuid.NewString()
	key := newCacheKey(center, req.RadiusMeters, req.Categories, req.Recall())

	if cached, ok := s.cache.Get(key); ok {
		took := time.Since(startTime).Milliseconds()
		s.logSearch(req, center, searchID, len(cached.Results), true, took)
		return &model.SearchResponse{
			Results:       cached.Results,
			NextPageToken: cached.NextPageToken,
			CenterLat:     &center.Lat,
			CenterLng:     &center.Lng,
			SearchID:      searchID,
			Took:          took,
		}, nil
	}

	merged, queue, err := s.aggregator.Run(ctx, center, req.RadiusMeters, packs, maxResults)
	if err != nil {
		return nil, err
	}

	// Recall boost is additive: a failure costs coverage, never the request.
	if s.booster.Applies(req.Recall(), req.Categories) {
		queue, err = s.booster.Run(ctx, merged, queue, center, req.RadiusMeters, maxResults)
		if err != nil {
			log.Printf("Recall boost skipped: %v", err)
		}
	}

	if req.Recall() && len(queue) > 0 {
		queue = s.paginator.Run(ctx, merged, queue, maxResults)
	}

	results := FilterByRadius(merged.places(), center, req.RadiusMeters)
	results = FilterResidential(results, req.ExcludeResidential())
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	// Expose the first leftover token for client-driven manual paging.
	var nextToken *string
	if len(queue) > 0 {
		nextToken = &queue[0].Token
	}

	s.cache.Set(key, CachedSearch{Results: results, NextPageToken: nextToken})

	took := time.Since(startTime).Milliseconds()
	s.logSearch(req, center, searchID, len(results), false, took)

	return &model.SearchResponse{
		Results:       results,
		NextPageToken: nextToken,
		CenterLat:     &center.Lat,
		CenterLng:     &center.Lng,
		SearchID:      searchID,
		Took:          took,
	}, nil
}

// NextPage fetches one more raw provider page for a client-held token. No
// merge, no filtering, no cache interaction.
func (s *SearchService) NextPage(ctx context.Context, token string) (*PageResult, error) {
	return s.provider.FetchNextPage(ctx, token)
}

// Categories returns the current category packs, refreshing the catalog
// first so taxonomy edits show up immediately.
func (s *SearchService) Categories() []model.CategoryPack {
	if err := s.catalog.Refresh(); err != nil {
		log.Printf("Warning: category catalog refresh failed: %v", err)
	}
	return s.catalog.Packs()
}

// Details looks up phone/website for a batch of place ids, best-effort per
// id: a failed lookup yields a null-field entry, never aborts the batch.
// The batch is capped to bound provider cost.
func (s *SearchService) Details(ctx context.Context, placeIDs []string) *model.DetailsResponse {
	if len(placeIDs) > s.detailsBatchCap {
		placeIDs = placeIDs[:s.detailsBatchCap]
	}

	out := make(map[string]model.PlaceDetails, len(placeIDs))
	for _, id := range placeIDs {
		details, err := s.provider.GetPlaceDetails(ctx, id)
		if err != nil {
			log.Printf("Details lookup failed for %s: %v", id, err)
			out[id] = model.PlaceDetails{}
			continue
		}
		out[id] = *details
	}
	return &model.DetailsResponse{Details: out}
}

// LogFeedback records a user action on a returned prospect.
func (s *SearchService) LogFeedback(ctx context.Context, searchID, placeID, action string) error {
	return s.searchLog.LogFeedback(ctx, searchID, placeID, action)
}

// logSearch records the search in the search log without blocking the
// response path.
func (s *SearchService) logSearch(req *model.SearchRequest, center GeoPoint, searchID string, resultCount int, cacheHit bool, tookMs int64) {
	if s.searchLog == nil {
		return
	}
	entry := repository.SearchLogEntry{
		SearchID:       searchID,
		CenterLat:      center.Lat,
		CenterLng:      center.Lng,
		RadiusMeters:   req.RadiusMeters,
		Categories:     req.Categories,
		HighRecall:     req.Recall(),
		ResultCount:    resultCount,
		CacheHit:       cacheHit,
		ResponseTimeMs: int(tookMs),
	}
	go func() {
		if err := s.searchLog.LogSearch(context.Background(), entry); err != nil {
			log.Printf("Failed to log search %s: %v", searchID, err)
		}
	}()
}
