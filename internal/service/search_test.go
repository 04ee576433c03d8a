package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"prospectfinder/internal/model"
	"prospectfinder/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTaxonomy = `[
  {"key": "car_repair", "label": "Car Repair", "includedTypes": ["car_repair"]},
  {"key": "towing", "label": "Towing", "keywords": ["towing", "tow truck"]}
]`

func newTestSearchService(t *testing.T, fake *fakePlaces) *SearchService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte(testTaxonomy), 0o644))

	catalog, err := repository.NewCatalogStore(path)
	require.NoError(t, err)

	return NewSearchService(catalog, fake, NewSearchCache(20*time.Minute), nil, 20, 60, 50)
}

func boostQuery() string {
	return strings.Join(autoBoostTerms, " OR ")
}

func detroitRequest(recall bool) *model.SearchRequest {
	lat, lng := detroit.Lat, detroit.Lng
	return &model.SearchRequest{
		Center:       model.Center{Lat: &lat, Lng: &lng},
		RadiusMeters: 5000,
		Categories:   []string{"car_repair"},
		HighRecall:   &recall,
	}
}

func TestSearch_SingleCategoryNoRecall(t *testing.T) {
	fake := newFakePlaces(detroit)
	fake.nearbyPages["car_repair"] = pageOf("",
		place("near", detroit.Lat+0.01, detroit.Lng),      // ~1.1 km
		place("far", detroit.Lat+0.1, detroit.Lng),        // ~11 km
		model.Place{PlaceID: "nowhere", Name: "No coords"}, // unverifiable
	)

	svc := newTestSearchService(t, fake)
	resp, err := svc.Search(context.Background(), detroitRequest(false))
	require.NoError(t, err)

	// One proximity search with the pack's type filter, nothing else.
	require.Len(t, fake.callsOf("nearby"), 1)
	assert.Equal(t, []string{"car_repair"}, fake.callsOf("nearby")[0].Types)
	assert.Empty(t, fake.callsOf("text"), "no recall boost when highRecall is off")
	assert.Empty(t, fake.callsOf("page"))

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "near", resp.Results[0].PlaceID)
	assert.Equal(t, []string{"Car Repair"}, resp.Results[0].Categories)
	assert.Equal(t, detroit.Lat, *resp.CenterLat)
	assert.Equal(t, detroit.Lng, *resp.CenterLng)
}

func TestSearch_RecallBoostForAutoVertical(t *testing.T) {
	fake := newFakePlaces(detroit)
	fake.nearbyPages["car_repair"] = pageOf("", place("shop", detroit.Lat+0.01, detroit.Lng))
	fake.textPages[boostQuery()] = pageOf("", place("boosted", detroit.Lat+0.02, detroit.Lng))

	svc := newTestSearchService(t, fake)
	resp, err := svc.Search(context.Background(), detroitRequest(true))
	require.NoError(t, err)

	// Exactly one additional broad text search.
	require.Len(t, fake.callsOf("text"), 1)
	assert.Equal(t, boostQuery(), fake.callsOf("text")[0].Query)

	byID := make(map[string]model.Place)
	for _, p := range resp.Results {
		byID[p.PlaceID] = p
	}
	require.Contains(t, byID, "boosted")
	assert.Equal(t, []string{BoostLabel}, byID["boosted"].Categories,
		"boost-only places carry the generic fallback label")
	assert.Equal(t, []string{"Car Repair"}, byID["shop"].Categories)
}

func TestSearch_BoostFailureIsSwallowed(t *testing.T) {
	fake := newFakePlaces(detroit)
	fake.nearbyPages["car_repair"] = pageOf("", place("shop", detroit.Lat+0.01, detroit.Lng))
	fake.textErr = assert.AnError

	svc := newTestSearchService(t, fake)
	resp, err := svc.Search(context.Background(), detroitRequest(true))
	require.NoError(t, err, "boost failure must not fail the request")
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "shop", resp.Results[0].PlaceID)
}

func TestSearch_NoBoostOutsideAutoVertical(t *testing.T) {
	fake := newFakePlaces(detroit)
	fake.textPages["towing OR tow truck"] = pageOf("", place("tow", detroit.Lat+0.01, detroit.Lng))

	req := detroitRequest(true)
	req.Categories = []string{"towing"}

	svc := newTestSearchService(t, fake)
	_, err := svc.Search(context.Background(), req)
	require.NoError(t, err)

	// The only text call is the pack's own keyword search.
	require.Len(t, fake.callsOf("text"), 1)
	assert.Equal(t, "towing OR tow truck", fake.callsOf("text")[0].Query)
}

func TestSearch_UnknownCategoryFailsFast(t *testing.T) {
	fake := newFakePlaces(detroit)
	req := detroitRequest(false)
	req.Categories = []string{"car_repair", "bogus_pack"}

	svc := newTestSearchService(t, fake)
	_, err := svc.Search(context.Background(), req)
	require.ErrorIs(t, err, ErrUnknownCategory)
	assert.Contains(t, err.Error(), "bogus_pack")
	assert.Empty(t, fake.calls, "no provider call may happen for any key once one is unknown")
}

func TestSearch_UnknownCategorySuggestsClosestKey(t *testing.T) {
	fake := newFakePlaces(detroit)
	req := detroitRequest(false)
	req.Categories = []string{"car repair"}

	svc := newTestSearchService(t, fake)
	_, err := svc.Search(context.Background(), req)
	require.ErrorIs(t, err, ErrUnknownCategory)
	assert.Contains(t, err.Error(), `did you mean "car_repair"`)
}

func TestSearch_CacheHitShortCircuitsProvider(t *testing.T) {
	fake := newFakePlaces(detroit)
	fake.nearbyPages["car_repair"] = pageOf("", place("shop", detroit.Lat+0.01, detroit.Lng))

	svc := newTestSearchService(t, fake)
	first, err := svc.Search(context.Background(), detroitRequest(false))
	require.NoError(t, err)
	callsAfterFirst := len(fake.calls)

	second, err := svc.Search(context.Background(), detroitRequest(false))
	require.NoError(t, err)

	assert.Equal(t, first.Results, second.Results)
	// Only the center resolution hits the provider on the cached path.
	assert.Equal(t, callsAfterFirst+1, len(fake.calls))
	assert.Equal(t, "resolve", fake.calls[len(fake.calls)-1].Method)
}

func TestSearch_RecallPaginationDrainsQueuedTokens(t *testing.T) {
	fake := newFakePlaces(detroit)
	fake.nearbyPages["car_repair"] = pageOf("tok1", place("shop", detroit.Lat+0.01, detroit.Lng))
	fake.textPages[boostQuery()] = pageOf("", place("boosted", detroit.Lat+0.02, detroit.Lng))
	fake.pages["tok1"] = pageOf("", place("page2", detroit.Lat+0.03, detroit.Lng))

	svc := newTestSearchService(t, fake)
	resp, err := svc.Search(context.Background(), detroitRequest(true))
	require.NoError(t, err)

	require.Len(t, fake.callsOf("page"), 1)
	byID := make(map[string]model.Place)
	for _, p := range resp.Results {
		byID[p.PlaceID] = p
	}
	require.Contains(t, byID, "page2")
	assert.Equal(t, []string{"Car Repair"}, byID["page2"].Categories,
		"continuation pages inherit the originating pack label")
	assert.Nil(t, resp.NextPageToken)
}

func TestSearch_NoPaginationWithoutRecall(t *testing.T) {
	fake := newFakePlaces(detroit)
	fake.nearbyPages["car_repair"] = pageOf("tok1", place("shop", detroit.Lat+0.01, detroit.Lng))

	svc := newTestSearchService(t, fake)
	resp, err := svc.Search(context.Background(), detroitRequest(false))
	require.NoError(t, err)

	assert.Empty(t, fake.callsOf("page"))
	require.NotNil(t, resp.NextPageToken)
	assert.Equal(t, "tok1", *resp.NextPageToken, "unconsumed token is exposed for manual paging")
}

func TestDetails_BestEffortPerID(t *testing.T) {
	fake := newFakePlaces(detroit)
	phone := "313-555-0100"
	fake.details["ok"] = &model.PlaceDetails{Phone: &phone}
	fake.detailsErr["broken"] = assert.AnError

	svc := newTestSearchService(t, fake)
	resp := svc.Details(context.Background(), []string{"ok", "broken"})

	require.Len(t, resp.Details, 2)
	assert.Equal(t, &phone, resp.Details["ok"].Phone)
	assert.Nil(t, resp.Details["broken"].Phone, "failed id yields nulls, not an error")
	assert.Nil(t, resp.Details["broken"].Website)
}

func TestDetails_CapsBatchSize(t *testing.T) {
	fake := newFakePlaces(detroit)
	svc := newTestSearchService(t, fake)

	ids := make([]string, 75)
	for i := range ids {
		ids[i] = "id"
	}
	resp := svc.Details(context.Background(), ids)

	assert.Len(t, fake.callsOf("details"), 50)
	assert.Len(t, resp.Details, 1) // all ids identical, one map entry
}
