package service

import (
	"context"
	"fmt"
	"strings"

	"prospectfinder/internal/model"
)

// TokenRef pairs an upstream continuation token with the category label that
// produced it, so later pages tag their places the same way. A token is
// consumed at most once; a successful fetch may replace it with the next
// token in its chain.
type TokenRef struct {
	Token string
	Label string
}

// mergeSet accumulates places keyed by place id, preserving first-discovered
// order. The first-seen record wins for every field except Categories, which
// collects the label of each contributing call.
type mergeSet struct {
	byID  map[string]*model.Place
	order []string
}

func newMergeSet() *mergeSet {
	return &mergeSet{byID: make(map[string]*model.Place)}
}

// add merges one provider result under the given label.
func (m *mergeSet) add(p model.Place, label string) {
	if p.PlaceID == "" {
		return
	}
	if existing, ok := m.byID[p.PlaceID]; ok {
		existing.AddCategory(label)
		return
	}
	p.Categories = nil
	p.AddCategory(label)
	m.byID[p.PlaceID] = &p
	m.order = append(m.order, p.PlaceID)
}

// addPage merges a whole provider page under one label.
func (m *mergeSet) addPage(page *PageResult, label string) {
	for _, p := range page.Places {
		m.add(p, label)
	}
}

func (m *mergeSet) len() int {
	return len(m.byID)
}

// places returns the merged records in first-discovered order.
func (m *mergeSet) places() []model.Place {
	out := make([]model.Place, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.byID[id])
	}
	return out
}

// Aggregator issues the provider calls each category pack's strategy implies
// and merges the pages into one identity-keyed set.
type Aggregator struct {
	provider PlacesAPI
	pageSize int // provider per-page ceiling
}

// NewAggregator creates a new aggregation engine
func NewAggregator(provider PlacesAPI, pageSize int) *Aggregator {
	return &Aggregator{provider: provider, pageSize: pageSize}
}

// Run executes every pack's searches in the order given. Packs with included
// types get a proximity search, packs with keywords get an OR-joined text
// search; a pack with both gets both. Continuation tokens are queued with
// the pack's label. Any failure aborts: primary category searches are not
// best-effort.
func (a *Aggregator) Run(ctx context.Context, center GeoPoint, radiusMeters int, packs []model.CategoryPack, maxResults int) (*mergeSet, []TokenRef, error) {
	merged := newMergeSet()
	var queue []TokenRef

	pageCap := a.pageSize
	if maxResults < pageCap {
		pageCap = maxResults
	}

	for _, pack := range packs {
		if len(pack.IncludedTypes) > 0 {
			page, err := a.provider.SearchNearby(ctx, center, radiusMeters, pack.IncludedTypes, pageCap)
			if err != nil {
				return nil, nil, fmt.Errorf("category %q nearby search: %w", pack.Key, err)
			}
			merged.addPage(page, pack.Label)
			if page.NextPageToken != "" {
				queue = append(queue, TokenRef{Token: page.NextPageToken, Label: pack.Label})
			}
		}

		if len(pack.Keywords) > 0 {
			query := strings.Join(pack.Keywords, " OR ")
			page, err := a.provider.SearchText(ctx, query, center, radiusMeters, pageCap)
			if err != nil {
				return nil, nil, fmt.Errorf("category %q text search: %w", pack.Key, err)
			}
			merged.addPage(page, pack.Label)
			if page.NextPageToken != "" {
				queue = append(queue, TokenRef{Token: page.NextPageToken, Label: pack.Label})
			}
		}
	}

	return merged, queue, nil
}
