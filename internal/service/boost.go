package service

import (
	"context"
	"fmt"
	"strings"
)

// BoostLabel is the generic fallback label applied to places discovered only
// by the recall boost query. Distinct from every pack label.
const BoostLabel = "TRADITIONAL AUTO"

// autoRecallKeys is the closed set of auto-repair category keys that trigger
// the recall boost.
var autoRecallKeys = map[string]bool{
	"car_repair":       true,
	"auto_traditional": true,
	"quick_lube":       true,
	"tire_shops":       true,
	"auto_glass":       true,
	"body_collision":   true,
}

// autoBoostTerms is the fixed broad keyword list for the auto vertical.
var autoBoostTerms = []string{
	"auto repair",
	"mechanic",
	"brake repair",
	"muffler",
	"transmission repair",
	"oil change",
	"engine repair",
	"tire service",
	"alignment",
}

// Booster issues the single broad recall-boost text search for the auto
// vertical when the category selection touches it.
type Booster struct {
	provider PlacesAPI
	pageSize int
}

// NewBooster creates a new recall booster
func NewBooster(provider PlacesAPI, pageSize int) *Booster {
	return &Booster{provider: provider, pageSize: pageSize}
}

// Applies reports whether the boost should run for the selected keys.
func (b *Booster) Applies(highRecall bool, categoryKeys []string) bool {
	if !highRecall {
		return false
	}
	for _, k := range categoryKeys {
		if autoRecallKeys[k] {
			return true
		}
	}
	return false
}

// Run issues the boost search and merges its page under BoostLabel. The
// returned error is informational: the orchestrator logs it and moves on,
// the boost is additive and must never fail the request.
func (b *Booster) Run(ctx context.Context, merged *mergeSet, queue []TokenRef, center GeoPoint, radiusMeters, maxResults int) ([]TokenRef, error) {
	pageCap := b.pageSize
	if maxResults < pageCap {
		pageCap = maxResults
	}

	page, err := b.provider.SearchText(ctx, strings.Join(autoBoostTerms, " OR "), center, radiusMeters, pageCap)
	if err != nil {
		return queue, fmt.Errorf("recall boost search: %w", err)
	}

	merged.addPage(page, BoostLabel)
	if page.NextPageToken != "" {
		queue = append(queue, TokenRef{Token: page.NextPageToken, Label: BoostLabel})
	}
	return queue, nil
}
