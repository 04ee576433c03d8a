package service

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Paginator drains queued continuation tokens round-robin until the result
// budget is met or every chain is exhausted.
type Paginator struct {
	provider PlacesAPI
}

// NewPaginator creates a new pagination scheduler
func NewPaginator(provider PlacesAPI) *Paginator {
	return &Paginator{provider: provider}
}

// Run pulls additional pages for the queued (token, label) pairs. Each round
// consumes the head token; on success its places merge under the originating
// label and a fresh token, if the provider issued one, re-enters at the tail,
// which is what rotates fetching across chains instead of draining one to
// exhaustion. A failed fetch discards that token and the loop continues.
//
// Termination: every round removes the head for good; a chain re-enters the
// queue only when the provider minted a new token, so total rounds are
// bounded by the total pages available across all chains.
//
// Returns the leftover queue (tokens still unconsumed when the budget hit).
func (pg *Paginator) Run(ctx context.Context, merged *mergeSet, queue []TokenRef, maxResults int) []TokenRef {
	for merged.len() < maxResults && len(queue) > 0 {
		head := queue[0]
		queue = queue[1:]

		page, err := pg.provider.FetchNextPage(ctx, head.Token)
		if err != nil {
			log.Printf("Dropping pagination token for %q: %v", head.Label, err)
			continue
		}

		merged.addPage(page, head.Label)
		if page.NextPageToken != "" {
			queue = append(queue, TokenRef{Token: page.NextPageToken, Label: head.Label})
		}
	}
	return queue
}
