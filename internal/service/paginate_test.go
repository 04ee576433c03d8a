package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginator_RoundRobinAcrossChains(t *testing.T) {
	fake := newFakePlaces(detroit)
	// Two chains of two pages each.
	fake.pages["a1"] = pageOf("a2", place("pa1", 42.33, -83.04))
	fake.pages["a2"] = pageOf("", place("pa2", 42.34, -83.05))
	fake.pages["b1"] = pageOf("b2", place("pb1", 42.32, -83.03))
	fake.pages["b2"] = pageOf("", place("pb2", 42.31, -83.02))

	merged := newMergeSet()
	pg := NewPaginator(fake)
	leftover := pg.Run(context.Background(), merged, []TokenRef{
		{Token: "a1", Label: "A"},
		{Token: "b1", Label: "B"},
	}, 60)

	assert.Empty(t, leftover)
	assert.Equal(t, 4, merged.len())

	// Chains alternate: a1, b1, a2, b2 - not a1, a2, b1, b2.
	var order []string
	for _, c := range fake.callsOf("page") {
		order = append(order, c.Query)
	}
	assert.Equal(t, []string{"a1", "b1", "a2", "b2"}, order)

	// Pages tag their places with the originating label.
	for _, p := range merged.places() {
		if p.PlaceID == "pa1" || p.PlaceID == "pa2" {
			assert.Equal(t, []string{"A"}, p.Categories)
		} else {
			assert.Equal(t, []string{"B"}, p.Categories)
		}
	}
}

func TestPaginator_StopsAtBudget(t *testing.T) {
	fake := newFakePlaces(detroit)
	fake.pages["a1"] = pageOf("a2", place("p1", 42.33, -83.04), place("p2", 42.34, -83.05))
	fake.pages["a2"] = pageOf("a3", place("p3", 42.32, -83.03))

	merged := newMergeSet()
	pg := NewPaginator(fake)
	leftover := pg.Run(context.Background(), merged, []TokenRef{{Token: "a1", Label: "A"}}, 2)

	// Budget met after the first page; its follow-up token is left unconsumed.
	require.Len(t, fake.callsOf("page"), 1)
	assert.Equal(t, 2, merged.len())
	assert.Equal(t, []TokenRef{{Token: "a2", Label: "A"}}, leftover)
}

func TestPaginator_DropsFailedTokenAndContinues(t *testing.T) {
	fake := newFakePlaces(detroit)
	fake.pageErr["bad"] = assert.AnError
	fake.pages["good"] = pageOf("", place("p1", 42.33, -83.04))

	merged := newMergeSet()
	pg := NewPaginator(fake)
	leftover := pg.Run(context.Background(), merged, []TokenRef{
		{Token: "bad", Label: "A"},
		{Token: "good", Label: "B"},
	}, 60)

	assert.Empty(t, leftover)
	assert.Equal(t, 1, merged.len())
	require.Len(t, fake.callsOf("page"), 2)
}

func TestPaginator_TerminatesWithinTotalPageBound(t *testing.T) {
	fake := newFakePlaces(detroit)
	// One chain of three pages; total pages = 3 bounds the iterations.
	fake.pages["t1"] = pageOf("t2", place("p1", 42.33, -83.04))
	fake.pages["t2"] = pageOf("t3", place("p2", 42.34, -83.05))
	fake.pages["t3"] = pageOf("", place("p3", 42.32, -83.03))

	merged := newMergeSet()
	pg := NewPaginator(fake)
	leftover := pg.Run(context.Background(), merged, []TokenRef{{Token: "t1", Label: "A"}}, 60)

	assert.Empty(t, leftover)
	assert.Len(t, fake.callsOf("page"), 3)
}
