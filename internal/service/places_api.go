package service

import (
	"context"
	"errors"

	"prospectfinder/internal/model"
)

// Sentinel errors surfaced to the HTTP layer as request errors. Transient
// provider failures are plain wrapped errors and map to a gateway error.
var (
	ErrUnresolvableCenter = errors.New("unable to resolve center to a location")
	ErrInvalidPageToken   = errors.New("invalid or expired nextPageToken")
	ErrUnknownCategory    = errors.New("unknown category pack")
)

// PageResult is one page of provider results plus the token for the next one.
type PageResult struct {
	Places        []model.Place
	NextPageToken string
}

// GeoPoint is a resolved latitude/longitude pair.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// PlacesAPI is the interface for the external place-search provider.
type PlacesAPI interface {
	// ResolveCenter turns a text or coordinate center into coordinates.
	ResolveCenter(ctx context.Context, center model.Center) (GeoPoint, error)

	// SearchNearby runs a type-filtered proximity search around center.
	SearchNearby(ctx context.Context, center GeoPoint, radiusMeters int, includedTypes []string, maxResults int) (*PageResult, error)

	// SearchText runs a keyword text search biased to center/radius.
	SearchText(ctx context.Context, query string, center GeoPoint, radiusMeters int, maxResults int) (*PageResult, error)

	// FetchNextPage fetches the continuation page for a prior search.
	FetchNextPage(ctx context.Context, pageToken string) (*PageResult, error)

	// GetPlaceDetails fetches phone/website enrichment for one place id.
	GetPlaceDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error)

	// IsEnabled returns whether the provider client is configured and ready
	IsEnabled() bool
}

// Ensure PlacesClient implements PlacesAPI
var _ PlacesAPI = (*PlacesClient)(nil)
