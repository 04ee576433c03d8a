package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"prospectfinder/internal/config"
	"prospectfinder/internal/model"
)

// searchFieldMask keeps provider payloads down to the fields the pipeline
// actually consumes (plus pureServiceAreaBusiness for the residential filter).
const searchFieldMask = "places.id," +
	"places.displayName," +
	"places.formattedAddress," +
	"places.location," +
	"places.types," +
	"places.primaryType," +
	"places.businessStatus," +
	"places.googleMapsUri," +
	"places.rating," +
	"places.userRatingCount," +
	"places.pureServiceAreaBusiness," +
	"nextPageToken"

// detailsFieldMask is the dedicated mask for the details endpoint.
const detailsFieldMask = "id,nationalPhoneNumber,internationalPhoneNumber,websiteUri"

// PlacesClient talks to the Places API (v1) over HTTP.
type PlacesClient struct {
	config     *config.PlacesConfig
	httpClient *http.Client
}

// NewPlacesClient creates a new places provider client
func NewPlacesClient(cfg *config.PlacesConfig) *PlacesClient {
	return &PlacesClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *PlacesClient) IsEnabled() bool {
	return c.config.Enabled
}

// apiStatusError is a non-2xx provider response. fetchNextPage uses the
// distinction between this and transport errors for its endpoint fallback.
type apiStatusError struct {
	StatusCode int
	Body       string
}

func (e *apiStatusError) Error() string {
	return fmt.Sprintf("places API error %d: %s", e.StatusCode, e.Body)
}

// Wire types (Places API v1)

type apiLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type apiLocalizedText struct {
	Text string `json:"text"`
}

type apiPlace struct {
	ID                      string            `json:"id"`
	DisplayName             *apiLocalizedText `json:"displayName,omitempty"`
	FormattedAddress        *string           `json:"formattedAddress,omitempty"`
	Location                *apiLatLng        `json:"location,omitempty"`
	Types                   []string          `json:"types,omitempty"`
	PrimaryType             *string           `json:"primaryType,omitempty"`
	BusinessStatus          *string           `json:"businessStatus,omitempty"`
	Rating                  *float64          `json:"rating,omitempty"`
	UserRatingCount         *int              `json:"userRatingCount,omitempty"`
	GoogleMapsURI           *string           `json:"googleMapsUri,omitempty"`
	PureServiceAreaBusiness *bool             `json:"pureServiceAreaBusiness,omitempty"`
}

type apiSearchResponse struct {
	Places        []apiPlace `json:"places"`
	NextPageToken string     `json:"nextPageToken"`
}

type apiCircle struct {
	Center apiLatLng `json:"center"`
	Radius float64   `json:"radius"`
}

type apiCircleRegion struct {
	Circle apiCircle `json:"circle"`
}

type apiNearbyRequest struct {
	IncludedTypes       []string        `json:"includedTypes"`
	MaxResultCount      int             `json:"maxResultCount"`
	LocationRestriction apiCircleRegion `json:"locationRestriction"`
}

type apiTextRequest struct {
	TextQuery      string           `json:"textQuery"`
	MaxResultCount int              `json:"maxResultCount,omitempty"`
	LocationBias   *apiCircleRegion `json:"locationBias,omitempty"`
}

type apiPageRequest struct {
	PageToken string `json:"pageToken"`
}

type apiDetailsResponse struct {
	ID                       string  `json:"id"`
	NationalPhoneNumber      *string `json:"nationalPhoneNumber,omitempty"`
	InternationalPhoneNumber *string `json:"internationalPhoneNumber,omitempty"`
	WebsiteURI               *string `json:"websiteUri,omitempty"`
}

func mapPlace(p apiPlace) model.Place {
	out := model.Place{
		PlaceID:                 p.ID,
		FormattedAddress:        p.FormattedAddress,
		Types:                   p.Types,
		PrimaryType:             p.PrimaryType,
		BusinessStatus:          p.BusinessStatus,
		Rating:                  p.Rating,
		UserRatingCount:         p.UserRatingCount,
		GoogleMapsURI:           p.GoogleMapsURI,
		PureServiceAreaBusiness: p.PureServiceAreaBusiness,
	}
	if p.DisplayName != nil {
		out.Name = p.DisplayName.Text
	}
	if p.Location != nil {
		lat, lng := p.Location.Latitude, p.Location.Longitude
		out.Lat = &lat
		out.Lng = &lng
	}
	return out
}

func mapSearchResponse(resp *apiSearchResponse) *PageResult {
	results := make([]model.Place, 0, len(resp.Places))
	for _, p := range resp.Places {
		results = append(results, mapPlace(p))
	}
	return &PageResult{Places: results, NextPageToken: resp.NextPageToken}
}

// post sends a field-masked POST to one of the places:search* paths.
func (c *PlacesClient) post(ctx context.Context, path string, body any, out any) error {
	if !c.config.Enabled {
		return fmt.Errorf("places API is not enabled (missing API key)")
	}

	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.APIBase, path)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.config.APIKey)
	httpReq.Header.Set("X-Goog-FieldMask", searchFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &apiStatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// ResolveCenter resolves a center to coordinates. Text centers go through a
// single-result text search; coordinate centers pass through unchanged.
func (c *PlacesClient) ResolveCenter(ctx context.Context, center model.Center) (GeoPoint, error) {
	if center.Text != nil && *center.Text != "" {
		return c.resolveCenterText(ctx, *center.Text)
	}
	if center.Lat == nil || center.Lng == nil {
		return GeoPoint{}, fmt.Errorf("%w: center requires text or lat/lng", ErrUnresolvableCenter)
	}
	return GeoPoint{Lat: *center.Lat, Lng: *center.Lng}, nil
}

func (c *PlacesClient) resolveCenterText(ctx context.Context, text string) (GeoPoint, error) {
	var resp apiSearchResponse
	err := c.post(ctx, "places:searchText", apiTextRequest{TextQuery: text, MaxResultCount: 1}, &resp)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: %v", ErrUnresolvableCenter, err)
	}
	if len(resp.Places) == 0 || resp.Places[0].Location == nil {
		return GeoPoint{}, fmt.Errorf("%w: no match for %q", ErrUnresolvableCenter, text)
	}
	loc := resp.Places[0].Location
	return GeoPoint{Lat: loc.Latitude, Lng: loc.Longitude}, nil
}

// SearchNearby runs a type-filtered proximity search
func (c *PlacesClient) SearchNearby(ctx context.Context, center GeoPoint, radiusMeters int, includedTypes []string, maxResults int) (*PageResult, error) {
	req := apiNearbyRequest{
		IncludedTypes:  includedTypes,
		MaxResultCount: maxResults,
		LocationRestriction: apiCircleRegion{Circle: apiCircle{
			Center: apiLatLng{Latitude: center.Lat, Longitude: center.Lng},
			Radius: float64(radiusMeters),
		}},
	}
	var resp apiSearchResponse
	if err := c.post(ctx, "places:searchNearby", req, &resp); err != nil {
		return nil, fmt.Errorf("nearby search failed: %w", err)
	}
	return mapSearchResponse(&resp), nil
}

// SearchText runs a keyword text search biased to center/radius
func (c *PlacesClient) SearchText(ctx context.Context, query string, center GeoPoint, radiusMeters int, maxResults int) (*PageResult, error) {
	req := apiTextRequest{
		TextQuery:      query,
		MaxResultCount: maxResults,
		LocationBias: &apiCircleRegion{Circle: apiCircle{
			Center: apiLatLng{Latitude: center.Lat, Longitude: center.Lng},
			Radius: float64(radiusMeters),
		}},
	}
	var resp apiSearchResponse
	if err := c.post(ctx, "places:searchText", req, &resp); err != nil {
		return nil, fmt.Errorf("text search failed: %w", err)
	}
	return mapSearchResponse(&resp), nil
}

// FetchNextPage fetches a continuation page. The provider issues the same
// token shape for nearby and text searches, so there is no way to tell which
// endpoint minted it; try text first, then nearby (original fallback kept).
func (c *PlacesClient) FetchNextPage(ctx context.Context, pageToken string) (*PageResult, error) {
	var lastErr error
	for _, path := range []string{"places:searchText", "places:searchNearby"} {
		var resp apiSearchResponse
		err := c.post(ctx, path, apiPageRequest{PageToken: pageToken}, &resp)
		if err == nil {
			return mapSearchResponse(&resp), nil
		}
		lastErr = err
		var statusErr *apiStatusError
		if !errors.As(err, &statusErr) {
			// Transport failure, not a token rejection; no point retrying
			// the other endpoint with the same dead connection.
			return nil, fmt.Errorf("next page fetch failed: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidPageToken, lastErr)
}

// GetPlaceDetails fetches phone/website enrichment for a single place.
func (c *PlacesClient) GetPlaceDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	if !c.config.Enabled {
		return nil, fmt.Errorf("places API is not enabled (missing API key)")
	}

	url := fmt.Sprintf("%s/places/%s", c.config.APIBase, placeID)
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("X-Goog-Api-Key", c.config.APIKey)
	httpReq.Header.Set("X-Goog-FieldMask", detailsFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &apiStatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var details apiDetailsResponse
	if err := json.Unmarshal(respBody, &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out := &model.PlaceDetails{Website: details.WebsiteURI}
	if details.NationalPhoneNumber != nil {
		out.Phone = details.NationalPhoneNumber
	} else {
		out.Phone = details.InternationalPhoneNumber
	}
	return out, nil
}
