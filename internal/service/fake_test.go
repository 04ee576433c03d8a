package service

import (
	"context"
	"fmt"

	"prospectfinder/internal/model"
)

// providerCall records one provider invocation for assertions.
type providerCall struct {
	Method string // resolve, nearby, text, page, details
	Query  string // text query or page token
	Types  []string
	Max    int
}

// fakePlaces is a scripted PlacesAPI for pipeline tests.
type fakePlaces struct {
	calls []providerCall

	resolved   GeoPoint
	resolveErr error

	nearbyPages map[string]*PageResult // keyed by joined includedTypes
	nearbyErr   error

	textPages map[string]*PageResult // keyed by query
	textErr   error

	pages   map[string]*PageResult // keyed by page token
	pageErr map[string]error

	details    map[string]*model.PlaceDetails
	detailsErr map[string]error
}

func newFakePlaces(center GeoPoint) *fakePlaces {
	return &fakePlaces{
		resolved:    center,
		nearbyPages: make(map[string]*PageResult),
		textPages:   make(map[string]*PageResult),
		pages:       make(map[string]*PageResult),
		pageErr:     make(map[string]error),
		details:     make(map[string]*model.PlaceDetails),
		detailsErr:  make(map[string]error),
	}
}

func (f *fakePlaces) IsEnabled() bool { return true }

func (f *fakePlaces) ResolveCenter(ctx context.Context, center model.Center) (GeoPoint, error) {
	f.calls = append(f.calls, providerCall{Method: "resolve"})
	if f.resolveErr != nil {
		return GeoPoint{}, f.resolveErr
	}
	if center.Lat != nil && center.Lng != nil {
		return GeoPoint{Lat: *center.Lat, Lng: *center.Lng}, nil
	}
	return f.resolved, nil
}

func (f *fakePlaces) SearchNearby(ctx context.Context, center GeoPoint, radiusMeters int, includedTypes []string, maxResults int) (*PageResult, error) {
	key := joinTypes(includedTypes)
	f.calls = append(f.calls, providerCall{Method: "nearby", Query: key, Types: includedTypes, Max: maxResults})
	if f.nearbyErr != nil {
		return nil, f.nearbyErr
	}
	if page, ok := f.nearbyPages[key]; ok {
		return page, nil
	}
	return &PageResult{}, nil
}

func (f *fakePlaces) SearchText(ctx context.Context, query string, center GeoPoint, radiusMeters int, maxResults int) (*PageResult, error) {
	f.calls = append(f.calls, providerCall{Method: "text", Query: query, Max: maxResults})
	if f.textErr != nil {
		return nil, f.textErr
	}
	if page, ok := f.textPages[query]; ok {
		return page, nil
	}
	return &PageResult{}, nil
}

func (f *fakePlaces) FetchNextPage(ctx context.Context, pageToken string) (*PageResult, error) {
	f.calls = append(f.calls, providerCall{Method: "page", Query: pageToken})
	if err, ok := f.pageErr[pageToken]; ok {
		return nil, err
	}
	if page, ok := f.pages[pageToken]; ok {
		return page, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidPageToken, pageToken)
}

func (f *fakePlaces) GetPlaceDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	f.calls = append(f.calls, providerCall{Method: "details", Query: placeID})
	if err, ok := f.detailsErr[placeID]; ok {
		return nil, err
	}
	if d, ok := f.details[placeID]; ok {
		return d, nil
	}
	return &model.PlaceDetails{}, nil
}

// callsOf filters recorded calls by method.
func (f *fakePlaces) callsOf(method string) []providerCall {
	var out []providerCall
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func joinTypes(types []string) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += ","
		}
		out += t
	}
	return out
}

// place builds a minimal test place at the given offset from the origin.
func place(id string, lat, lng float64) model.Place {
	return model.Place{PlaceID: id, Name: "Place " + id, Lat: &lat, Lng: &lng}
}

func pageOf(token string, places ...model.Place) *PageResult {
	return &PageResult{Places: places, NextPageToken: token}
}
