package model

// Center is the search center: either free-form text ("Detroit, MI") or
// explicit coordinates. Exactly one form must be supplied.
type Center struct {
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
	Text *string  `json:"text,omitempty"`
}

// SearchRequest represents a places search request
type SearchRequest struct {
	Center Center `json:"center" binding:"required"`

	RadiusMeters int `json:"radiusMeters" binding:"required,min=1,max=50000"`

	// Categories are category pack keys, processed in the order given.
	Categories []string `json:"categories"`

	// ExcludeServiceAreaOnly drops service-area-only / probable home-based
	// listings. Defaults to true when the field is omitted.
	ExcludeServiceAreaOnly *bool `json:"excludeServiceAreaOnly,omitempty"`

	// MaxResults caps the merged result set. Defaults to 60.
	MaxResults *int `json:"maxResults,omitempty" binding:"omitempty,min=1,max=500"`

	// HighRecall enables the recall boost query and deeper round-robin
	// pagination. Defaults to true when the field is omitted.
	HighRecall *bool `json:"highRecall,omitempty"`
}

// ExcludeResidential returns the effective exclusion flag (default on).
func (r *SearchRequest) ExcludeResidential() bool {
	return r.ExcludeServiceAreaOnly == nil || *r.ExcludeServiceAreaOnly
}

// Recall returns the effective high-recall flag (default on).
func (r *SearchRequest) Recall() bool {
	return r.HighRecall == nil || *r.HighRecall
}

// SearchResponse represents a places search response
type SearchResponse struct {
	Results []Place `json:"results"`

	// NextPageToken is the first still-unconsumed upstream token, exposed so
	// a client can drive one more page manually via the next-page endpoint.
	NextPageToken *string `json:"nextPageToken,omitempty"`

	CenterLat *float64 `json:"centerLat,omitempty"`
	CenterLng *float64 `json:"centerLng,omitempty"`

	// SearchID identifies this search in the search log (when logging is
	// enabled) and is echoed back by the feedback endpoint.
	SearchID string `json:"searchId,omitempty"`

	Took int64 `json:"took_ms"`
}

// DetailsRequest represents a batch place-details enrichment request
type DetailsRequest struct {
	PlaceIDs []string `json:"placeIds" binding:"required,min=1"`
}

// DetailsResponse maps each requested place id to its enrichment fields.
// A per-id lookup failure yields a present entry with null fields.
type DetailsResponse struct {
	Details map[string]PlaceDetails `json:"details"`
}

// FeedbackRequest represents a user action on a returned prospect
type FeedbackRequest struct {
	SearchID string `json:"search_id" binding:"required"`
	PlaceID  string `json:"place_id" binding:"required"`
	Action   string `json:"action" binding:"required"` // click, contact, export
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
