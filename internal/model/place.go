package model

// Place represents a single business listing returned by the places provider.
// Optional provider fields are pointers; absence is meaningful (e.g. a place
// without coordinates cannot be radius-checked).
type Place struct {
	PlaceID                 string   `json:"placeId"`
	Name                    string   `json:"name"`
	FormattedAddress        *string  `json:"formattedAddress,omitempty"`
	Lat                     *float64 `json:"lat,omitempty"`
	Lng                     *float64 `json:"lng,omitempty"`
	PrimaryType             *string  `json:"primaryType,omitempty"`
	Types                   []string `json:"types,omitempty"`
	BusinessStatus          *string  `json:"businessStatus,omitempty"`
	Rating                  *float64 `json:"rating,omitempty"`
	UserRatingCount         *int     `json:"userRatingCount,omitempty"`
	GoogleMapsURI           *string  `json:"googleMapsUri,omitempty"`
	PureServiceAreaBusiness *bool    `json:"pureServiceAreaBusiness,omitempty"`

	// Categories accumulates the labels of every category pack (or the
	// recall boost) that matched this place, in first-seen order, no
	// duplicates. It is the only field mutated after first sight.
	Categories []string `json:"categories"`
}

// AddCategory appends label to the place's category list unless already present.
func (p *Place) AddCategory(label string) {
	if label == "" {
		return
	}
	for _, c := range p.Categories {
		if c == label {
			return
		}
	}
	p.Categories = append(p.Categories, label)
}

// PlaceDetails holds the enrichment fields fetched per place id.
type PlaceDetails struct {
	Phone   *string `json:"phone"`
	Website *string `json:"website"`
}
