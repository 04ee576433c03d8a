package model

// CategoryPack is one entry of the category taxonomy: a curated bundle of
// provider type filters and/or text-search keywords for one business vertical.
// Packs are loaded from data/categories.json and are read-only per request.
type CategoryPack struct {
	Key           string   `json:"key"`
	Label         string   `json:"label"`
	IncludedTypes []string `json:"includedTypes,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	Strategy      string   `json:"strategy,omitempty"` // optional hint: nearby | text | hybrid
}
