package service

import (
	"math"
	"strings"
	"unicode"

	"prospectfinder/internal/model"
)

const earthRadiusMeters = 6371000.0

// HaversineMeters computes the great-circle distance between two points on a
// spherical-Earth approximation.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// FilterByRadius keeps only places within radiusMeters of center (inclusive
// boundary). Places without coordinates are dropped: containment cannot be
// verified, and absence is not treated as inside. The radius is floored to
// one meter.
func FilterByRadius(places []model.Place, center GeoPoint, radiusMeters int) []model.Place {
	radius := float64(radiusMeters)
	if radius < 1 {
		radius = 1
	}

	kept := make([]model.Place, 0, len(places))
	for _, p := range places {
		if p.Lat == nil || p.Lng == nil {
			continue
		}
		if HaversineMeters(center.Lat, center.Lng, *p.Lat, *p.Lng) <= radius {
			kept = append(kept, p)
		}
	}
	return kept
}

// genericTypes are tags the provider attaches to nearly everything; a place
// whose type set holds nothing else carries no real categorization signal.
var genericTypes = map[string]bool{
	"point_of_interest": true,
	"establishment":     true,
}

// FilterResidential removes listings judged service-area-only or home-based.
// A pass-through when exclusion is disabled. The authoritative signal is the
// provider's pureServiceAreaBusiness flag; the fallback heuristic requires
// all three weak signals at once (generic-only types, zero/absent reviews,
// residential-looking address) so legitimate businesses are rarely dropped.
func FilterResidential(places []model.Place, exclude bool) []model.Place {
	if !exclude {
		return places
	}

	kept := make([]model.Place, 0, len(places))
	for _, p := range places {
		if p.PureServiceAreaBusiness != nil && *p.PureServiceAreaBusiness {
			continue
		}

		hasConcreteType := false
		for _, t := range p.Types {
			if !genericTypes[t] {
				hasConcreteType = true
				break
			}
		}

		if !hasConcreteType {
			noReviews := p.UserRatingCount == nil || *p.UserRatingCount == 0
			if noReviews && looksResidentialAddress(p.FormattedAddress) {
				continue
			}
		}

		kept = append(kept, p)
	}
	return kept
}

func looksResidentialAddress(addr *string) bool {
	if addr == nil || *addr == "" {
		return false
	}
	a := strings.ToLower(*addr)

	for _, token := range []string{"apt", "apartment", "unit", "suite #", "lot "} {
		if strings.Contains(a, token) {
			return true
		}
	}

	// A single-line address with a street number but no comma is usually a
	// bare house address or a weak POI label.
	if !strings.Contains(a, ",") && strings.ContainsFunc(a, unicode.IsDigit) {
		return true
	}
	return false
}
