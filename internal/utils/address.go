package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// AddressParts is a heuristic street/city/state/zip split of a formatted
// address, used by the CSV export.
type AddressParts struct {
	Street string
	City   string
	State  string
	Zip    string
}

var stateZipRe = regexp.MustCompile(`(?i)([A-Z]{2})\s*,?\s*(\d{5})(?:-\d{4})?`)

// ParseAddressParts splits a US-centric formatted address into parts. A
// trailing country segment ("USA", "United States") is dropped. Best-effort:
// anything unparseable lands in Street.
func ParseAddressParts(addr string) AddressParts {
	var out AddressParts
	if addr == "" {
		return out
	}

	var parts []string
	for _, p := range strings.Split(addr, ",") {
		if t := strings.TrimSpace(p); t != "" {
			parts = append(parts, t)
		}
	}

	if len(parts) >= 2 {
		last := parts[len(parts)-1]
		upper := strings.ToUpper(last)
		if upper == "USA" || upper == "US" || upper == "UNITED STATES" || (isAlpha(last) && len(last) > 2) {
			parts = parts[:len(parts)-1]
		}
	}

	if len(parts) < 3 {
		out.Street = addr
		return out
	}

	out.Street = strings.Join(parts[:len(parts)-2], ", ")
	out.City = parts[len(parts)-2]

	last := parts[len(parts)-1]
	if m := stateZipRe.FindStringSubmatch(last); m != nil {
		out.State = strings.ToUpper(m[1])
		out.Zip = m[2]
	} else {
		segs := strings.Fields(last)
		if len(segs) >= 2 {
			out.State = strings.ToUpper(segs[0])
			out.Zip = segs[1]
		} else {
			out.State = strings.ToUpper(last)
		}
	}
	return out
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}
