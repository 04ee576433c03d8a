package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"prospectfinder/internal/model"
	"prospectfinder/internal/utils"

	"github.com/gin-gonic/gin"
)

var csvHeader = []string{
	"placeId", "name", "street", "city", "state", "zip",
	"lat", "lng", "primaryType", "categories", "types",
	"businessStatus", "googleMapsUri", "pureServiceAreaBusiness",
}

// ExportCSV handles POST /api/v1/search/places/csv. It runs the same search
// as the JSON endpoint and streams the results as a CSV download, with the
// formatted address split into street/city/state/zip columns. An optional
// filterPrimaryTypes query parameter (repeated or comma-separated) narrows
// the rows by primary type.
func (h *SearchHandler) ExportCSV(c *gin.Context) {
	req, ok := h.bindSearchRequest(c)
	if !ok {
		return
	}

	response, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	rows := response.Results
	if allow := parseTypeFilter(c.QueryArray("filterPrimaryTypes")); len(allow) > 0 {
		// Copy, not in-place: the result slice may be shared with the cache.
		filtered := make([]model.Place, 0, len(rows))
		for _, r := range rows {
			if r.PrimaryType != nil && allow[*r.PrimaryType] {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=places_export.csv")
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(csvHeader)
	for _, r := range rows {
		addr := ""
		if r.FormattedAddress != nil {
			addr = *r.FormattedAddress
		}
		parts := utils.ParseAddressParts(addr)

		_ = w.Write([]string{
			r.PlaceID,
			r.Name,
			parts.Street,
			parts.City,
			parts.State,
			parts.Zip,
			floatField(r.Lat),
			floatField(r.Lng),
			strField(r.PrimaryType),
			strings.Join(r.Categories, ";"),
			strings.Join(r.Types, ";"),
			strField(r.BusinessStatus),
			strField(r.GoogleMapsURI),
			boolField(r.PureServiceAreaBusiness),
		})
	}
	w.Flush()
}

// parseTypeFilter accepts repeated query params or comma-separated lists.
func parseTypeFilter(values []string) map[string]bool {
	allow := make(map[string]bool)
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				allow[s] = true
			}
		}
	}
	return allow
}

func strField(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatField(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%g", *f)
}

func boolField(b *bool) string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("%t", *b)
}
