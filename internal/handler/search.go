package handler

import (
	"errors"
	"net/http"

	"prospectfinder/internal/model"
	"prospectfinder/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
	minRadius     int
	maxRadius     int
	maxResultsCap int
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService, minRadius, maxRadius, maxResultsCap int) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		minRadius:     minRadius,
		maxRadius:     maxRadius,
		maxResultsCap: maxResultsCap,
	}
}

// bindSearchRequest binds and validates the shared search request body.
func (h *SearchHandler) bindSearchRequest(c *gin.Context) (*model.SearchRequest, bool) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return nil, false
	}

	hasText := req.Center.Text != nil && *req.Center.Text != ""
	hasCoords := req.Center.Lat != nil && req.Center.Lng != nil
	if hasText == hasCoords {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid center: provide either text or lat/lng"})
		return nil, false
	}

	if req.RadiusMeters < h.minRadius || req.RadiusMeters > h.maxRadius {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "radiusMeters out of bounds",
			"min":   h.minRadius,
			"max":   h.maxRadius,
		})
		return nil, false
	}

	if req.MaxResults != nil && *req.MaxResults > h.maxResultsCap {
		capped := h.maxResultsCap
		req.MaxResults = &capped
	}

	return &req, true
}

// Search handles POST /api/v1/search/places
func (h *SearchHandler) Search(c *gin.Context) {
	req, ok := h.bindSearchRequest(c)
	if !ok {
		return
	}

	response, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// NextPage handles GET /api/v1/search/places/next. The page is returned raw:
// no merging, no filtering, no cache; the client applies its own filters.
func (h *SearchHandler) NextPage(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token query parameter required"})
		return
	}

	page, err := h.searchService.NextPage(c.Request.Context(), token)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	var next *string
	if page.NextPageToken != "" {
		next = &page.NextPageToken
	}
	c.JSON(http.StatusOK, model.SearchResponse{Results: page.Places, NextPageToken: next})
}

// Categories handles GET /api/v1/categories
func (h *SearchHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.searchService.Categories())
}

// statusForError maps pipeline errors to HTTP statuses: request errors are
// 400, anything else is treated as an upstream provider failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrUnresolvableCenter),
		errors.Is(err, service.ErrInvalidPageToken):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
