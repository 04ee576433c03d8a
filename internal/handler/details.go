package handler

import (
	"net/http"

	"prospectfinder/internal/model"
	"prospectfinder/internal/service"

	"github.com/gin-gonic/gin"
)

// DetailsHandler handles place-details enrichment requests
type DetailsHandler struct {
	searchService *service.SearchService
}

// NewDetailsHandler creates a new details handler
func NewDetailsHandler(searchService *service.SearchService) *DetailsHandler {
	return &DetailsHandler{searchService: searchService}
}

// Batch handles POST /api/v1/places/details. Lookups are best-effort per id:
// a failed id comes back with null phone/website rather than failing the
// batch.
func (h *DetailsHandler) Batch(c *gin.Context) {
	var req model.DetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "placeIds array required: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.searchService.Details(c.Request.Context(), req.PlaceIDs))
}
