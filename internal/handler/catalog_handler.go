package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fee-tracker-console/internal/models"
	"github.com/noah-isme/fee-tracker-console/pkg/response"
)

// CatalogHandler serves the fixed grades, terms and activity options.
type CatalogHandler struct {
	catalog models.Catalog
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog models.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Get godoc
// @Summary Console catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	labels := make([]string, 0, len(h.catalog.Activities))
	for _, a := range h.catalog.Activities {
		labels = append(labels, a.Label())
	}
	response.JSON(c, http.StatusOK, h.catalog, map[string]interface{}{"activity_labels": labels})
}
