package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
	"github.com/yungbote/clinicshare-backend/internal/services"
)

type CatalogHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		log:            log.With("handler", "CatalogHandler"),
		catalogService: catalogService,
	}
}

// GetCatalog serves the denormalized catalog payload. ?refresh=1 bypasses
// the cache and rebuilds from the database.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	force := c.Query("refresh") == "1" || c.Query("refresh") == "true"
	payload, err := h.catalogService.GetCatalog(c.Request.Context(), force)
	if err != nil {
		h.log.Error("GetCatalog failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_catalog_failed", err)
		return
	}
	RespondOK(c, payload)
}
