package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cardbox/core/internal/infrastructure/logger"
	"github.com/cardbox/core/internal/ports"
)

// MetadataHandler handles external metadata lookups for Collection cards
type MetadataHandler struct {
	client ports.MetadataClient
	logger *logger.Logger
}

// NewMetadataHandler creates a new metadata handler
func NewMetadataHandler(client ports.MetadataClient, logger *logger.Logger) *MetadataHandler {
	return &MetadataHandler{
		client: client,
		logger: logger,
	}
}

// Search proxies a movie search to the metadata provider. Provider failures
// surface as a recoverable error, never a crash.
func (h *MetadataHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query parameter q is required")
	}

	results, err := h.client.Search(c.Request().Context(), query)
	if err != nil {
		h.logger.Error("Metadata search failed", "error", err, "query", query)
		return echo.NewHTTPError(http.StatusBadGateway, "Metadata lookup failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}
