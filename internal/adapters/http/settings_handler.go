package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cardbox/core/internal/application/services"
	"github.com/cardbox/core/internal/infrastructure/logger"
	"github.com/cardbox/core/internal/ports"
)

// SettingsHandler handles the settings blob
type SettingsHandler struct {
	settingsService *services.SettingsService
	logger          *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetSettings returns the stored settings, with defaults applied
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	settings, err := h.settingsService.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("Get settings failed", "error", err)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces the stored settings blob
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var req ports.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	settings, err := h.settingsService.Update(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Update settings failed", "error", err)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, settings)
}
