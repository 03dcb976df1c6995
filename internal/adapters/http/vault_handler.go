package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cardbox/core/internal/application/services"
	"github.com/cardbox/core/internal/infrastructure/logger"
	"github.com/cardbox/core/internal/ports"
)

// VaultHandler handles the password-card gate
type VaultHandler struct {
	vaultService *services.VaultService
	logger       *logger.Logger
}

// NewVaultHandler creates a new vault handler
func NewVaultHandler(vaultService *services.VaultService, logger *logger.Logger) *VaultHandler {
	return &VaultHandler{
		vaultService: vaultService,
		logger:       logger,
	}
}

// Status reports whether the vault PIN is configured
func (h *VaultHandler) Status(c echo.Context) error {
	status, err := h.vaultService.Status(c.Request().Context())
	if err != nil {
		h.logger.Error("Vault status failed", "error", err)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, status)
}

// Unlock verifies the PIN and issues a short-lived vault token
func (h *VaultHandler) Unlock(c echo.Context) error {
	var req ports.UnlockVaultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.vaultService.Unlock(c.Request().Context(), req)
	if err != nil {
		h.logger.LogVaultEvent("unlock_failed", c.RealIP(), map[string]interface{}{
			"error": err.Error(),
		})
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, response)
}

// SetPIN sets or rotates the vault PIN
func (h *VaultHandler) SetPIN(c echo.Context) error {
	var req ports.SetPINRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.vaultService.SetPIN(c.Request().Context(), req); err != nil {
		h.logger.LogVaultEvent("set_pin_failed", c.RealIP(), map[string]interface{}{
			"error": err.Error(),
		})
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "PIN updated"})
}
