package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cardbox/core/internal/domain/entities"
)

// MessageResponse is a simple message wrapper for status responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// VaultUnlockedKey marks a request that carried a valid vault token. The
// server middleware sets it; handlers read it through isVaultUnlocked.
const VaultUnlockedKey = "vault_unlocked"

// isVaultUnlocked reports whether the vault middleware validated a token on
// this request.
func isVaultUnlocked(c echo.Context) bool {
	unlocked, _ := c.Get(VaultUnlockedKey).(bool)
	return unlocked
}

// domainHTTPError maps domain errors to HTTP errors; read failures degrade to
// not-found responses rather than surfacing internals.
func domainHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, entities.ErrCardNotFound),
		errors.Is(err, entities.ErrFolderNotFound),
		errors.Is(err, entities.ErrDraftNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrInvalidCardType),
		errors.Is(err, entities.ErrInvalidCardVariant),
		errors.Is(err, entities.ErrParentNotFolder),
		errors.Is(err, entities.ErrFolderCycle),
		errors.Is(err, entities.ErrContentTypeMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrTypeImmutable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrInvalidPIN),
		errors.Is(err, entities.ErrVaultLocked):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, entities.ErrPINNotConfigured):
		return echo.NewHTTPError(http.StatusPreconditionFailed, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
