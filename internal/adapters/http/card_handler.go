package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cardbox/core/internal/application/services"
	"github.com/cardbox/core/internal/infrastructure/logger"
	"github.com/cardbox/core/internal/ports"
)

// CardHandler handles card-related requests
type CardHandler struct {
	cardService  *services.CardService
	draftService *services.DraftService
	logger       *logger.Logger
}

// NewCardHandler creates a new card handler
func NewCardHandler(cardService *services.CardService, draftService *services.DraftService, logger *logger.Logger) *CardHandler {
	return &CardHandler{
		cardService:  cardService,
		draftService: draftService,
		logger:       logger,
	}
}

// ListCards handles card listing with filters
func (h *CardHandler) ListCards(c echo.Context) error {
	var req ports.ListCardsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.cardService.ListCards(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("List cards failed", "error", err)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, response)
}

// CreateCard handles card creation
func (h *CardHandler) CreateCard(c echo.Context) error {
	var req ports.CreateCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	card, err := h.cardService.CreateCard(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create card failed", "error", err)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusCreated, card)
}

// GetCard handles fetching a card by ID. Password content is revealed only
// when the request carries a valid vault token.
func (h *CardHandler) GetCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid card ID")
	}

	card, err := h.cardService.GetCard(c.Request().Context(), id, isVaultUnlocked(c))
	if err != nil {
		h.logger.Error("Get card failed", "error", err, "card_id", id)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, card)
}

// UpdateCard handles partial card updates
func (h *CardHandler) UpdateCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid card ID")
	}

	var req ports.UpdateCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	card, err := h.cardService.UpdateCard(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Error("Update card failed", "error", err, "card_id", id)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, card)
}

// DeleteCard handles card deletion
func (h *CardHandler) DeleteCard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid card ID")
	}

	if err := h.cardService.DeleteCard(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete card failed", "error", err, "card_id", id)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Card deleted"})
}

// GetPreview handles the type-aware list projection of a card
func (h *CardHandler) GetPreview(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid card ID")
	}

	preview, err := h.cardService.GetPreview(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("Get preview failed", "error", err, "card_id", id)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, preview)
}

// BeginEdit opens an edit session for a card
func (h *CardHandler) BeginEdit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid card ID")
	}

	draft, err := h.draftService.BeginEdit(c.Request().Context(), id, isVaultUnlocked(c))
	if err != nil {
		h.logger.Error("Begin edit failed", "error", err, "card_id", id)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"state": services.StateEditing,
		"draft": draft,
	})
}

// SaveDraft commits an edit session
func (h *CardHandler) SaveDraft(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid card ID")
	}

	var req ports.UpdateCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	card, err := h.draftService.SaveDraft(c.Request().Context(), id, req)
	if err != nil {
		h.logger.Error("Save draft failed", "error", err, "card_id", id)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"state": services.StateViewing,
		"card":  card,
	})
}

// CancelEdit discards an edit session
func (h *CardHandler) CancelEdit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid card ID")
	}

	card, err := h.draftService.CancelEdit(id)
	if err != nil {
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"state": services.StateViewing,
		"card":  card,
	})
}
