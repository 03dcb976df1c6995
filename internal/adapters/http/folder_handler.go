package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cardbox/core/internal/application/services"
	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/infrastructure/logger"
)

// FolderHandler handles folder navigation requests
type FolderHandler struct {
	folderService *services.FolderService
	logger        *logger.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService *services.FolderService, logger *logger.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// GetTree returns the nested folder forest
func (h *FolderHandler) GetTree(c echo.Context) error {
	tree, err := h.folderService.GetTree(c.Request().Context())
	if err != nil {
		h.logger.Error("Get folder tree failed", "error", err)
		return domainHTTPError(err)
	}

	if tree == nil {
		tree = []*entities.FolderNode{}
	}

	return c.JSON(http.StatusOK, tree)
}

// GetPath returns the breadcrumb from the root to a folder
func (h *FolderHandler) GetPath(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid folder ID")
	}

	path, err := h.folderService.GetPath(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("Get folder path failed", "error", err, "folder_id", id)
		return domainHTTPError(err)
	}

	breadcrumb := make([]map[string]string, 0, len(path))
	for _, folder := range path {
		breadcrumb = append(breadcrumb, map[string]string{
			"id":   folder.ID.String(),
			"name": folder.Title,
		})
	}

	return c.JSON(http.StatusOK, breadcrumb)
}
