package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/infrastructure/logger"
	"github.com/cardbox/core/internal/ports"
)

// FolderService composes the folder navigation tree and breadcrumb paths.
type FolderService struct {
	cardRepo ports.CardRepository
	logger   *logger.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(cardRepo ports.CardRepository, logger *logger.Logger) *FolderService {
	return &FolderService{
		cardRepo: cardRepo,
		logger:   logger,
	}
}

// GetTree builds the nested folder forest for navigation and folder pickers.
func (s *FolderService) GetTree(ctx context.Context) ([]*entities.FolderNode, error) {
	folders, err := s.cardRepo.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	tree, err := entities.BuildFolderTree(folders)
	if err != nil {
		s.logger.WithError(err).Error("Folder tree is structurally broken")
		return nil, err
	}

	return tree, nil
}

// GetPath resolves the breadcrumb from the root down to the given folder.
func (s *FolderService) GetPath(ctx context.Context, id uuid.UUID) ([]*entities.Card, error) {
	folders, err := s.cardRepo.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	byID := make(map[uuid.UUID]*entities.Card, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	path, err := entities.FolderPath(byID, id)
	if err != nil {
		return nil, err
	}

	return path, nil
}
