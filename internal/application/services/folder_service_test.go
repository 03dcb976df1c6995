package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cardbox/core/internal/application/services"
	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/infrastructure/logger"
)

func folderCard(title string, parent *uuid.UUID) *entities.Card {
	return &entities.Card{
		ID:           uuid.New(),
		Title:        title,
		Type:         entities.CardTypeFolder,
		Variant:      entities.VariantSmall,
		ParentFolder: parent,
	}
}

func TestGetTree_NestsChildrenUnderParents(t *testing.T) {
	repo := new(mockCardRepository)
	svc := services.NewFolderService(repo, logger.NewNop())

	work := folderCard("Work", nil)
	reports := folderCard("Reports", &work.ID)
	personal := folderCard("Personal", nil)

	repo.On("ListFolders", mock.Anything).Return([]*entities.Card{work, reports, personal}, nil)

	tree, err := svc.GetTree(context.Background())

	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Work", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Reports", tree[0].Children[0].Name)
	assert.Equal(t, "Personal", tree[1].Name)
}

func TestGetTree_CycleSurfacesStructuralError(t *testing.T) {
	repo := new(mockCardRepository)
	svc := services.NewFolderService(repo, logger.NewNop())

	a := folderCard("A", nil)
	b := folderCard("B", &a.ID)
	a.ParentFolder = &b.ID

	repo.On("ListFolders", mock.Anything).Return([]*entities.Card{a, b}, nil)

	_, err := svc.GetTree(context.Background())

	assert.ErrorIs(t, err, entities.ErrFolderCycle)
}

func TestGetPath_BreadcrumbTopDown(t *testing.T) {
	repo := new(mockCardRepository)
	svc := services.NewFolderService(repo, logger.NewNop())

	work := folderCard("Work", nil)
	reports := folderCard("Reports", &work.ID)
	q3 := folderCard("Q3", &reports.ID)

	repo.On("ListFolders", mock.Anything).Return([]*entities.Card{work, reports, q3}, nil)

	path, err := svc.GetPath(context.Background(), q3.ID)

	require.NoError(t, err)
	require.Len(t, path, 3)
	assert.Equal(t, "Work", path[0].Title)
	assert.Equal(t, "Reports", path[1].Title)
	assert.Equal(t, "Q3", path[2].Title)
}

func TestGetPath_UnknownFolder(t *testing.T) {
	repo := new(mockCardRepository)
	svc := services.NewFolderService(repo, logger.NewNop())

	repo.On("ListFolders", mock.Anything).Return([]*entities.Card{}, nil)

	_, err := svc.GetPath(context.Background(), uuid.New())

	assert.ErrorIs(t, err, entities.ErrFolderNotFound)
}
