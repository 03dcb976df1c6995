package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/cardbox/core/internal/domain/entities"
)

// CardRepository defines the interface for card data operations
type CardRepository interface {
	Create(ctx context.Context, card *entities.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Card, error)
	Update(ctx context.Context, card *entities.Card) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter CardFilter) ([]*entities.Card, error)
	Count(ctx context.Context, filter CardFilter) (int64, error)
	ListFolders(ctx context.Context) ([]*entities.Card, error)
	CountChildren(ctx context.Context, folderID uuid.UUID) (int, error)
}

// SettingsRepository persists the single settings blob under one key.
type SettingsRepository interface {
	Get(ctx context.Context) (*entities.Settings, error)
	Save(ctx context.Context, settings *entities.Settings) error
}

// CardFilter narrows card listings. Zero-value fields do not filter.
type CardFilter struct {
	Type     *entities.CardType
	Search   *string
	Parent   *uuid.UUID
	RootOnly bool
	Favorite *bool
	Limit    int
	Offset   int
}
