package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/infrastructure/database"
	"github.com/cardbox/core/internal/ports"
)

// CardRepositoryImpl implements the CardRepository interface
type CardRepositoryImpl struct {
	db *database.DB
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *database.DB) ports.CardRepository {
	return &CardRepositoryImpl{db: db}
}

func (r *CardRepositoryImpl) Create(ctx context.Context, card *entities.Card) error {
	query := `
		INSERT INTO cards (id, title, type, variant, content, parent_folder,
			background, is_favorite, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		card.ID, card.Title, card.Type, card.Variant, card.Content,
		card.ParentFolder, card.Background, card.IsFavorite, card.SortOrder,
	).Scan(&card.CreatedAt, &card.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create card: %w", err)
	}

	return nil
}

func (r *CardRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Card, error) {
	query := `
		SELECT id, title, type, variant, content, parent_folder, background,
			is_favorite, sort_order, created_at, updated_at, deleted_at
		FROM cards
		WHERE id = $1 AND deleted_at IS NULL`

	var card entities.Card
	err := r.db.DB.GetContext(ctx, &card, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrCardNotFound
		}
		return nil, fmt.Errorf("get card by id: %w", err)
	}

	return &card, nil
}

func (r *CardRepositoryImpl) Update(ctx context.Context, card *entities.Card) error {
	query := `
		UPDATE cards
		SET title = $2, variant = $3, content = $4, parent_folder = $5,
			background = $6, is_favorite = $7, sort_order = $8,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.DB.QueryRowContext(ctx, query,
		card.ID, card.Title, card.Variant, card.Content, card.ParentFolder,
		card.Background, card.IsFavorite, card.SortOrder,
	).Scan(&card.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrCardNotFound
		}
		return fmt.Errorf("update card: %w", err)
	}

	return nil
}

// Delete soft-deletes a card. Children of a deleted folder move up to its
// parent in the same transaction so no live card ever references a dead row.
func (r *CardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var parent *uuid.UUID
		err := tx.QueryRowxContext(ctx,
			`SELECT parent_folder FROM cards WHERE id = $1 AND deleted_at IS NULL`, id,
		).Scan(&parent)
		if err == sql.ErrNoRows {
			return entities.ErrCardNotFound
		}
		if err != nil {
			return fmt.Errorf("load card for delete: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE cards SET parent_folder = $2, updated_at = CURRENT_TIMESTAMP
			 WHERE parent_folder = $1 AND deleted_at IS NULL`, id, parent)
		if err != nil {
			return fmt.Errorf("reparent children: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE cards SET deleted_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete card: %w", err)
		}

		return nil
	})
}

func (r *CardRepositoryImpl) List(ctx context.Context, filter ports.CardFilter) ([]*entities.Card, error) {
	where, args := buildCardWhere(filter)

	query := fmt.Sprintf(`
		SELECT id, title, type, variant, content, parent_folder, background,
			is_favorite, sort_order, created_at, updated_at, deleted_at
		FROM cards
		WHERE %s
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d`, where, filter.Limit, filter.Offset)

	var cards []*entities.Card
	err := r.db.DB.SelectContext(ctx, &cards, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	return cards, nil
}

func (r *CardRepositoryImpl) Count(ctx context.Context, filter ports.CardFilter) (int64, error) {
	where, args := buildCardWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM cards WHERE %s`, where)

	var count int64
	err := r.db.DB.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}

	return count, nil
}

func (r *CardRepositoryImpl) ListFolders(ctx context.Context) ([]*entities.Card, error) {
	query := `
		SELECT id, title, type, variant, content, parent_folder, background,
			is_favorite, sort_order, created_at, updated_at, deleted_at
		FROM cards
		WHERE type = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	var folders []*entities.Card
	err := r.db.DB.SelectContext(ctx, &folders, query, entities.CardTypeFolder)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	return folders, nil
}

func (r *CardRepositoryImpl) CountChildren(ctx context.Context, folderID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM cards WHERE parent_folder = $1 AND deleted_at IS NULL`

	var count int
	err := r.db.DB.GetContext(ctx, &count, query, folderID)
	if err != nil {
		return 0, fmt.Errorf("count folder children: %w", err)
	}

	return count, nil
}

// buildCardWhere assembles the filter clause with positional args.
func buildCardWhere(filter ports.CardFilter) (string, []interface{}) {
	conditions := []string{"deleted_at IS NULL"}
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Type != nil {
		conditions = append(conditions, "type = "+arg(*filter.Type))
	}
	if filter.Search != nil {
		conditions = append(conditions, "title ILIKE "+arg("%"+*filter.Search+"%"))
	}
	if filter.RootOnly {
		conditions = append(conditions, "parent_folder IS NULL")
	} else if filter.Parent != nil {
		conditions = append(conditions, "parent_folder = "+arg(*filter.Parent))
	}
	if filter.Favorite != nil {
		conditions = append(conditions, "is_favorite = "+arg(*filter.Favorite))
	}

	return strings.Join(conditions, " AND "), args
}
