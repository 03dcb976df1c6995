package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/ports"
)

// settingsKey is the single key the settings blob lives under.
const settingsKey = "app_settings"

// settingsBlob is the stored JSON shape. The PIN hash is persisted here but
// never serialized back out through the entity's public JSON tags.
type settingsBlob struct {
	UseBiometric bool    `json:"useBiometric"`
	PINHash      string  `json:"pinHash,omitempty"`
	PINHint      *string `json:"pinHint,omitempty"`
	Theme        string  `json:"theme"`
}

// SettingsRepositoryImpl implements the SettingsRepository interface over a
// generic key-value table.
type SettingsRepositoryImpl struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sqlx.DB) ports.SettingsRepository {
	return &SettingsRepositoryImpl{db: db}
}

func (r *SettingsRepositoryImpl) Get(ctx context.Context) (*entities.Settings, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var raw []byte
	err := r.db.GetContext(ctx, &raw, query, settingsKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	var blob settingsBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	settings := &entities.Settings{
		UseBiometric: blob.UseBiometric,
		PINHash:      blob.PINHash,
		PINHint:      blob.PINHint,
		Theme:        blob.Theme,
	}
	if settings.Theme == "" {
		settings.Theme = entities.DefaultSettings().Theme
	}

	return settings, nil
}

func (r *SettingsRepositoryImpl) Save(ctx context.Context, settings *entities.Settings) error {
	blob := settingsBlob{
		UseBiometric: settings.UseBiometric,
		PINHash:      settings.PINHash,
		PINHint:      settings.PINHint,
		Theme:        settings.Theme,
	}

	raw, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	query := `
		INSERT INTO kv_store (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, settingsKey, raw); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}
