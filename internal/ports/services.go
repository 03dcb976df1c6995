package ports

import (
	"context"

	"github.com/cardbox/core/internal/domain/entities"
)

// MetadataClient looks up external metadata for Collection cards.
type MetadataClient interface {
	Search(ctx context.Context, query string) ([]MovieResult, error)
}

// MovieResult is one hit from the metadata provider, already mapped into the
// collection metadata shape.
type MovieResult struct {
	ExternalID string                          `json:"external_id"`
	Metadata   entities.CollectionItemMetadata `json:"metadata"`
}

// CreateCardRequest carries the fields a client supplies on creation. The
// server assigns id and timestamps. Content arrives in the card's stored
// string form and is normalized to the canonical shape before persisting.
type CreateCardRequest struct {
	Title        string               `json:"title" validate:"required,max=200"`
	Type         entities.CardType    `json:"type" validate:"required"`
	Variant      entities.CardVariant `json:"variant"`
	Content      string               `json:"content"`
	ParentFolder *string              `json:"parent_folder"`
	Background   string               `json:"background"`
	IsFavorite   bool                 `json:"is_favorite"`
	SortOrder    int                  `json:"sort_order"`
}

// UpdateCardRequest is a partial update: only non-nil fields change. Type is
// accepted for symmetry but must match the stored value.
type UpdateCardRequest struct {
	Title        *string               `json:"title" validate:"omitempty,max=200"`
	Type         *entities.CardType    `json:"type"`
	Variant      *entities.CardVariant `json:"variant"`
	Content      *string               `json:"content"`
	ParentFolder *string               `json:"parent_folder"`
	Background   *string               `json:"background"`
	IsFavorite   *bool                 `json:"is_favorite"`
	SortOrder    *int                  `json:"sort_order"`
}

// ListCardsRequest mirrors the four-operation backend contract: filter by
// type, search term, parent folder, favorites, with pagination. Parent
// accepts the "home" sentinel for the root.
type ListCardsRequest struct {
	Type     string `query:"type"`
	Search   string `query:"q"`
	Parent   string `query:"parent"`
	Favorite *bool  `query:"favorite"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

// ListCardsResponse pages card listings newest-first.
type ListCardsResponse struct {
	Cards  []*entities.Card `json:"cards"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// UnlockVaultRequest carries the PIN for the vault gate.
type UnlockVaultRequest struct {
	PIN string `json:"pin" validate:"required"`
}

// UnlockVaultResponse returns the short-lived token that reveals Password
// card content.
type UnlockVaultResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// SetPINRequest sets or rotates the vault PIN. CurrentPIN is required once a
// PIN exists.
type SetPINRequest struct {
	CurrentPIN *string `json:"current_pin"`
	NewPIN     string  `json:"new_pin" validate:"required,min=4,max=64"`
	Hint       *string `json:"hint" validate:"omitempty,max=120"`
}

// VaultStatusResponse reports whether the gate is configured and its hint.
type VaultStatusResponse struct {
	Configured   bool    `json:"configured"`
	Hint         *string `json:"hint,omitempty"`
	UseBiometric bool    `json:"use_biometric"`
}

// UpdateSettingsRequest replaces the stored settings blob.
type UpdateSettingsRequest struct {
	UseBiometric bool    `json:"use_biometric"`
	PINHint      *string `json:"pin_hint"`
	Theme        string  `json:"theme" validate:"omitempty,oneof=light dark"`
}
