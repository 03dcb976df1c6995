package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/infrastructure/logger"
	"github.com/cardbox/core/internal/ports"
)

// EditState is the per-card detail screen state.
type EditState string

const (
	StateViewing EditState = "viewing"
	StateEditing EditState = "editing"
)

// draft is one open edit session: the working copy plus the values it was
// opened against, kept for cancel.
type draft struct {
	working *entities.Card
	base    *entities.Card
}

// DraftService tracks edit sessions per card. A card is Viewing until an
// explicit begin-edit, Editing until a successful save or a cancel. A failed
// save keeps the session in Editing so the caller can retry; there is no
// conflict detection against concurrent remote changes (last write wins).
type DraftService struct {
	cards  *CardService
	logger *logger.Logger

	mu     sync.Mutex
	drafts map[uuid.UUID]*draft
}

// NewDraftService creates a new draft service
func NewDraftService(cards *CardService, logger *logger.Logger) *DraftService {
	return &DraftService{
		cards:  cards,
		logger: logger,
		drafts: make(map[uuid.UUID]*draft),
	}
}

// State reports whether a card currently has an open edit session.
func (s *DraftService) State(id uuid.UUID) EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; ok {
		return StateEditing
	}
	return StateViewing
}

// BeginEdit opens an edit session bound to the card's last-fetched values.
// Re-entering an already-open session returns the existing working copy.
func (s *DraftService) BeginEdit(ctx context.Context, id uuid.UUID, unlocked bool) (*entities.Card, error) {
	s.mu.Lock()
	if d, ok := s.drafts[id]; ok {
		working := *d.working
		s.mu.Unlock()
		return &working, nil
	}
	s.mu.Unlock()

	card, err := s.cards.GetCard(ctx, id, unlocked)
	if err != nil {
		return nil, err
	}

	base := *card
	working := *card

	s.mu.Lock()
	s.drafts[id] = &draft{working: &working, base: &base}
	s.mu.Unlock()

	s.logger.WithCardID(id.String()).Debug("Edit session opened")

	out := working
	return &out, nil
}

// SaveDraft commits the session: the requested changes are applied to the
// working copy first (optimistic), then persisted. On failure the working
// copy rolls back to its pre-save values and the session stays in Editing.
// On success the session closes, returning the card to Viewing.
func (s *DraftService) SaveDraft(ctx context.Context, id uuid.UUID, req ports.UpdateCardRequest) (*entities.Card, error) {
	s.mu.Lock()
	d, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return nil, entities.ErrDraftNotFound
	}
	previous := *d.working
	applyUpdate(d.working, req)
	s.mu.Unlock()

	updated, err := s.cards.UpdateCard(ctx, id, req)
	if err != nil {
		s.mu.Lock()
		if d, ok := s.drafts[id]; ok {
			*d.working = previous
		}
		s.mu.Unlock()
		s.logger.WithCardID(id.String()).WithError(err).Warn("Draft save failed, session stays open")
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()

	s.logger.WithCardID(id.String()).Debug("Edit session saved")

	return updated, nil
}

// CancelEdit discards the draft and returns the values the session was
// opened against.
func (s *DraftService) CancelEdit(id uuid.UUID) (*entities.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, entities.ErrDraftNotFound
	}
	delete(s.drafts, id)

	base := *d.base
	return &base, nil
}

// applyUpdate merges the partial-update fields into a working copy.
func applyUpdate(card *entities.Card, req ports.UpdateCardRequest) {
	if req.Title != nil {
		card.Title = *req.Title
	}
	if req.Variant != nil {
		card.Variant = *req.Variant
	}
	if req.Content != nil {
		card.Content = *req.Content
	}
	if req.Background != nil {
		card.Background = *req.Background
	}
	if req.IsFavorite != nil {
		card.IsFavorite = *req.IsFavorite
	}
	if req.SortOrder != nil {
		card.SortOrder = *req.SortOrder
	}
}
