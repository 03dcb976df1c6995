package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cardbox/core/internal/crypto"
	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/infrastructure/logger"
	"github.com/cardbox/core/internal/ports"
)

// CardService handles card CRUD orchestration
type CardService struct {
	cardRepo ports.CardRepository
	sealer   *crypto.Sealer
	logger   *logger.Logger
}

// NewCardService creates a new card service. sealer may be nil, in which case
// Password payloads are stored unencrypted and a warning is logged once.
func NewCardService(cardRepo ports.CardRepository, sealer *crypto.Sealer, logger *logger.Logger) *CardService {
	if sealer == nil {
		logger.Warn("No vault encryption key configured, Password card content will be stored in plaintext")
	}
	return &CardService{
		cardRepo: cardRepo,
		sealer:   sealer,
		logger:   logger,
	}
}

// CreateCard creates a new card
func (s *CardService) CreateCard(ctx context.Context, req ports.CreateCardRequest) (*entities.Card, error) {
	if !req.Type.IsValid() {
		return nil, fmt.Errorf("type %q: %w", req.Type, entities.ErrInvalidCardType)
	}

	variant := req.Variant
	if variant == "" {
		variant = entities.VariantSmall
	}
	if !variant.IsValid() {
		return nil, fmt.Errorf("variant %q: %w", variant, entities.ErrInvalidCardVariant)
	}

	parent, err := s.resolveParent(ctx, req.ParentFolder)
	if err != nil {
		return nil, err
	}

	content, err := s.storedContent(req.Type, req.Content)
	if err != nil {
		return nil, err
	}

	card := &entities.Card{
		Title:        req.Title,
		Type:         req.Type,
		Variant:      variant,
		Content:      content,
		ParentFolder: parent,
		Background:   req.Background,
		IsFavorite:   req.IsFavorite,
		SortOrder:    req.SortOrder,
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	s.logger.Info("Card created", "card_id", card.ID, "type", card.Type)

	return s.outgoing(card, false), nil
}

// GetCard retrieves a card by ID. Password content is revealed only when the
// caller has passed the vault gate; otherwise it is redacted.
func (s *CardService) GetCard(ctx context.Context, id uuid.UUID, unlocked bool) (*entities.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.outgoing(card, unlocked), nil
}

// ListCards retrieves cards matching the filter, newest first. Password
// content is always redacted in listings.
func (s *CardService) ListCards(ctx context.Context, req ports.ListCardsRequest) (*ports.ListCardsResponse, error) {
	filter, err := s.buildFilter(req)
	if err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	total, err := s.cardRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards: %w", err)
	}

	out := make([]*entities.Card, 0, len(cards))
	for _, card := range cards {
		out = append(out, s.outgoing(card, false))
	}

	return &ports.ListCardsResponse{
		Cards:  out,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// UpdateCard applies a partial update: only supplied fields change. The card
// type is immutable after creation.
func (s *CardService) UpdateCard(ctx context.Context, id uuid.UUID, req ports.UpdateCardRequest) (*entities.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil && *req.Type != card.Type {
		return nil, entities.ErrTypeImmutable
	}

	if req.Title != nil {
		card.Title = *req.Title
	}
	if req.Variant != nil {
		if !req.Variant.IsValid() {
			return nil, fmt.Errorf("variant %q: %w", *req.Variant, entities.ErrInvalidCardVariant)
		}
		card.Variant = *req.Variant
	}
	if req.Content != nil {
		content, err := s.storedContent(card.Type, *req.Content)
		if err != nil {
			return nil, err
		}
		card.Content = content
	}
	if req.ParentFolder != nil {
		parent, err := s.resolveParent(ctx, req.ParentFolder)
		if err != nil {
			return nil, err
		}
		if err := s.checkNoCycle(ctx, card, parent); err != nil {
			return nil, err
		}
		card.ParentFolder = parent
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

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	s.logger.Info("Card updated", "card_id", card.ID, "type", card.Type)

	return s.outgoing(card, false), nil
}

// DeleteCard soft-deletes a card
func (s *CardService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.cardRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	s.logger.Info("Card deleted", "card_id", id, "type", card.Type)

	return nil
}

// GetPreview builds the type-aware list projection for a card.
func (s *CardService) GetPreview(ctx context.Context, id uuid.UUID) (*entities.CardPreview, error) {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	childCount := 0
	if card.IsFolder() {
		childCount, err = s.cardRepo.CountChildren(ctx, card.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count folder children: %w", err)
		}
	}

	preview := entities.BuildPreview(s.outgoing(card, false), childCount)
	return &preview, nil
}

// resolveParent normalizes the wire-level parent reference. nil, "" and the
// "home" sentinel all mean the root; anything else must name an existing
// folder card.
func (s *CardService) resolveParent(ctx context.Context, ref *string) (*uuid.UUID, error) {
	if ref == nil || *ref == "" || *ref == entities.RootFolder {
		return nil, nil
	}

	parentID, err := uuid.Parse(*ref)
	if err != nil {
		return nil, fmt.Errorf("parent folder %q: %w", *ref, entities.ErrFolderNotFound)
	}

	parent, err := s.cardRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("parent folder: %w", err)
	}
	if !parent.IsFolder() {
		return nil, entities.ErrParentNotFolder
	}

	return &parentID, nil
}

// checkNoCycle walks the target parent's ancestor chain and rejects the move
// if the card itself appears anywhere on it.
func (s *CardService) checkNoCycle(ctx context.Context, card *entities.Card, parent *uuid.UUID) error {
	if !card.IsFolder() || parent == nil {
		return nil
	}
	seen := make(map[uuid.UUID]bool)
	for current := parent; current != nil; {
		if *current == card.ID {
			return entities.ErrFolderCycle
		}
		if seen[*current] {
			// Pre-existing corruption in the chain; refuse to extend it.
			return entities.ErrFolderCycle
		}
		seen[*current] = true

		ancestor, err := s.cardRepo.GetByID(ctx, *current)
		if err != nil {
			return fmt.Errorf("resolve ancestor chain: %w", err)
		}
		current = ancestor.ParentFolder
	}
	return nil
}

// storedContent normalizes incoming content to the canonical shape and seals
// Password payloads. Content that fails to decode is stored verbatim; the
// tolerant read path degrades it to the zero payload later.
func (s *CardService) storedContent(t entities.CardType, raw string) (string, error) {
	payload, ok := entities.DecodeContent(t, raw)
	stored := raw
	if ok {
		canonical, err := entities.EncodeContent(payload)
		if err != nil {
			return "", err
		}
		stored = canonical
	} else if raw != "" {
		s.logger.Warn("Card content did not match its type, storing verbatim", "type", t)
	}

	if t == entities.CardTypePassword && s.sealer != nil {
		sealed, err := s.sealer.Seal(stored)
		if err != nil {
			return "", fmt.Errorf("seal password content: %w", err)
		}
		stored = sealed
	}

	return stored, nil
}

// outgoing shapes a stored card for the caller: Password payloads are
// decrypted only for unlocked callers and redacted otherwise. A copy is
// returned so stored state is never mutated in place.
func (s *CardService) outgoing(card *entities.Card, unlocked bool) *entities.Card {
	out := *card
	if card.Type != entities.CardTypePassword {
		return &out
	}

	if !unlocked {
		out.Content = ""
		return &out
	}

	if s.sealer != nil {
		plain, err := s.sealer.Open(card.Content)
		if err != nil {
			s.logger.WithCardID(card.ID.String()).WithError(err).Error("Failed to open sealed password content")
			out.Content = ""
			return &out
		}
		out.Content = plain
	}
	return &out
}

func (s *CardService) buildFilter(req ports.ListCardsRequest) (ports.CardFilter, error) {
	filter := ports.CardFilter{
		Favorite: req.Favorite,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	if req.Type != "" {
		t := entities.CardType(req.Type)
		if !t.IsValid() {
			return filter, fmt.Errorf("type %q: %w", req.Type, entities.ErrInvalidCardType)
		}
		filter.Type = &t
	}

	if req.Search != "" {
		search := req.Search
		filter.Search = &search
	}

	switch req.Parent {
	case "":
		// No parent filter.
	case entities.RootFolder:
		filter.RootOnly = true
	default:
		parentID, err := uuid.Parse(req.Parent)
		if err != nil {
			return filter, fmt.Errorf("parent %q: %w", req.Parent, entities.ErrFolderNotFound)
		}
		filter.Parent = &parentID
	}

	return filter, nil
}
