package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrCardNotFound        = errors.New("card not found")
	ErrFolderNotFound      = errors.New("folder not found")
	ErrDraftNotFound       = errors.New("no edit session for card")
	ErrInvalidCardType     = errors.New("invalid card type")
	ErrInvalidCardVariant  = errors.New("invalid card variant")
	ErrTypeImmutable       = errors.New("card type cannot change after creation")
	ErrParentNotFolder     = errors.New("parent card is not a folder")
	ErrFolderCycle         = errors.New("folder cannot be its own ancestor")
	ErrVaultLocked         = errors.New("vault is locked")
	ErrInvalidPIN          = errors.New("invalid pin")
	ErrPINNotConfigured    = errors.New("pin is not configured")
	ErrContentTypeMismatch = errors.New("content payload does not match card type")
)

// CardType is the semantic kind of a card. Immutable after creation.
type CardType string

const (
	CardTypeFolder     CardType = "Folder"
	CardTypeNote       CardType = "Note"
	CardTypeLink       CardType = "Link"
	CardTypeSimpleTask CardType = "SimpleTask"
	CardTypeTaskList   CardType = "TaskList"
	CardTypeObjective  CardType = "Objective"
	CardTypeRoutine    CardType = "Routine"
	CardTypeEvent      CardType = "Event"
	CardTypeCollection CardType = "Collection"
	CardTypePassword   CardType = "Password"
)

// CardVariant is the visual size/shape a card renders as, independent of type.
type CardVariant string

const (
	VariantSmall    CardVariant = "small"
	VariantLarge    CardVariant = "large"
	VariantPortrait CardVariant = "portrait"
)

// RootFolder is the sentinel clients may send for the implicit root. It is
// normalized to a null parent before anything is persisted.
const RootFolder = "home"

// Card is the single persisted entity. Its Content payload shape is determined
// by Type; see content.go for the closed payload union and codecs.
type Card struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Title        string      `json:"title" db:"title"`
	Type         CardType    `json:"type" db:"type"`
	Variant      CardVariant `json:"variant" db:"variant"`
	Content      string      `json:"content" db:"content"`
	ParentFolder *uuid.UUID  `json:"parent_folder" db:"parent_folder"`
	Background   string      `json:"background" db:"background"`
	IsFavorite   bool        `json:"is_favorite" db:"is_favorite"`
	SortOrder    int         `json:"sort_order" db:"sort_order"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time  `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Settings is the single key-value blob the client persists across restarts.
type Settings struct {
	UseBiometric bool    `json:"use_biometric"`
	PINHash      string  `json:"-"`
	PINHint      *string `json:"pin_hint"`
	Theme        string  `json:"theme"`
}

// DefaultSettings applies when nothing has been stored yet.
func DefaultSettings() Settings {
	return Settings{Theme: "light"}
}

func (c *Card) IsFolder() bool {
	return c.Type == CardTypeFolder
}

// InRoot reports whether the card lives at the top level.
func (c *Card) InRoot() bool {
	return c.ParentFolder == nil
}

// Payload decodes the stored content string into the typed payload for the
// card's type. Malformed content degrades to the type's zero payload.
func (c *Card) Payload() CardContent {
	payload, _ := DecodeContent(c.Type, c.Content)
	return payload
}

func (ct CardType) IsValid() bool {
	switch ct {
	case CardTypeFolder, CardTypeNote, CardTypeLink, CardTypeSimpleTask,
		CardTypeTaskList, CardTypeObjective, CardTypeRoutine, CardTypeEvent,
		CardTypeCollection, CardTypePassword:
		return true
	default:
		return false
	}
}

func (cv CardVariant) IsValid() bool {
	switch cv {
	case VariantSmall, VariantLarge, VariantPortrait:
		return true
	default:
		return false
	}
}
