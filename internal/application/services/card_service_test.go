package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cardbox/core/internal/application/services"
	"github.com/cardbox/core/internal/crypto"
	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/infrastructure/logger"
	"github.com/cardbox/core/internal/ports"
)

func newCardService(t *testing.T, repo *mockCardRepository, sealed bool) *services.CardService {
	t.Helper()
	var sealer *crypto.Sealer
	if sealed {
		var err error
		sealer, err = crypto.NewSealer(bytes.Repeat([]byte{0x42}, 32))
		require.NoError(t, err)
	}
	return services.NewCardService(repo, sealer, logger.NewNop())
}

func strPtr(s string) *string { return &s }

func TestCreateCard_RejectsUnknownType(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	_, err := svc.CreateCard(context.Background(), ports.CreateCardRequest{
		Title: "x", Type: entities.CardType("Spreadsheet"),
	})

	assert.ErrorIs(t, err, entities.ErrInvalidCardType)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCard_RejectsUnknownVariant(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	_, err := svc.CreateCard(context.Background(), ports.CreateCardRequest{
		Title: "x", Type: entities.CardTypeNote, Variant: entities.CardVariant("huge"),
	})

	assert.ErrorIs(t, err, entities.ErrInvalidCardVariant)
}

func TestCreateCard_DefaultsToSmallVariant(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Card) bool {
		return c.Variant == entities.VariantSmall
	})).Return(nil)

	card, err := svc.CreateCard(context.Background(), ports.CreateCardRequest{
		Title: "Groceries", Type: entities.CardTypeNote, Content: "milk",
	})

	require.NoError(t, err)
	assert.Equal(t, entities.VariantSmall, card.Variant)
	repo.AssertExpectations(t)
}

func TestCreateCard_HomeSentinelMeansRoot(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Card) bool {
		return c.ParentFolder == nil
	})).Return(nil)

	card, err := svc.CreateCard(context.Background(), ports.CreateCardRequest{
		Title: "x", Type: entities.CardTypeNote, ParentFolder: strPtr("home"),
	})

	require.NoError(t, err)
	assert.True(t, card.InRoot())
	repo.AssertExpectations(t)
}

func TestCreateCard_ParentMustBeFolder(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	parent := &entities.Card{ID: uuid.New(), Type: entities.CardTypeNote}
	repo.On("GetByID", mock.Anything, parent.ID).Return(parent, nil)

	_, err := svc.CreateCard(context.Background(), ports.CreateCardRequest{
		Title: "x", Type: entities.CardTypeNote, ParentFolder: strPtr(parent.ID.String()),
	})

	assert.ErrorIs(t, err, entities.ErrParentNotFolder)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCard_NormalizesLegacyContent(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	var stored string
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Card) bool {
		stored = c.Content
		return true
	})).Return(nil)

	_, err := svc.CreateCard(context.Background(), ports.CreateCardRequest{
		Title: "Water plants", Type: entities.CardTypeSimpleTask, Content: "true",
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"value": true}`, stored)
}

func TestCreateCard_SealsPasswordContent(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, true)

	var stored string
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *entities.Card) bool {
		stored = c.Content
		return true
	})).Return(nil)

	card, err := svc.CreateCard(context.Background(), ports.CreateCardRequest{
		Title: "Email", Type: entities.CardTypePassword,
		Content: `{"username":"alice","password":"s3cret"}`,
	})

	require.NoError(t, err)
	assert.True(t, crypto.IsSealed(stored))
	assert.NotContains(t, stored, "s3cret")
	// The response redacts credential content regardless of storage.
	assert.Equal(t, "", card.Content)
}

func TestGetCard_PasswordRedactedWhenLocked(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, true)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&entities.Card{
		ID: id, Type: entities.CardTypePassword, Content: "enc:v1:whatever",
	}, nil)

	card, err := svc.GetCard(context.Background(), id, false)

	require.NoError(t, err)
	assert.Equal(t, "", card.Content)
}

func TestGetCard_PasswordRevealedWhenUnlocked(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, true)

	sealer, err := crypto.NewSealer(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)
	plain := `{"username":"alice","password":"s3cret"}`
	sealed, err := sealer.Seal(plain)
	require.NoError(t, err)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&entities.Card{
		ID: id, Type: entities.CardTypePassword, Content: sealed,
	}, nil)

	card, err := svc.GetCard(context.Background(), id, true)

	require.NoError(t, err)
	assert.Equal(t, plain, card.Content)
}

func TestGetCard_DoesNotMutateStoredCard(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, true)

	id := uuid.New()
	stored := &entities.Card{ID: id, Type: entities.CardTypePassword, Content: "enc:v1:abc"}
	repo.On("GetByID", mock.Anything, id).Return(stored, nil)

	_, err := svc.GetCard(context.Background(), id, false)

	require.NoError(t, err)
	assert.Equal(t, "enc:v1:abc", stored.Content)
}

func TestListCards_DefaultLimit(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f ports.CardFilter) bool {
		return f.Limit == 50 && f.Offset == 0
	})).Return([]*entities.Card{}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	resp, err := svc.ListCards(context.Background(), ports.ListCardsRequest{})

	require.NoError(t, err)
	assert.Equal(t, 50, resp.Limit)
	repo.AssertExpectations(t)
}

func TestListCards_HomeParentFiltersRootOnly(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f ports.CardFilter) bool {
		return f.RootOnly && f.Parent == nil
	})).Return([]*entities.Card{}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := svc.ListCards(context.Background(), ports.ListCardsRequest{Parent: "home"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListCards_RejectsUnknownTypeFilter(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	_, err := svc.ListCards(context.Background(), ports.ListCardsRequest{Type: "Spreadsheet"})

	assert.ErrorIs(t, err, entities.ErrInvalidCardType)
}

func TestListCards_AlwaysRedactsPasswords(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, true)

	repo.On("List", mock.Anything, mock.Anything).Return([]*entities.Card{
		{ID: uuid.New(), Type: entities.CardTypePassword, Content: "enc:v1:abc"},
		{ID: uuid.New(), Type: entities.CardTypeNote, Content: "hello"},
	}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil)

	resp, err := svc.ListCards(context.Background(), ports.ListCardsRequest{})

	require.NoError(t, err)
	require.Len(t, resp.Cards, 2)
	assert.Equal(t, "", resp.Cards[0].Content)
	assert.Equal(t, "hello", resp.Cards[1].Content)
}

func TestUpdateCard_TypeIsImmutable(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&entities.Card{
		ID: id, Type: entities.CardTypeNote,
	}, nil)

	link := entities.CardTypeLink
	_, err := svc.UpdateCard(context.Background(), id, ports.UpdateCardRequest{Type: &link})

	assert.ErrorIs(t, err, entities.ErrTypeImmutable)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateCard_SameTypeAccepted(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&entities.Card{
		ID: id, Type: entities.CardTypeNote, Title: "old",
	}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	note := entities.CardTypeNote
	card, err := svc.UpdateCard(context.Background(), id, ports.UpdateCardRequest{
		Type: &note, Title: strPtr("new"),
	})

	require.NoError(t, err)
	assert.Equal(t, "new", card.Title)
}

func TestUpdateCard_MoveIntoOwnSubtreeRejected(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	// folderA contains folderB; moving folderA under folderB closes a loop.
	folderA := &entities.Card{ID: uuid.New(), Type: entities.CardTypeFolder}
	folderB := &entities.Card{ID: uuid.New(), Type: entities.CardTypeFolder, ParentFolder: &folderA.ID}

	repo.On("GetByID", mock.Anything, folderA.ID).Return(folderA, nil)
	repo.On("GetByID", mock.Anything, folderB.ID).Return(folderB, nil)

	_, err := svc.UpdateCard(context.Background(), folderA.ID, ports.UpdateCardRequest{
		ParentFolder: strPtr(folderB.ID.String()),
	})

	assert.ErrorIs(t, err, entities.ErrFolderCycle)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateCard_MoveToSiblingFolderAllowed(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	folderA := &entities.Card{ID: uuid.New(), Type: entities.CardTypeFolder}
	folderB := &entities.Card{ID: uuid.New(), Type: entities.CardTypeFolder}

	repo.On("GetByID", mock.Anything, folderA.ID).Return(folderA, nil)
	repo.On("GetByID", mock.Anything, folderB.ID).Return(folderB, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	card, err := svc.UpdateCard(context.Background(), folderA.ID, ports.UpdateCardRequest{
		ParentFolder: strPtr(folderB.ID.String()),
	})

	require.NoError(t, err)
	require.NotNil(t, card.ParentFolder)
	assert.Equal(t, folderB.ID, *card.ParentFolder)
}

func TestDeleteCard_NotFoundPropagates(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, entities.ErrCardNotFound)

	err := svc.DeleteCard(context.Background(), id)

	assert.ErrorIs(t, err, entities.ErrCardNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGetPreview_FolderCountsChildren(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&entities.Card{
		ID: id, Title: "Work", Type: entities.CardTypeFolder, Variant: entities.VariantSmall,
	}, nil)
	repo.On("CountChildren", mock.Anything, id).Return(3, nil)

	preview, err := svc.GetPreview(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, preview.ChildCount)
	assert.Equal(t, 3, *preview.ChildCount)
	repo.AssertExpectations(t)
}

func TestGetPreview_NonFolderSkipsChildCount(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&entities.Card{
		ID: id, Title: "Note", Type: entities.CardTypeNote, Variant: entities.VariantSmall,
	}, nil)

	preview, err := svc.GetPreview(context.Background(), id)

	require.NoError(t, err)
	assert.Nil(t, preview.ChildCount)
	repo.AssertNotCalled(t, "CountChildren", mock.Anything, mock.Anything)
}

func TestCreateCard_RepositoryErrorWrapped(t *testing.T) {
	repo := new(mockCardRepository)
	svc := newCardService(t, repo, false)

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := svc.CreateCard(context.Background(), ports.CreateCardRequest{
		Title: "x", Type: entities.CardTypeNote,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create card")
}
