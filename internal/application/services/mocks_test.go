package services_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/ports"
)

type mockCardRepository struct {
	mock.Mock
}

var _ ports.CardRepository = (*mockCardRepository)(nil)

func (m *mockCardRepository) Create(ctx context.Context, card *entities.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Card), args.Error(1)
}

func (m *mockCardRepository) Update(ctx context.Context, card *entities.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCardRepository) List(ctx context.Context, filter ports.CardFilter) ([]*entities.Card, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Card), args.Error(1)
}

func (m *mockCardRepository) Count(ctx context.Context, filter ports.CardFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCardRepository) ListFolders(ctx context.Context) ([]*entities.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Card), args.Error(1)
}

func (m *mockCardRepository) CountChildren(ctx context.Context, folderID uuid.UUID) (int, error) {
	args := m.Called(ctx, folderID)
	return args.Int(0), args.Error(1)
}

type mockSettingsRepository struct {
	mock.Mock
}

var _ ports.SettingsRepository = (*mockSettingsRepository)(nil)

func (m *mockSettingsRepository) Get(ctx context.Context) (*entities.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Settings), args.Error(1)
}

func (m *mockSettingsRepository) Save(ctx context.Context, settings *entities.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
