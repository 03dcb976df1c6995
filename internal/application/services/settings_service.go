package services

import (
	"context"
	"fmt"

	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/infrastructure/logger"
	"github.com/cardbox/core/internal/ports"
)

// SettingsService reads and writes the single client settings blob.
type SettingsService struct {
	settingsRepo ports.SettingsRepository
	logger       *logger.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo ports.SettingsRepository, logger *logger.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Get returns the stored settings, or the defaults when nothing has been
// stored yet.
func (s *SettingsService) Get(ctx context.Context) (*entities.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		defaults := entities.DefaultSettings()
		return &defaults, nil
	}
	return settings, nil
}

// Update replaces the settings blob. The PIN hash is managed by the vault
// service and survives settings updates untouched.
func (s *SettingsService) Update(ctx context.Context, req ports.UpdateSettingsRequest) (*entities.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	settings.UseBiometric = req.UseBiometric
	settings.PINHint = req.PINHint
	if req.Theme != "" {
		settings.Theme = req.Theme
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("Settings updated", "theme", settings.Theme, "use_biometric", settings.UseBiometric)

	return settings, nil
}
