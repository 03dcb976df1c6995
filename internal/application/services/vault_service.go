package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cardbox/core/internal/domain/entities"
	"github.com/cardbox/core/internal/infrastructure/config"
	"github.com/cardbox/core/internal/infrastructure/logger"
	"github.com/cardbox/core/internal/ports"
)

// VaultClaims are the claims of a vault unlock token.
type VaultClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

const vaultScope = "vault:reveal"

// VaultService gates Password card content behind a local PIN. A successful
// unlock issues a short-lived token; reads that carry it see decrypted
// content. There is no lockout or retry limit: a failed attempt simply
// surfaces and the caller may try again.
type VaultService struct {
	settingsRepo ports.SettingsRepository
	vaultConfig  config.VaultConfig
	logger       *logger.Logger
}

// NewVaultService creates a new vault service
func NewVaultService(settingsRepo ports.SettingsRepository, vaultConfig config.VaultConfig, logger *logger.Logger) *VaultService {
	return &VaultService{
		settingsRepo: settingsRepo,
		vaultConfig:  vaultConfig,
		logger:       logger,
	}
}

// Status reports whether a PIN is configured, its hint, and whether the
// client prefers the biometric path.
func (s *VaultService) Status(ctx context.Context) (*ports.VaultStatusResponse, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.VaultStatusResponse{
		Configured:   settings.PINHash != "",
		Hint:         settings.PINHint,
		UseBiometric: settings.UseBiometric,
	}, nil
}

// Unlock verifies the PIN and issues a vault token.
func (s *VaultService) Unlock(ctx context.Context, req ports.UnlockVaultRequest) (*ports.UnlockVaultResponse, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, err
	}

	if settings.PINHash == "" {
		return nil, entities.ErrPINNotConfigured
	}

	if err := bcrypt.CompareHashAndPassword([]byte(settings.PINHash), []byte(req.PIN)); err != nil {
		s.logger.Warn("Vault unlock failed")
		return nil, entities.ErrInvalidPIN
	}

	token, err := s.generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate vault token: %w", err)
	}

	s.logger.Info("Vault unlocked")

	return &ports.UnlockVaultResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.vaultConfig.TokenTTL.Seconds()),
	}, nil
}

// SetPIN sets or rotates the vault PIN. Once a PIN exists the current one
// must be supplied to change it.
func (s *VaultService) SetPIN(ctx context.Context, req ports.SetPINRequest) error {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return err
	}

	if settings.PINHash != "" {
		if req.CurrentPIN == nil {
			return entities.ErrInvalidPIN
		}
		if err := bcrypt.CompareHashAndPassword([]byte(settings.PINHash), []byte(*req.CurrentPIN)); err != nil {
			return entities.ErrInvalidPIN
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPIN), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}

	settings.PINHash = string(hash)
	settings.PINHint = req.Hint

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("Vault PIN updated")

	return nil
}

// ValidateToken checks a vault token and reports whether it grants reveal
// access.
func (s *VaultService) ValidateToken(tokenString string) (bool, error) {
	claims := &VaultClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.vaultConfig.Secret), nil
	})
	if err != nil {
		return false, fmt.Errorf("invalid vault token: %w", err)
	}

	if !token.Valid || claims.Scope != vaultScope {
		return false, entities.ErrVaultLocked
	}

	return true, nil
}

func (s *VaultService) generateToken() (string, error) {
	now := time.Now()
	claims := &VaultClaims{
		Scope: vaultScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.vaultConfig.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.vaultConfig.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.vaultConfig.Secret))
}

func (s *VaultService) loadSettings(ctx context.Context) (*entities.Settings, error) {
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
