package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/infrastructure/repository"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

var (
	ErrInvalidNav      = errors.New("menu inválido")
	ErrInvalidLanguage = errors.New("idioma inválido")
)

type Preferences interface {
	Get(ctx context.Context, userID string) (*domain.Settings, error)
	SaveNav(ctx context.Context, userID string, items []domain.NavItem) (*domain.Settings, error)
	SetLanguage(ctx context.Context, userID string, lang domain.Language) (*domain.Settings, error)
}

type Service struct {
	settingsRepo repository.SettingsRepository
}

func NewService(settingsRepo repository.SettingsRepository) Preferences {
	return &Service{settingsRepo: settingsRepo}
}

// Get retorna as preferências com o menu persistido aplicado sobre o padrão
func (s *Service) Get(ctx context.Context, userID string) (*domain.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Erro ao buscar preferências")
		return nil, err
	}

	if settings == nil {
		return domain.DefaultSettings(userID), nil
	}

	settings.NavItems = domain.OverlayNav(settings.NavItems)
	if !settings.Language.IsValid() {
		settings.Language = domain.DefaultLanguage
	}
	return settings, nil
}

func (s *Service) SaveNav(ctx context.Context, userID string, items []domain.NavItem) (*domain.Settings, error) {
	if err := domain.ValidateNav(items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNav, err)
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings.NavItems = items
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Service) SetLanguage(ctx context.Context, userID string, lang domain.Language) (*domain.Settings, error) {
	if !lang.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLanguage, lang)
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings.Language = lang
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
