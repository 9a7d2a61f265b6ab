package preferences

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizdash-api/infrastructure/repository/mocks"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_Get(t *testing.T) {
	t.Run("sem registro retorna o padrão", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSettingsRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), "user-1").Return(nil, nil)

		settings, err := NewService(repo).Get(context.Background(), "user-1")

		require.NoError(t, err)
		assert.Equal(t, domain.LanguageBN, settings.Language)
		assert.Equal(t, domain.DefaultNavItems(), settings.NavItems)
	})

	t.Run("menu persistido substitui o padrão", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSettingsRepository(ctrl)
		persisted := []domain.NavItem{{ID: "1", Name: "Home", Path: "/dashboard", Visible: true}}
		repo.EXPECT().Get(gomock.Any(), "user-1").Return(&domain.Settings{
			UserID:   "user-1",
			Language: domain.LanguageEN,
			NavItems: persisted,
		}, nil)

		settings, err := NewService(repo).Get(context.Background(), "user-1")

		require.NoError(t, err)
		assert.Equal(t, domain.LanguageEN, settings.Language)
		assert.Equal(t, persisted, settings.NavItems)
	})
}

func TestService_SaveNav(t *testing.T) {
	t.Run("ids duplicados são recusados", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSettingsRepository(ctrl)

		_, err := NewService(repo).SaveNav(context.Background(), "user-1", []domain.NavItem{
			{ID: "1", Name: "A", Path: "/a"},
			{ID: "1", Name: "B", Path: "/b"},
		})

		assert.ErrorIs(t, err, ErrInvalidNav)
		assert.ErrorIs(t, err, domain.ErrNavDuplicatedID)
	})

	t.Run("grava o menu mantendo o idioma", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSettingsRepository(ctrl)

		items, _, err := domain.AddCustomItem(domain.DefaultNavItems(), "Reports")
		require.NoError(t, err)

		repo.EXPECT().Get(gomock.Any(), "user-1").Return(&domain.Settings{UserID: "user-1", Language: domain.LanguageEN}, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s *domain.Settings) error {
			assert.Equal(t, domain.LanguageEN, s.Language)
			assert.Len(t, s.NavItems, 10)
			assert.Equal(t, "/custom-reports", s.NavItems[9].Path)
			return nil
		})

		_, err = NewService(repo).SaveNav(context.Background(), "user-1", items)
		require.NoError(t, err)
	})
}

func TestService_SetLanguage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSettingsRepository(ctrl)
	svc := NewService(repo)

	_, err := svc.SetLanguage(context.Background(), "user-1", "fr")
	assert.ErrorIs(t, err, ErrInvalidLanguage)

	repo.EXPECT().Get(gomock.Any(), "user-1").Return(nil, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	settings, err := svc.SetLanguage(context.Background(), "user-1", domain.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageEN, settings.Language)
	assert.Len(t, settings.NavItems, 9)
}
