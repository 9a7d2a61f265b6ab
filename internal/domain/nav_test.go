package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultNavItems(t *testing.T) {
	items := DefaultNavItems()

	require.Len(t, items, 9)
	assert.NoError(t, ValidateNav(items))

	// cópias independentes
	items[0].Visible = false
	assert.True(t, DefaultNavItems()[0].Visible)
}

func TestNavEdits(t *testing.T) {
	items := DefaultNavItems()

	toggled, err := ToggleVisibility(items, "2")
	require.NoError(t, err)
	assert.False(t, toggled[1].Visible)
	assert.True(t, items[1].Visible)
	assert.Len(t, VisibleNavItems(toggled), 8)

	renamed, err := RenameLocalized(items, "2", "গ্রাহক")
	require.NoError(t, err)
	assert.Equal(t, "গ্রাহক", renamed[1].DisplayName(LanguageBN))
	assert.Equal(t, "Clients", renamed[1].DisplayName(LanguageEN))

	_, err = ToggleVisibility(items, "99")
	assert.ErrorIs(t, err, ErrNavItemNotFound)
}

func TestAddCustomItem(t *testing.T) {
	items, item, err := AddCustomItem(DefaultNavItems(), "  Monthly Reports ")
	require.NoError(t, err)

	assert.Equal(t, "/custom-monthly-reports", item.Path)
	assert.Equal(t, "Monthly Reports", item.Name)
	assert.NotEmpty(t, item.ID)
	assert.Len(t, items, 10)
	assert.NoError(t, ValidateNav(items))

	_, _, err = AddCustomItem(items, "monthly reports")
	assert.ErrorIs(t, err, ErrNavPathDuplicate)

	_, _, err = AddCustomItem(items, "   ")
	assert.ErrorIs(t, err, ErrNavEmptyName)
}

func TestValidateNav(t *testing.T) {
	items := DefaultNavItems()
	items[1].ID = items[0].ID
	assert.ErrorIs(t, ValidateNav(items), ErrNavDuplicatedID)

	items = DefaultNavItems()
	items[1].Path = "clients"
	assert.Error(t, ValidateNav(items))
}

func TestOverlayNav(t *testing.T) {
	assert.Equal(t, DefaultNavItems(), OverlayNav(nil))

	persisted := DefaultNavItems()[:3]
	assert.Equal(t, persisted, OverlayNav(persisted))
}
