package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

func openTestDB(t *testing.T) *postgres.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := postgres.Open(ctx, postgres.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.Migrate(ctx))
	return conn
}

func createUser(t *testing.T, conn *postgres.Connection, email string) *domain.User {
	t.Helper()
	user, err := NewUserRepository(conn).CreateUser(context.Background(), &domain.User{
		Name:         "Rahim",
		Email:        email,
		PasswordHash: "hash",
		Active:       true,
	})
	require.NoError(t, err)
	return user
}

func TestUserRepository(t *testing.T) {
	conn := openTestDB(t)
	repo := NewUserRepository(conn)
	ctx := context.Background()

	user := createUser(t, conn, "rahim@example.com")
	assert.NotEmpty(t, user.ID)

	found, err := repo.GetUserByEmail(ctx, "rahim@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.GetUserByEmail(ctx, "ninguem@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.CreateUser(ctx, &domain.User{Name: "Outro", Email: "rahim@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestClientRepository_OwnerScopeAndVersion(t *testing.T) {
	conn := openTestDB(t)
	repo := NewClientRepository(conn)
	ctx := context.Background()

	owner := createUser(t, conn, "owner@example.com")
	other := createUser(t, conn, "other@example.com")

	client := &domain.Client{
		Record: domain.Record{UserID: owner.ID},
		Name:   "Rahim Traders",
		Status: domain.ClientStatusActive,
	}
	require.NoError(t, repo.Create(ctx, client))
	assert.Equal(t, 1, client.Version)

	require.NoError(t, repo.Create(ctx, &domain.Client{
		Record: domain.Record{UserID: other.ID},
		Name:   "Karim Fashion",
		Status: domain.ClientStatusActive,
	}))

	t.Run("lista apenas os registros do dono", func(t *testing.T) {
		rows, err := repo.List(ctx, owner.ID, domain.ListFilter{})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Rahim Traders", rows[0].Name)
	})

	t.Run("busca por nome", func(t *testing.T) {
		rows, err := repo.List(ctx, owner.ID, domain.ListFilter{Query: "rahim"})
		require.NoError(t, err)
		assert.Len(t, rows, 1)

		rows, err = repo.List(ctx, owner.ID, domain.ListFilter{Query: "karim"})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("outro dono não enxerga o registro", func(t *testing.T) {
		_, err := repo.Get(ctx, other.ID, client.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, other.ID, client.ID), ErrNotFound)
	})

	t.Run("checagem otimista de versão", func(t *testing.T) {
		client.Revenue = 15000
		require.NoError(t, repo.Update(ctx, client, 1))

		stored, err := repo.Get(ctx, owner.ID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Version)
		assert.Equal(t, 15000.0, stored.Revenue)

		assert.ErrorIs(t, repo.Update(ctx, client, 1), ErrVersionConflict)
		assert.NoError(t, repo.Update(ctx, client, 0))
	})

	t.Run("exclusão", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, owner.ID, client.ID))

		exists, err := repo.Exists(ctx, owner.ID, client.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestClientRepository_SearchTreatsWildcardsLiterally(t *testing.T) {
	conn := openTestDB(t)
	repo := NewClientRepository(conn)
	ctx := context.Background()

	owner := createUser(t, conn, "owner@example.com")
	for _, name := range []string{"Rahim Traders", "50% Off Store", "Karim_Fashion"} {
		require.NoError(t, repo.Create(ctx, &domain.Client{
			Record: domain.Record{UserID: owner.ID},
			Name:   name,
			Status: domain.ClientStatusActive,
		}))
	}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "%", want: []string{"50% Off Store"}},
		{query: "_", want: []string{"Karim_Fashion"}},
		{query: `\`, want: nil},
		{query: "m_f", want: []string{"Karim_Fashion"}},
		{query: "r%s", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rows, err := repo.List(ctx, owner.ID, domain.ListFilter{Query: tt.query})
			require.NoError(t, err)

			var names []string
			for _, row := range rows {
				names = append(names, row.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSettingsRepository(t *testing.T) {
	conn := openTestDB(t)
	repo := NewSettingsRepository(conn)
	ctx := context.Background()

	user := createUser(t, conn, "owner@example.com")

	settings, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, settings)

	saved := domain.DefaultSettings(user.ID)
	saved.NavItems[1].Visible = false
	require.NoError(t, repo.Save(ctx, saved))

	saved.Language = domain.LanguageEN
	require.NoError(t, repo.Save(ctx, saved))

	settings, err = repo.Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, domain.LanguageEN, settings.Language)
	assert.Equal(t, saved.NavItems, settings.NavItems)
}

func TestSessionRepository(t *testing.T) {
	conn := openTestDB(t)
	repo := NewSessionRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	user := createUser(t, conn, "owner@example.com")

	require.NoError(t, repo.Create(ctx, &domain.SessionRecord{ID: "s-ativa", UserID: user.ID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &domain.SessionRecord{ID: "s-vencida", UserID: user.ID, ExpiresAt: now.Add(-time.Hour)}))

	require.NoError(t, repo.Revoke(ctx, "s-ativa", now))
	session, err := repo.Get(ctx, "s-ativa")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotNil(t, session.RevokedAt)

	deleted, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	gone, err := repo.Get(ctx, "s-vencida")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
