package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const settingsTable = "settings"

type SettingsRepository interface {
	Get(ctx context.Context, userID string) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) error
}

type settingsRepository struct {
	conn *postgres.Connection
}

func NewSettingsRepository(conn *postgres.Connection) SettingsRepository {
	return &settingsRepository{conn: conn}
}

type settingsRow struct {
	UserID    string    `db:"user_id"`
	Language  string    `db:"language"`
	NavItems  string    `db:"nav_items"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Get retorna nil, nil quando o usuário ainda não salvou preferências
func (r *settingsRepository) Get(ctx context.Context, userID string) (*domain.Settings, error) {
	sqlStr, args, err := r.conn.Builder().
		Select("user_id", "language", "nav_items", "updated_at").
		From(settingsTable).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row settingsRow
	err = r.conn.GetContext(ctx, &row, sqlStr, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	settings := &domain.Settings{
		UserID:    row.UserID,
		Language:  domain.Language(row.Language),
		UpdatedAt: row.UpdatedAt,
	}

	if row.NavItems != "" {
		if err := json.Unmarshal([]byte(row.NavItems), &settings.NavItems); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// Save grava o registro inteiro (upsert por user_id)
func (r *settingsRepository) Save(ctx context.Context, settings *domain.Settings) error {
	navJSON, err := json.Marshal(settings.NavItems)
	if err != nil {
		return err
	}

	settings.UpdatedAt = time.Now().UTC()

	sqlStr, args, err := r.conn.Builder().
		Insert(settingsTable).
		Columns("user_id", "language", "nav_items", "updated_at").
		Values(settings.UserID, string(settings.Language), string(navJSON), settings.UpdatedAt).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET language = excluded.language, nav_items = excluded.nav_items, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.ExecContext(ctx, sqlStr, args...)
	return err
}
