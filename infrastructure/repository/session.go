package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

const sessionsTable = "sessions"

var sessionColumns = []string{"id", "user_id", "expires_at", "revoked_at", "created_at"}

// SessionRepository guarda as sessões emitidas para permitir a revogação no logout
type SessionRepository interface {
	Create(ctx context.Context, session *domain.SessionRecord) error
	Get(ctx context.Context, id string) (*domain.SessionRecord, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	conn *postgres.Connection
}

func NewSessionRepository(conn *postgres.Connection) SessionRepository {
	return &sessionRepository{conn: conn}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.SessionRecord) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	sqlStr, args, err := r.conn.Builder().
		Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(s.ID, s.UserID, s.ExpiresAt, s.RevokedAt, s.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.ExecContext(ctx, sqlStr, args...)
	return classify(err)
}

// Get retorna nil, nil para sessão desconhecida
func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.SessionRecord, error) {
	sqlStr, args, err := r.conn.Builder().
		Select(sessionColumns...).
		From(sessionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var s domain.SessionRecord
	err = r.conn.GetContext(ctx, &s, sqlStr, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	sqlStr, args, err := r.conn.Builder().
		Update(sessionsTable).
		Set("revoked_at", at).
		Where(squirrel.Eq{"id": id, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.ExecContext(ctx, sqlStr, args...)
	return err
}

// DeleteExpired remove sessões vencidas, revogadas ou não
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	sqlStr, args, err := r.conn.Builder().
		Delete(sessionsTable).
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.conn.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
