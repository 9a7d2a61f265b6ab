package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

var (
	ErrNotFound        = errors.New("registro não encontrado")
	ErrVersionConflict = errors.New("registro alterado por outra sessão")
	ErrDuplicate       = errors.New("registro duplicado")
)

// colunas comuns de domain.Record
var recordColumns = []string{"id", "user_id", "version", "created_at", "updated_at"}

func columns(extra ...string) []string {
	out := make([]string, 0, len(recordColumns)+len(extra))
	out = append(out, recordColumns...)
	return append(out, extra...)
}

// stampNew preenche id, versão e datas de um registro novo
func stampNew(rec *domain.Record, now time.Time) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Version == 0 {
		rec.Version = 1
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = rec.CreatedAt
}

// ownedTable concentra as operações comuns das tabelas escopadas por user_id
type ownedTable struct {
	conn  *postgres.Connection
	table string
	now   func() time.Time
}

func newOwnedTable(conn *postgres.Connection, table string) ownedTable {
	return ownedTable{
		conn:  conn,
		table: table,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (t ownedTable) selectAll(ctx context.Context, dest any, cols []string, userID string, where squirrel.Sqlizer, orderBy ...string) error {
	query := t.conn.Builder().
		Select(cols...).
		From(t.table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy(orderBy...)

	if where != nil {
		query = query.Where(where)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	return t.conn.SelectContext(ctx, dest, sqlStr, args...)
}

// selectOne retorna ErrNotFound quando o id não existe ou pertence a outro usuário
func (t ownedTable) selectOne(ctx context.Context, dest any, cols []string, userID, id string) error {
	sqlStr, args, err := t.conn.Builder().
		Select(cols...).
		From(t.table).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	err = t.conn.GetContext(ctx, dest, sqlStr, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (t ownedTable) insert(ctx context.Context, cols []string, values []any) error {
	sqlStr, args, err := t.conn.Builder().
		Insert(t.table).
		Columns(cols...).
		Values(values...).
		ToSql()
	if err != nil {
		return err
	}

	_, err = t.conn.ExecContext(ctx, sqlStr, args...)
	return classify(err)
}

// update aplica set no registro do usuário. expectedVersion > 0 ativa a checagem otimista.
func (t ownedTable) update(ctx context.Context, userID, id string, expectedVersion int, set map[string]any) (time.Time, error) {
	updatedAt := t.now()

	query := t.conn.Builder().
		Update(t.table).
		SetMap(set).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id, "user_id": userID})

	if expectedVersion > 0 {
		query = query.Where(squirrel.Eq{"version": expectedVersion})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return time.Time{}, err
	}

	res, err := t.conn.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return time.Time{}, classify(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return time.Time{}, err
	}

	if affected == 0 {
		exists, err := t.exists(ctx, userID, id)
		if err != nil {
			return time.Time{}, err
		}
		if exists {
			return time.Time{}, ErrVersionConflict
		}
		return time.Time{}, ErrNotFound
	}

	return updatedAt, nil
}

func (t ownedTable) delete(ctx context.Context, userID, id string) error {
	sqlStr, args, err := t.conn.Builder().
		Delete(t.table).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := t.conn.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t ownedTable) exists(ctx context.Context, userID, id string) (bool, error) {
	sqlStr, args, err := t.conn.Builder().
		Select("COUNT(1)").
		From(t.table).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := t.conn.GetContext(ctx, &count, sqlStr, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

// classify traduz violações de unicidade do postgres e do sqlite para ErrDuplicate
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}

	return err
}
