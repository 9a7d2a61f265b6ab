package repository

import (
	"context"

	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

const targetsTable = "targets"

var targetColumns = columns("title", "goal", "current_value", "deadline")

type TargetRepository interface {
	List(ctx context.Context, userID string) ([]domain.Target, error)
	Get(ctx context.Context, userID, id string) (*domain.Target, error)
	Create(ctx context.Context, target *domain.Target) error
	Update(ctx context.Context, target *domain.Target, expectedVersion int) error
	Delete(ctx context.Context, userID, id string) error
}

type targetRepository struct {
	table ownedTable
}

func NewTargetRepository(conn *postgres.Connection) TargetRepository {
	return &targetRepository{
		table: newOwnedTable(conn, targetsTable),
	}
}

func (r *targetRepository) List(ctx context.Context, userID string) ([]domain.Target, error) {
	targets := []domain.Target{}
	if err := r.table.selectAll(ctx, &targets, targetColumns, userID, nil, "deadline ASC", "created_at DESC"); err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *targetRepository) Get(ctx context.Context, userID, id string) (*domain.Target, error) {
	var target domain.Target
	if err := r.table.selectOne(ctx, &target, targetColumns, userID, id); err != nil {
		return nil, err
	}
	return &target, nil
}

func (r *targetRepository) Create(ctx context.Context, t *domain.Target) error {
	stampNew(&t.Record, r.table.now())

	return r.table.insert(ctx, targetColumns, []any{
		t.ID, t.UserID, t.Version, t.CreatedAt, t.UpdatedAt,
		t.Title, t.Goal, t.Current, t.Deadline,
	})
}

func (r *targetRepository) Update(ctx context.Context, t *domain.Target, expectedVersion int) error {
	updatedAt, err := r.table.update(ctx, t.UserID, t.ID, expectedVersion, map[string]any{
		"title":         t.Title,
		"goal":          t.Goal,
		"current_value": t.Current,
		"deadline":      t.Deadline,
	})
	if err != nil {
		return err
	}

	t.UpdatedAt = updatedAt
	return nil
}

func (r *targetRepository) Delete(ctx context.Context, userID, id string) error {
	return r.table.delete(ctx, userID, id)
}
