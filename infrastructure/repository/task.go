package repository

import (
	"context"

	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

const tasksTable = "tasks"

var taskColumns = columns("title", "project_id", "assigned_to", "due_date", "priority", "status")

type TaskRepository interface {
	List(ctx context.Context, userID string) ([]domain.Task, error)
	Get(ctx context.Context, userID, id string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task, expectedVersion int) error
	Delete(ctx context.Context, userID, id string) error
}

type taskRepository struct {
	table ownedTable
}

func NewTaskRepository(conn *postgres.Connection) TaskRepository {
	return &taskRepository{
		table: newOwnedTable(conn, tasksTable),
	}
}

func (r *taskRepository) List(ctx context.Context, userID string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	if err := r.table.selectAll(ctx, &tasks, taskColumns, userID, nil, "due_date ASC", "created_at DESC"); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Get(ctx context.Context, userID, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.table.selectOne(ctx, &task, taskColumns, userID, id); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	stampNew(&t.Record, r.table.now())

	return r.table.insert(ctx, taskColumns, []any{
		t.ID, t.UserID, t.Version, t.CreatedAt, t.UpdatedAt,
		t.Title, t.ProjectID, t.AssignedTo, t.DueDate, t.Priority, t.Status,
	})
}

func (r *taskRepository) Update(ctx context.Context, t *domain.Task, expectedVersion int) error {
	updatedAt, err := r.table.update(ctx, t.UserID, t.ID, expectedVersion, map[string]any{
		"title":       t.Title,
		"project_id":  t.ProjectID,
		"assigned_to": t.AssignedTo,
		"due_date":    t.DueDate,
		"priority":    t.Priority,
		"status":      t.Status,
	})
	if err != nil {
		return err
	}

	t.UpdatedAt = updatedAt
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, userID, id string) error {
	return r.table.delete(ctx, userID, id)
}
