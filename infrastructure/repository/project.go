package repository

import (
	"context"

	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

const projectsTable = "projects"

var projectColumns = columns("name", "client_id", "deadline", "status", "priority", "budget", "due_amount", "description")

type ProjectRepository interface {
	List(ctx context.Context, userID string) ([]domain.Project, error)
	Get(ctx context.Context, userID, id string) (*domain.Project, error)
	Exists(ctx context.Context, userID, id string) (bool, error)
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project, expectedVersion int) error
	Delete(ctx context.Context, userID, id string) error
}

type projectRepository struct {
	table ownedTable
}

func NewProjectRepository(conn *postgres.Connection) ProjectRepository {
	return &projectRepository{
		table: newOwnedTable(conn, projectsTable),
	}
}

// List retorna os projetos do usuário ordenados pelo prazo
func (r *projectRepository) List(ctx context.Context, userID string) ([]domain.Project, error) {
	projects := []domain.Project{}
	if err := r.table.selectAll(ctx, &projects, projectColumns, userID, nil, "deadline ASC", "created_at DESC"); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) Get(ctx context.Context, userID, id string) (*domain.Project, error) {
	var project domain.Project
	if err := r.table.selectOne(ctx, &project, projectColumns, userID, id); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Exists(ctx context.Context, userID, id string) (bool, error) {
	return r.table.exists(ctx, userID, id)
}

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	stampNew(&p.Record, r.table.now())

	return r.table.insert(ctx, projectColumns, []any{
		p.ID, p.UserID, p.Version, p.CreatedAt, p.UpdatedAt,
		p.Name, p.ClientID, p.Deadline, p.Status, p.Priority, p.Budget, p.DueAmount, p.Description,
	})
}

func (r *projectRepository) Update(ctx context.Context, p *domain.Project, expectedVersion int) error {
	updatedAt, err := r.table.update(ctx, p.UserID, p.ID, expectedVersion, map[string]any{
		"name":        p.Name,
		"client_id":   p.ClientID,
		"deadline":    p.Deadline,
		"status":      p.Status,
		"priority":    p.Priority,
		"budget":      p.Budget,
		"due_amount":  p.DueAmount,
		"description": p.Description,
	})
	if err != nil {
		return err
	}

	p.UpdatedAt = updatedAt
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, userID, id string) error {
	return r.table.delete(ctx, userID, id)
}
