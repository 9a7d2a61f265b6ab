package repository

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

const clientsTable = "clients"

var clientColumns = columns("name", "company", "email", "phone", "status", "revenue", "join_date")

// likeEscaper neutraliza os curingas do LIKE no texto digitado pelo usuário
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type ClientRepository interface {
	List(ctx context.Context, userID string, filter domain.ListFilter) ([]domain.Client, error)
	Get(ctx context.Context, userID, id string) (*domain.Client, error)
	Exists(ctx context.Context, userID, id string) (bool, error)
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client, expectedVersion int) error
	Delete(ctx context.Context, userID, id string) error
}

type clientRepository struct {
	table ownedTable
}

func NewClientRepository(conn *postgres.Connection) ClientRepository {
	return &clientRepository{
		table: newOwnedTable(conn, clientsTable),
	}
}

// List retorna os clientes do usuário, mais novos primeiro
func (r *clientRepository) List(ctx context.Context, userID string, filter domain.ListFilter) ([]domain.Client, error) {
	var where squirrel.Sqlizer
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		where = squirrel.Expr(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(q)+"%")
	}

	clients := []domain.Client{}
	if err := r.table.selectAll(ctx, &clients, clientColumns, userID, where, "created_at DESC", "id"); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) Get(ctx context.Context, userID, id string) (*domain.Client, error) {
	var client domain.Client
	if err := r.table.selectOne(ctx, &client, clientColumns, userID, id); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Exists(ctx context.Context, userID, id string) (bool, error) {
	return r.table.exists(ctx, userID, id)
}

func (r *clientRepository) Create(ctx context.Context, c *domain.Client) error {
	stampNew(&c.Record, r.table.now())

	return r.table.insert(ctx, clientColumns, []any{
		c.ID, c.UserID, c.Version, c.CreatedAt, c.UpdatedAt,
		c.Name, c.Company, c.Email, c.Phone, c.Status, c.Revenue, c.JoinDate,
	})
}

func (r *clientRepository) Update(ctx context.Context, c *domain.Client, expectedVersion int) error {
	updatedAt, err := r.table.update(ctx, c.UserID, c.ID, expectedVersion, map[string]any{
		"name":      c.Name,
		"company":   c.Company,
		"email":     c.Email,
		"phone":     c.Phone,
		"status":    c.Status,
		"revenue":   c.Revenue,
		"join_date": c.JoinDate,
	})
	if err != nil {
		return err
	}

	c.UpdatedAt = updatedAt
	return nil
}

func (r *clientRepository) Delete(ctx context.Context, userID, id string) error {
	return r.table.delete(ctx, userID, id)
}
