package repository

import (
	"context"

	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

const salesTable = "sales"

var saleColumns = columns("client_id", "project_id", "amount", "date", "status")

type SaleRepository interface {
	List(ctx context.Context, userID string) ([]domain.Sale, error)
	Get(ctx context.Context, userID, id string) (*domain.Sale, error)
	Create(ctx context.Context, sale *domain.Sale) error
	Update(ctx context.Context, sale *domain.Sale, expectedVersion int) error
	Delete(ctx context.Context, userID, id string) error
}

type saleRepository struct {
	table ownedTable
}

func NewSaleRepository(conn *postgres.Connection) SaleRepository {
	return &saleRepository{
		table: newOwnedTable(conn, salesTable),
	}
}

// List retorna as vendas do usuário, mais recentes primeiro
func (r *saleRepository) List(ctx context.Context, userID string) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	if err := r.table.selectAll(ctx, &sales, saleColumns, userID, nil, "date DESC", "created_at DESC"); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) Get(ctx context.Context, userID, id string) (*domain.Sale, error) {
	var sale domain.Sale
	if err := r.table.selectOne(ctx, &sale, saleColumns, userID, id); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) Create(ctx context.Context, s *domain.Sale) error {
	stampNew(&s.Record, r.table.now())

	return r.table.insert(ctx, saleColumns, []any{
		s.ID, s.UserID, s.Version, s.CreatedAt, s.UpdatedAt,
		s.ClientID, s.ProjectID, s.Amount, s.Date, s.Status,
	})
}

func (r *saleRepository) Update(ctx context.Context, s *domain.Sale, expectedVersion int) error {
	updatedAt, err := r.table.update(ctx, s.UserID, s.ID, expectedVersion, map[string]any{
		"client_id":  s.ClientID,
		"project_id": s.ProjectID,
		"amount":     s.Amount,
		"date":       s.Date,
		"status":     s.Status,
	})
	if err != nil {
		return err
	}

	s.UpdatedAt = updatedAt
	return nil
}

func (r *saleRepository) Delete(ctx context.Context, userID, id string) error {
	return r.table.delete(ctx, userID, id)
}
