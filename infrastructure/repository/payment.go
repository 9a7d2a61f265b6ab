package repository

import (
	"context"

	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

const paymentsTable = "payments"

var paymentColumns = columns("client_id", "amount", "date", "method", "details", "status")

type PaymentRepository interface {
	List(ctx context.Context, userID string) ([]domain.Payment, error)
	Get(ctx context.Context, userID, id string) (*domain.Payment, error)
	Create(ctx context.Context, payment *domain.Payment) error
	Update(ctx context.Context, payment *domain.Payment, expectedVersion int) error
	Delete(ctx context.Context, userID, id string) error
}

type paymentRepository struct {
	table ownedTable
}

func NewPaymentRepository(conn *postgres.Connection) PaymentRepository {
	return &paymentRepository{
		table: newOwnedTable(conn, paymentsTable),
	}
}

func (r *paymentRepository) List(ctx context.Context, userID string) ([]domain.Payment, error) {
	payments := []domain.Payment{}
	if err := r.table.selectAll(ctx, &payments, paymentColumns, userID, nil, "date DESC", "created_at DESC"); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) Get(ctx context.Context, userID, id string) (*domain.Payment, error) {
	var payment domain.Payment
	if err := r.table.selectOne(ctx, &payment, paymentColumns, userID, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	stampNew(&p.Record, r.table.now())

	return r.table.insert(ctx, paymentColumns, []any{
		p.ID, p.UserID, p.Version, p.CreatedAt, p.UpdatedAt,
		p.ClientID, p.Amount, p.Date, p.Method, p.Details, p.Status,
	})
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment, expectedVersion int) error {
	updatedAt, err := r.table.update(ctx, p.UserID, p.ID, expectedVersion, map[string]any{
		"client_id": p.ClientID,
		"amount":    p.Amount,
		"date":      p.Date,
		"method":    p.Method,
		"details":   p.Details,
		"status":    p.Status,
	})
	if err != nil {
		return err
	}

	p.UpdatedAt = updatedAt
	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, userID, id string) error {
	return r.table.delete(ctx, userID, id)
}
