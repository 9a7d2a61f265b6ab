package repository

import (
	"context"

	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

const servicesTable = "services"

var serviceColumns = columns("name", "bn_name", "price", "description")

type ServiceRepository interface {
	List(ctx context.Context, userID string) ([]domain.Service, error)
	Get(ctx context.Context, userID, id string) (*domain.Service, error)
	Create(ctx context.Context, service *domain.Service) error
	Update(ctx context.Context, service *domain.Service, expectedVersion int) error
	Delete(ctx context.Context, userID, id string) error
}

type serviceRepository struct {
	table ownedTable
}

func NewServiceRepository(conn *postgres.Connection) ServiceRepository {
	return &serviceRepository{
		table: newOwnedTable(conn, servicesTable),
	}
}

// List retorna o catálogo de serviços em ordem alfabética
func (r *serviceRepository) List(ctx context.Context, userID string) ([]domain.Service, error) {
	services := []domain.Service{}
	if err := r.table.selectAll(ctx, &services, serviceColumns, userID, nil, "name ASC"); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) Get(ctx context.Context, userID, id string) (*domain.Service, error) {
	var service domain.Service
	if err := r.table.selectOne(ctx, &service, serviceColumns, userID, id); err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) Create(ctx context.Context, s *domain.Service) error {
	stampNew(&s.Record, r.table.now())

	return r.table.insert(ctx, serviceColumns, []any{
		s.ID, s.UserID, s.Version, s.CreatedAt, s.UpdatedAt,
		s.Name, s.BnName, s.Price, s.Description,
	})
}

func (r *serviceRepository) Update(ctx context.Context, s *domain.Service, expectedVersion int) error {
	updatedAt, err := r.table.update(ctx, s.UserID, s.ID, expectedVersion, map[string]any{
		"name":        s.Name,
		"bn_name":     s.BnName,
		"price":       s.Price,
		"description": s.Description,
	})
	if err != nil {
		return err
	}

	s.UpdatedAt = updatedAt
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, userID, id string) error {
	return r.table.delete(ctx, userID, id)
}
