package managing

import (
	"context"

	"github.com/vfg2006/bizdash-api/internal/domain"
)

func (s *Service) ListServices(ctx context.Context, ownerID string, _ domain.ListFilter) ([]domain.Service, error) {
	services, err := s.repos.Services.List(ctx, ownerID)
	if err != nil {
		return nil, fromRepository(domain.CollectionServices, "", err)
	}
	return services, nil
}

func (s *Service) CreateService(ctx context.Context, ownerID string, draft domain.ServiceDraft) (*domain.Service, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionServices, err)
	}

	service := &domain.Service{Record: domain.Record{UserID: ownerID}}
	draft.Apply(service)

	if err := s.repos.Services.Create(ctx, service); err != nil {
		return nil, fromRepository(domain.CollectionServices, "", err)
	}
	return service, nil
}

func (s *Service) UpdateService(ctx context.Context, ownerID, id string, draft domain.ServiceDraft) (*domain.Service, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionServices, err)
	}

	service, err := s.repos.Services.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fromRepository(domain.CollectionServices, id, err)
	}
	if err := checkVersion(domain.CollectionServices, service.Record, draft.Version); err != nil {
		return nil, err
	}

	draft.Apply(service)

	if err := s.repos.Services.Update(ctx, service, draft.Version); err != nil {
		return nil, fromRepository(domain.CollectionServices, id, err)
	}

	service.Version++
	return service, nil
}

func (s *Service) DeleteService(ctx context.Context, ownerID, id string) error {
	if err := s.repos.Services.Delete(ctx, ownerID, id); err != nil {
		return fromRepository(domain.CollectionServices, id, err)
	}
	return nil
}
