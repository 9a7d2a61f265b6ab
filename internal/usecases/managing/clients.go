package managing

import (
	"context"

	"github.com/vfg2006/bizdash-api/internal/domain"
)

func (s *Service) ListClients(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Client, error) {
	clients, err := s.repos.Clients.List(ctx, ownerID, filter)
	if err != nil {
		return nil, fromRepository(domain.CollectionClients, "", err)
	}
	return clients, nil
}

func (s *Service) CreateClient(ctx context.Context, ownerID string, draft domain.ClientDraft) (*domain.Client, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionClients, err)
	}

	client := &domain.Client{Record: domain.Record{UserID: ownerID}}
	draft.Apply(client)

	if err := s.repos.Clients.Create(ctx, client); err != nil {
		return nil, fromRepository(domain.CollectionClients, "", err)
	}
	return client, nil
}

func (s *Service) UpdateClient(ctx context.Context, ownerID, id string, draft domain.ClientDraft) (*domain.Client, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionClients, err)
	}

	client, err := s.repos.Clients.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fromRepository(domain.CollectionClients, id, err)
	}
	if err := checkVersion(domain.CollectionClients, client.Record, draft.Version); err != nil {
		return nil, err
	}

	draft.Apply(client)

	if err := s.repos.Clients.Update(ctx, client, draft.Version); err != nil {
		return nil, fromRepository(domain.CollectionClients, id, err)
	}

	client.Version++
	return client, nil
}

func (s *Service) DeleteClient(ctx context.Context, ownerID, id string) error {
	if err := s.repos.Clients.Delete(ctx, ownerID, id); err != nil {
		return fromRepository(domain.CollectionClients, id, err)
	}
	return nil
}
