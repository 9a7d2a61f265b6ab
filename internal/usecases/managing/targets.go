package managing

import (
	"context"

	"github.com/vfg2006/bizdash-api/internal/domain"
)

func (s *Service) ListTargets(ctx context.Context, ownerID string, _ domain.ListFilter) ([]domain.Target, error) {
	targets, err := s.repos.Targets.List(ctx, ownerID)
	if err != nil {
		return nil, fromRepository(domain.CollectionTargets, "", err)
	}
	return targets, nil
}

func (s *Service) CreateTarget(ctx context.Context, ownerID string, draft domain.TargetDraft) (*domain.Target, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionTargets, err)
	}

	target := &domain.Target{Record: domain.Record{UserID: ownerID}}
	draft.Apply(target)

	if err := s.repos.Targets.Create(ctx, target); err != nil {
		return nil, fromRepository(domain.CollectionTargets, "", err)
	}
	return target, nil
}

func (s *Service) UpdateTarget(ctx context.Context, ownerID, id string, draft domain.TargetDraft) (*domain.Target, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionTargets, err)
	}

	target, err := s.repos.Targets.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fromRepository(domain.CollectionTargets, id, err)
	}
	if err := checkVersion(domain.CollectionTargets, target.Record, draft.Version); err != nil {
		return nil, err
	}

	draft.Apply(target)

	if err := s.repos.Targets.Update(ctx, target, draft.Version); err != nil {
		return nil, fromRepository(domain.CollectionTargets, id, err)
	}

	target.Version++
	return target, nil
}

func (s *Service) DeleteTarget(ctx context.Context, ownerID, id string) error {
	if err := s.repos.Targets.Delete(ctx, ownerID, id); err != nil {
		return fromRepository(domain.CollectionTargets, id, err)
	}
	return nil
}
