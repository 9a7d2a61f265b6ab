package managing

import (
	"context"

	"github.com/vfg2006/bizdash-api/internal/domain"
)

func (s *Service) ListProjects(ctx context.Context, ownerID string, _ domain.ListFilter) ([]domain.Project, error) {
	projects, err := s.repos.Projects.List(ctx, ownerID)
	if err != nil {
		return nil, fromRepository(domain.CollectionProjects, "", err)
	}
	return projects, nil
}

func (s *Service) CreateProject(ctx context.Context, ownerID string, draft domain.ProjectDraft) (*domain.Project, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionProjects, err)
	}

	if err := s.checkProjectReferences(ctx, ownerID, draft); err != nil {
		return nil, err
	}

	project := &domain.Project{Record: domain.Record{UserID: ownerID}}
	draft.Apply(project)

	if err := s.repos.Projects.Create(ctx, project); err != nil {
		return nil, fromRepository(domain.CollectionProjects, "", err)
	}
	return project, nil
}

func (s *Service) UpdateProject(ctx context.Context, ownerID, id string, draft domain.ProjectDraft) (*domain.Project, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionProjects, err)
	}

	project, err := s.repos.Projects.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fromRepository(domain.CollectionProjects, id, err)
	}
	if err := checkVersion(domain.CollectionProjects, project.Record, draft.Version); err != nil {
		return nil, err
	}

	if err := s.checkProjectReferences(ctx, ownerID, draft); err != nil {
		return nil, err
	}

	draft.Apply(project)

	if err := s.repos.Projects.Update(ctx, project, draft.Version); err != nil {
		return nil, fromRepository(domain.CollectionProjects, id, err)
	}

	project.Version++
	return project, nil
}

func (s *Service) DeleteProject(ctx context.Context, ownerID, id string) error {
	if err := s.repos.Projects.Delete(ctx, ownerID, id); err != nil {
		return fromRepository(domain.CollectionProjects, id, err)
	}
	return nil
}

// checkProjectReferences valida os vínculos do rascunho com registros do mesmo dono
func (s *Service) checkProjectReferences(ctx context.Context, ownerID string, draft domain.ProjectDraft) error {
	if err := checkReference(ctx, s.repos.Clients.Exists, domain.CollectionProjects, ownerID, "client_id", draft.ClientID); err != nil {
		return err
	}
	return nil
}
