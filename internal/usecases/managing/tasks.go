package managing

import (
	"context"

	"github.com/vfg2006/bizdash-api/internal/domain"
)

func (s *Service) ListTasks(ctx context.Context, ownerID string, _ domain.ListFilter) ([]domain.Task, error) {
	tasks, err := s.repos.Tasks.List(ctx, ownerID)
	if err != nil {
		return nil, fromRepository(domain.CollectionTasks, "", err)
	}
	return tasks, nil
}

func (s *Service) CreateTask(ctx context.Context, ownerID string, draft domain.TaskDraft) (*domain.Task, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionTasks, err)
	}

	if err := s.checkTaskReferences(ctx, ownerID, draft); err != nil {
		return nil, err
	}

	task := &domain.Task{Record: domain.Record{UserID: ownerID}}
	draft.Apply(task)

	if err := s.repos.Tasks.Create(ctx, task); err != nil {
		return nil, fromRepository(domain.CollectionTasks, "", err)
	}
	return task, nil
}

func (s *Service) UpdateTask(ctx context.Context, ownerID, id string, draft domain.TaskDraft) (*domain.Task, error) {
	if err := draft.Validate(); err != nil {
		return nil, invalidDraft(domain.CollectionTasks, err)
	}

	task, err := s.repos.Tasks.Get(ctx, ownerID, id)
	if err != nil {
		return nil, fromRepository(domain.CollectionTasks, id, err)
	}
	if err := checkVersion(domain.CollectionTasks, task.Record, draft.Version); err != nil {
		return nil, err
	}

	if err := s.checkTaskReferences(ctx, ownerID, draft); err != nil {
		return nil, err
	}

	draft.Apply(task)

	if err := s.repos.Tasks.Update(ctx, task, draft.Version); err != nil {
		return nil, fromRepository(domain.CollectionTasks, id, err)
	}

	task.Version++
	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, ownerID, id string) error {
	if err := s.repos.Tasks.Delete(ctx, ownerID, id); err != nil {
		return fromRepository(domain.CollectionTasks, id, err)
	}
	return nil
}

// checkTaskReferences valida os vínculos do rascunho com registros do mesmo dono
func (s *Service) checkTaskReferences(ctx context.Context, ownerID string, draft domain.TaskDraft) error {
	if err := checkReference(ctx, s.repos.Projects.Exists, domain.CollectionTasks, ownerID, "project_id", draft.ProjectID); err != nil {
		return err
	}
	return nil
}
