package managing

import (
	"context"

	"github.com/vfg2006/bizdash-api/infrastructure/repository"
	"github.com/vfg2006/bizdash-api/internal/domain"
)

// Manager expõe list/insert/update/delete de cada coleção, sempre escopado pelo dono
type Manager interface {
	ListClients(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Client, error)
	CreateClient(ctx context.Context, ownerID string, draft domain.ClientDraft) (*domain.Client, error)
	UpdateClient(ctx context.Context, ownerID, id string, draft domain.ClientDraft) (*domain.Client, error)
	DeleteClient(ctx context.Context, ownerID, id string) error

	ListProjects(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Project, error)
	CreateProject(ctx context.Context, ownerID string, draft domain.ProjectDraft) (*domain.Project, error)
	UpdateProject(ctx context.Context, ownerID, id string, draft domain.ProjectDraft) (*domain.Project, error)
	DeleteProject(ctx context.Context, ownerID, id string) error

	ListSales(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Sale, error)
	CreateSale(ctx context.Context, ownerID string, draft domain.SaleDraft) (*domain.Sale, error)
	UpdateSale(ctx context.Context, ownerID, id string, draft domain.SaleDraft) (*domain.Sale, error)
	DeleteSale(ctx context.Context, ownerID, id string) error

	ListPayments(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Payment, error)
	CreatePayment(ctx context.Context, ownerID string, draft domain.PaymentDraft) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, ownerID, id string, draft domain.PaymentDraft) (*domain.Payment, error)
	DeletePayment(ctx context.Context, ownerID, id string) error

	ListTasks(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Task, error)
	CreateTask(ctx context.Context, ownerID string, draft domain.TaskDraft) (*domain.Task, error)
	UpdateTask(ctx context.Context, ownerID, id string, draft domain.TaskDraft) (*domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, id string) error

	ListServices(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Service, error)
	CreateService(ctx context.Context, ownerID string, draft domain.ServiceDraft) (*domain.Service, error)
	UpdateService(ctx context.Context, ownerID, id string, draft domain.ServiceDraft) (*domain.Service, error)
	DeleteService(ctx context.Context, ownerID, id string) error

	ListTargets(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Target, error)
	CreateTarget(ctx context.Context, ownerID string, draft domain.TargetDraft) (*domain.Target, error)
	UpdateTarget(ctx context.Context, ownerID, id string, draft domain.TargetDraft) (*domain.Target, error)
	DeleteTarget(ctx context.Context, ownerID, id string) error
}

// Repositories agrupa os repositórios das coleções
type Repositories struct {
	Clients  repository.ClientRepository
	Projects repository.ProjectRepository
	Sales    repository.SaleRepository
	Payments repository.PaymentRepository
	Tasks    repository.TaskRepository
	Services repository.ServiceRepository
	Targets  repository.TargetRepository
}

type Service struct {
	repos Repositories
}

func NewService(repos Repositories) Manager {
	return &Service{repos: repos}
}

type existsFunc func(ctx context.Context, userID, id string) (bool, error)

// checkReference garante que o id referenciado pertence ao mesmo dono. Id vazio é aceito.
func checkReference(ctx context.Context, exists existsFunc, collection domain.Collection, ownerID, field, id string) error {
	if id == "" {
		return nil
	}

	ok, err := exists(ctx, ownerID, id)
	if err != nil {
		return fromRepository(collection, "", err)
	}
	if !ok {
		return unknownReference(collection, field, id)
	}
	return nil
}

// checkVersion falha cedo quando o rascunho foi aberto sobre uma versão antiga
func checkVersion(collection domain.Collection, rec domain.Record, expected int) error {
	if expected > 0 && expected != rec.Version {
		return fromRepository(collection, rec.ID, repository.ErrVersionConflict)
	}
	return nil
}
