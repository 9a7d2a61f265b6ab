package workspace

import (
	"context"

	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/pkg/bizclient"
)

// AuthBackend é a superfície de autenticação consumida pelo Gate
type AuthBackend interface {
	GetSession(ctx context.Context) (*domain.Session, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, req domain.SignUpRequest) (*bizclient.SignUpResult, error)
	Verify(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
	UpdateUser(ctx context.Context, req domain.UpdateMetadataRequest) (*domain.UserProfile, error)
	SubscribeAuthEvents(ctx context.Context) (<-chan domain.AuthEvent, error)
}

// DataBackend são as coleções e preferências do usuário
type DataBackend interface {
	ListClients(ctx context.Context, filter domain.ListFilter) ([]domain.Client, error)
	CreateClient(ctx context.Context, draft domain.ClientDraft) (*domain.Client, error)
	UpdateClient(ctx context.Context, id string, draft domain.ClientDraft) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error

	ListProjects(ctx context.Context) ([]domain.Project, error)
	CreateProject(ctx context.Context, draft domain.ProjectDraft) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, draft domain.ProjectDraft) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListSales(ctx context.Context) ([]domain.Sale, error)
	CreateSale(ctx context.Context, draft domain.SaleDraft) (*domain.Sale, error)
	UpdateSale(ctx context.Context, id string, draft domain.SaleDraft) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id string) error

	ListPayments(ctx context.Context) ([]domain.Payment, error)
	CreatePayment(ctx context.Context, draft domain.PaymentDraft) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, id string, draft domain.PaymentDraft) (*domain.Payment, error)
	DeletePayment(ctx context.Context, id string) error

	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, draft domain.TaskDraft) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error

	ListServices(ctx context.Context) ([]domain.Service, error)
	CreateService(ctx context.Context, draft domain.ServiceDraft) (*domain.Service, error)
	UpdateService(ctx context.Context, id string, draft domain.ServiceDraft) (*domain.Service, error)
	DeleteService(ctx context.Context, id string) error

	ListTargets(ctx context.Context) ([]domain.Target, error)
	CreateTarget(ctx context.Context, draft domain.TargetDraft) (*domain.Target, error)
	UpdateTarget(ctx context.Context, id string, draft domain.TargetDraft) (*domain.Target, error)
	DeleteTarget(ctx context.Context, id string) error

	GetSettings(ctx context.Context) (*domain.Settings, error)
	SaveNav(ctx context.Context, items []domain.NavItem) (*domain.Settings, error)
	SetLanguage(ctx context.Context, lang domain.Language) (*domain.Settings, error)
}

// Backend é tudo que a camada de estado precisa do serviço hospedado. *bizclient.Client o implementa.
type Backend interface {
	AuthBackend
	DataBackend
}

var _ Backend = (*bizclient.Client)(nil)
