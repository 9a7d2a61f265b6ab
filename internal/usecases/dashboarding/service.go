package dashboarding

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/infrastructure/repository"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"golang.org/x/sync/errgroup"
)

type Dashboarder interface {
	GetStats(ctx context.Context, ownerID string, r domain.RevenueRange) (*domain.DashboardStats, error)
}

type Service struct {
	clientRepo  repository.ClientRepository
	projectRepo repository.ProjectRepository
	saleRepo    repository.SaleRepository
	taskRepo    repository.TaskRepository
	targetRepo  repository.TargetRepository
	now         func() time.Time
}

func NewService(
	clientRepo repository.ClientRepository,
	projectRepo repository.ProjectRepository,
	saleRepo repository.SaleRepository,
	taskRepo repository.TaskRepository,
	targetRepo repository.TargetRepository,
) Dashboarder {
	return &Service{
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		saleRepo:    saleRepo,
		taskRepo:    taskRepo,
		targetRepo:  targetRepo,
		now:         time.Now,
	}
}

// GetStats lê as coleções em paralelo e calcula as estatísticas do painel
func (s *Service) GetStats(ctx context.Context, ownerID string, r domain.RevenueRange) (*domain.DashboardStats, error) {
	var (
		clients  []domain.Client
		projects []domain.Project
		sales    []domain.Sale
		tasks    []domain.Task
		targets  []domain.Target
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		clients, err = s.clientRepo.List(gctx, ownerID, domain.ListFilter{})
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.projectRepo.List(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		sales, err = s.saleRepo.List(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.taskRepo.List(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		targets, err = s.targetRepo.List(gctx, ownerID)
		return err
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).WithField("user_id", ownerID).Error("Erro ao carregar coleções do painel")
		return nil, err
	}

	stats := domain.ComputeDashboard(clients, projects, sales, tasks, targets, r, s.now())
	return &stats, nil
}
