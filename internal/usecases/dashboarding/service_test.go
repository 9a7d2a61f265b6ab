package dashboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizdash-api/infrastructure/repository/mocks"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_GetStats(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	projectRepo := mocks.NewMockProjectRepository(ctrl)
	saleRepo := mocks.NewMockSaleRepository(ctrl)
	taskRepo := mocks.NewMockTaskRepository(ctrl)
	targetRepo := mocks.NewMockTargetRepository(ctrl)

	service := &Service{
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		saleRepo:    saleRepo,
		taskRepo:    taskRepo,
		targetRepo:  targetRepo,
		now:         func() time.Time { return time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC) },
	}

	clientRepo.EXPECT().List(gomock.Any(), "user-1", domain.ListFilter{}).Return([]domain.Client{
		{Name: "A", Revenue: 15000},
		{Name: "B", Revenue: 5000},
	}, nil)
	projectRepo.EXPECT().List(gomock.Any(), "user-1").Return([]domain.Project{
		{Status: domain.ProjectStatusOngoing},
		{Status: domain.ProjectStatusDone},
	}, nil)
	saleRepo.EXPECT().List(gomock.Any(), "user-1").Return([]domain.Sale{
		{Date: "2024-05-01", Amount: 100, Status: domain.SaleStatusPaid},
		{Date: "2024-05-01", Amount: 50, Status: domain.SaleStatusDue},
		{Date: "2024-05-02", Amount: 200, Status: domain.SaleStatusPaid},
		{Date: "2024-04-30", Amount: 999, Status: domain.SaleStatusPaid},
	}, nil)
	taskRepo.EXPECT().List(gomock.Any(), "user-1").Return([]domain.Task{
		{Status: domain.TaskStatusTodo},
		{Status: domain.TaskStatusTodo},
		{Status: domain.TaskStatusDone},
	}, nil)
	targetRepo.EXPECT().List(gomock.Any(), "user-1").Return([]domain.Target{
		{Record: domain.Record{ID: "t1"}, Title: "Meta", Goal: 50000, Current: 62500},
	}, nil)

	stats, err := service.GetStats(context.Background(), "user-1", domain.RangeMonth)

	require.NoError(t, err)
	assert.Equal(t, 1349.0, stats.TotalRevenue)
	assert.Equal(t, 20000.0, stats.ClientRevenue)
	assert.Equal(t, 50.0, stats.DueAmount)
	assert.Equal(t, 1, stats.ActiveProjects)
	assert.Equal(t, 2, stats.PendingTasks)
	assert.Equal(t, 2, stats.TotalClients)
	require.Len(t, stats.RevenueSeries, 2)
	assert.Equal(t, 150.0, stats.RevenueSeries[0].Amount)
	assert.Equal(t, 200.0, stats.RevenueSeries[1].Amount)
	require.Len(t, stats.Targets, 1)
	assert.Equal(t, 100.0, stats.Targets[0].Progress)
}

func TestService_GetStats_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)

	clientRepo := mocks.NewMockClientRepository(ctrl)
	projectRepo := mocks.NewMockProjectRepository(ctrl)
	saleRepo := mocks.NewMockSaleRepository(ctrl)
	taskRepo := mocks.NewMockTaskRepository(ctrl)
	targetRepo := mocks.NewMockTargetRepository(ctrl)

	service := NewService(clientRepo, projectRepo, saleRepo, taskRepo, targetRepo)

	clientRepo.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	projectRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	saleRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout")).AnyTimes()
	taskRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	targetRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	stats, err := service.GetStats(context.Background(), "user-1", domain.RangeWeek)

	assert.Error(t, err)
	assert.Nil(t, stats)
}
