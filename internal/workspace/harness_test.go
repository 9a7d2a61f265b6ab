package workspace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/infrastructure/repository"
	"github.com/vfg2006/bizdash-api/internal/api"
	"github.com/vfg2006/bizdash-api/internal/api/events"
	"github.com/vfg2006/bizdash-api/internal/config"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
	"github.com/vfg2006/bizdash-api/internal/usecases/dashboarding"
	"github.com/vfg2006/bizdash-api/internal/usecases/managing"
	"github.com/vfg2006/bizdash-api/internal/usecases/preferences"
	"github.com/vfg2006/bizdash-api/pkg/bizclient"
	"github.com/vfg2006/bizdash-api/pkg/log"
)

type nopMailer struct{}

func (nopMailer) SendVerificationCode(context.Context, string, string, string) error { return nil }

// countingTransport conta as requisições que chegam ao backend
type countingTransport struct {
	requests atomic.Int64
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.requests.Add(1)
	return http.DefaultTransport.RoundTrip(req)
}

type testBackend struct {
	url string
}

// newTestBackend sobe a API completa sobre sqlite em memória
func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	log.SetupTestLogger()

	ctx := context.Background()
	conn, err := postgres.Open(ctx, postgres.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.Migrate(ctx))

	cfg := &config.Config{
		Server: config.Server{AllowedOrigins: []string{"*"}},
		Auth: config.Auth{
			Secret:   "segredo-de-teste",
			TokenTTL: time.Hour,
		},
	}

	clientRepo := repository.NewClientRepository(conn)
	projectRepo := repository.NewProjectRepository(conn)
	saleRepo := repository.NewSaleRepository(conn)
	taskRepo := repository.NewTaskRepository(conn)
	targetRepo := repository.NewTargetRepository(conn)

	hub := events.NewHub()
	t.Cleanup(hub.Close)

	services := api.Services{
		DB: conn,
		Authenticator: authenticating.NewService(
			repository.NewUserRepository(conn),
			repository.NewSessionRepository(conn),
			nopMailer{},
			hub,
			cfg,
		),
		Manager: managing.NewService(managing.Repositories{
			Clients:  clientRepo,
			Projects: projectRepo,
			Sales:    saleRepo,
			Payments: repository.NewPaymentRepository(conn),
			Tasks:    taskRepo,
			Services: repository.NewServiceRepository(conn),
			Targets:  targetRepo,
		}),
		Preferences: preferences.NewService(repository.NewSettingsRepository(conn)),
		Dashboarder: dashboarding.NewService(clientRepo, projectRepo, saleRepo, taskRepo, targetRepo),
		Hub:         hub,
	}

	srv := httptest.NewServer(api.NewHandler(cfg, services))
	t.Cleanup(srv.Close)

	return &testBackend{url: srv.URL}
}

// newClient retorna um cliente com o próprio armazenamento de token
func (b *testBackend) newClient(t *testing.T) (*bizclient.Client, *countingTransport) {
	t.Helper()
	transport := &countingTransport{}
	c, err := bizclient.New(b.url, bizclient.WithHTTPClient(&http.Client{Transport: transport, Timeout: 5 * time.Second}))
	require.NoError(t, err)
	return c, transport
}

// registerOwner cadastra um usuário ativo e devolve um workspace ainda sem sessão
func (b *testBackend) registerOwner(t *testing.T, email string) (*Workspace, *bizclient.Client, *countingTransport) {
	t.Helper()
	c, transport := b.newClient(t)

	_, err := c.SignUp(context.Background(), domain.SignUpRequest{
		Name:     "Rahim",
		Email:    email,
		Phone:    "01700000000",
		Password: "secret1",
	})
	require.NoError(t, err)

	return New(c), c, transport
}
