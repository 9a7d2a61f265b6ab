package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/api/events"
	"github.com/vfg2006/bizdash-api/internal/api/handler"
	"github.com/vfg2006/bizdash-api/internal/api/handler/router"
	"github.com/vfg2006/bizdash-api/internal/config"
	"github.com/vfg2006/bizdash-api/internal/scheduler"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
	"github.com/vfg2006/bizdash-api/internal/usecases/dashboarding"
	"github.com/vfg2006/bizdash-api/internal/usecases/managing"
	"github.com/vfg2006/bizdash-api/internal/usecases/preferences"
	"github.com/vfg2006/bizdash-api/pkg/middleware"
)

// Services agrupa as dependências das rotas
type Services struct {
	DB             handler.Pinger
	Authenticator  authenticating.Authenticator
	Manager        managing.Manager
	Preferences    preferences.Preferences
	Dashboarder    dashboarding.Dashboarder
	Hub            *events.Hub
	SessionCleanup *scheduler.SessionCleanupService
}

type Server struct {
	httpServer *http.Server
	hub        *events.Hub
}

// NewHandler monta o router com a cadeia de middlewares globais
func NewHandler(cfg *config.Config, services Services) http.Handler {
	cronServices := handler.CronJobServices{}
	if services.SessionCleanup != nil {
		cronServices[handler.CronJobTypeCleanup] = services.SessionCleanup
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.DB)...),
		router.WithRoutes(handler.Authentication(services.Authenticator, services.Hub, cfg.Server.AllowedOrigins)...),
		router.WithRoutes(handler.Collections(services.Manager)...),
		router.WithRoutes(handler.Settings(services.Preferences)...),
		router.WithRoutes(handler.Dashboard(services.Dashboarder)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(cfg *config.Config, services Services) (*Server, error) {
	if services.Authenticator == nil || services.Manager == nil {
		return nil, fmt.Errorf("autenticador e gerenciador de coleções são obrigatórios")
	}
	if services.Hub == nil {
		services.Hub = events.NewHub()
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           NewHandler(cfg, services),
			ReadHeaderTimeout: 2 * time.Second,
		},
		hub: services.Hub,
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	// websockets sequestrados não são fechados pelo http.Server
	if s.hub != nil {
		s.hub.Close()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
