package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/infrastructure/integrator/mailer"
	"github.com/vfg2006/bizdash-api/infrastructure/repository"
	"github.com/vfg2006/bizdash-api/internal/api"
	"github.com/vfg2006/bizdash-api/internal/api/events"
	"github.com/vfg2006/bizdash-api/internal/config"
	"github.com/vfg2006/bizdash-api/internal/scheduler"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
	"github.com/vfg2006/bizdash-api/internal/usecases/dashboarding"
	"github.com/vfg2006/bizdash-api/internal/usecases/managing"
	"github.com/vfg2006/bizdash-api/internal/usecases/preferences"
	"github.com/vfg2006/bizdash-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel, cfg.App.Env)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := dbconn(ctx, cfg.Database)
	defer conn.Close()

	if err := conn.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar o schema do banco")
	}

	userRepo := repository.NewUserRepository(conn)
	sessionRepo := repository.NewSessionRepository(conn)
	settingsRepo := repository.NewSettingsRepository(conn)
	clientRepo := repository.NewClientRepository(conn)
	projectRepo := repository.NewProjectRepository(conn)
	saleRepo := repository.NewSaleRepository(conn)
	paymentRepo := repository.NewPaymentRepository(conn)
	taskRepo := repository.NewTaskRepository(conn)
	serviceRepo := repository.NewServiceRepository(conn)
	targetRepo := repository.NewTargetRepository(conn)

	hub := events.NewHub()

	authenticator := authenticating.NewService(userRepo, sessionRepo, mailer.New(cfg.Mail), hub, cfg)

	manager := managing.NewService(managing.Repositories{
		Clients:  clientRepo,
		Projects: projectRepo,
		Sales:    saleRepo,
		Payments: paymentRepo,
		Tasks:    taskRepo,
		Services: serviceRepo,
		Targets:  targetRepo,
	})

	dashboarder := dashboarding.NewService(clientRepo, projectRepo, saleRepo, taskRepo, targetRepo)
	prefs := preferences.NewService(settingsRepo)

	sessionCleanup := scheduler.NewSessionCleanupService(authenticator, cfg)
	if err := sessionCleanup.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de limpeza de sessões")
	}

	server, err := api.New(cfg, api.Services{
		DB:             conn,
		Authenticator:  authenticator,
		Manager:        manager,
		Preferences:    prefs,
		Dashboarder:    dashboarder,
		Hub:            hub,
		SessionCleanup: sessionCleanup,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// dbconn cria a conexão com o banco de dados
func dbconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao banco de dados")
	}

	logrus.WithField("driver", conn.Driver()).Info("Conexão com o banco de dados estabelecida com sucesso")
	return conn
}
