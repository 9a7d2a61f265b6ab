package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/vfg2006/bizdash-api/infrastructure/database/postgres"
	"github.com/vfg2006/bizdash-api/infrastructure/repository"
	"github.com/vfg2006/bizdash-api/internal/config"
	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/usecases/managing"
	"github.com/vfg2006/bizdash-api/pkg/log"
	"github.com/vfg2006/bizdash-api/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type options struct {
	seed     bool
	email    string
	password string
}

func main() {
	var opts options
	pflag.BoolVar(&opts.seed, "seed-demo", false, "cria um usuário de demonstração com dados de exemplo")
	pflag.StringVar(&opts.email, "email", "demo@bizdash.local", "email do usuário de demonstração")
	pflag.StringVar(&opts.password, "password", "", "senha do usuário de demonstração (gerada quando vazia)")
	pflag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Erro ao carregar configuração: %v", err)
	}
	log.Setup(cfg.App.LogLevel, cfg.App.Env)

	ctx := context.Background()

	logrus.Info("Conectando ao banco de dados...")
	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.Fatalf("ERRO ao conectar ao banco de dados: %v", err)
	}
	defer conn.Close()

	startTime := time.Now()
	if err := conn.Migrate(ctx); err != nil {
		logrus.Fatalf("ERRO ao aplicar o schema: %v", err)
	}
	logrus.Infof("Schema aplicado em %v (driver %s)", time.Since(startTime), conn.Driver())

	if !opts.seed {
		return
	}

	if err := seedDemo(ctx, conn, opts); err != nil {
		logrus.Errorf("ERRO na carga de demonstração: %v", err)
		os.Exit(1)
	}
	logrus.Infof("Carga de demonstração concluída em %v!", time.Since(startTime))
}

func seedDemo(ctx context.Context, conn *postgres.Connection, opts options) error {
	users := repository.NewUserRepository(conn)
	email := strings.ToLower(strings.TrimSpace(opts.email))

	existing, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		logrus.Warnf("Usuário %s já existe, carga ignorada", email)
		return nil
	}

	password := opts.password
	if password == "" {
		if password, err = utils.GenerateID(); err != nil {
			return err
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := users.CreateUser(ctx, &domain.User{
		Name:         "Demo",
		Email:        email,
		Phone:        "01700000000",
		PasswordHash: string(hash),
		Active:       true,
	})
	if err != nil {
		return err
	}
	logrus.Infof("Usuário %s criado com a senha %s", user.Email, password)

	manager := managing.NewService(managing.Repositories{
		Clients:  repository.NewClientRepository(conn),
		Projects: repository.NewProjectRepository(conn),
		Sales:    repository.NewSaleRepository(conn),
		Payments: repository.NewPaymentRepository(conn),
		Tasks:    repository.NewTaskRepository(conn),
		Services: repository.NewServiceRepository(conn),
		Targets:  repository.NewTargetRepository(conn),
	})

	return seedRecords(ctx, manager, user.ID, time.Now())
}

func seedRecords(ctx context.Context, m managing.Manager, ownerID string, now time.Time) error {
	day := func(offset int) string {
		return utils.Today(now.AddDate(0, 0, offset))
	}

	clients := []domain.ClientDraft{
		{Name: "Rahim Traders", Company: "Rahim & Sons", Email: "rahim@example.com", Phone: "01711111111", Revenue: 15000},
		{Name: "Karim Fashion", Company: "Karim Fashion House", Phone: "01822222222", Revenue: 42000},
		{Name: "Nusrat Jahan", Email: "nusrat@example.com", Status: domain.ClientStatusCompleted, Revenue: 8000},
	}

	clientIDs := make([]string, 0, len(clients))
	for i, draft := range clients {
		draft.JoinDate = day(-30 * (i + 1))
		client, err := m.CreateClient(ctx, ownerID, draft)
		if err != nil {
			return err
		}
		clientIDs = append(clientIDs, client.ID)
	}
	logrus.Infof("Inseridos %d clientes", len(clientIDs))

	project, err := m.CreateProject(ctx, ownerID, domain.ProjectDraft{
		Name:      "Site institucional",
		ClientID:  clientIDs[0],
		Deadline:  day(20),
		Status:    domain.ProjectStatusOngoing,
		Priority:  domain.PriorityHigh,
		Budget:    50000,
		DueAmount: 20000,
	})
	if err != nil {
		return err
	}

	sales := []domain.SaleDraft{
		{ClientID: clientIDs[0], ProjectID: project.ID, Amount: 30000, Date: day(-2)},
		{ClientID: clientIDs[1], Amount: 12500, Date: day(-1), Status: domain.SaleStatusPending},
		{ClientID: clientIDs[1], Amount: 7000, Date: day(0), Status: domain.SaleStatusDue},
	}
	for _, draft := range sales {
		if _, err := m.CreateSale(ctx, ownerID, draft); err != nil {
			return err
		}
	}

	if _, err := m.CreatePayment(ctx, ownerID, domain.PaymentDraft{
		ClientID: clientIDs[0],
		Amount:   30000,
		Date:     day(-2),
		Method:   domain.PaymentMethodBKash,
		Details:  "TrxID 8N7A6B5C",
	}); err != nil {
		return err
	}

	if _, err := m.CreateTask(ctx, ownerID, domain.TaskDraft{
		Title:      "Enviar proposta",
		ProjectID:  project.ID,
		AssignedTo: "Demo",
		DueDate:    day(3),
	}); err != nil {
		return err
	}

	if _, err := m.CreateService(ctx, ownerID, domain.ServiceDraft{
		Name:   "Web design",
		BnName: "ওয়েব ডিজাইন",
		Price:  25000,
	}); err != nil {
		return err
	}

	_, err = m.CreateTarget(ctx, ownerID, domain.TargetDraft{
		Title:    "Meta do mês",
		Goal:     100000,
		Current:  49500,
		Deadline: day(25),
	})
	return err
}
