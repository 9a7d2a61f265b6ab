// Package scheduler contém os serviços de agendamento de manutenção
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/internal/config"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
)

// Cleaner remove sessões vencidas e códigos de verificação antigos
type Cleaner interface {
	CleanupExpired(ctx context.Context, now time.Time) (authenticating.CleanupResult, error)
}

type SessionCleanupConfig struct {
	CronSchedule string
	Enabled      bool
}

type SessionCleanupService struct {
	scheduler *gocron.Scheduler
	cleaner   Cleaner
	config    SessionCleanupConfig
	now       func() time.Time

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResult          authenticating.CleanupResult
	lastError           string
}

func NewSessionCleanupService(cleaner Cleaner, cfg *config.Config) *SessionCleanupService {
	cleanupConfig := SessionCleanupConfig{
		CronSchedule: cfg.Cleanup.CronSchedule, // Default: 3h da manhã todos os dias
		Enabled:      cfg.Cleanup.Enabled,      // Default: desabilitado
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cleanupConfig.CronSchedule,
	}).Info("Configuração do agendador de limpeza de sessões carregada")

	return &SessionCleanupService{
		scheduler: gocron.NewScheduler(time.UTC),
		cleaner:   cleaner,
		config:    cleanupConfig,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *SessionCleanupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de limpeza de sessões desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de limpeza de sessões")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RunCleanup(ctx); err != nil {
			logrus.WithError(err).Error("Erro na limpeza de sessões")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza de sessões: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de limpeza de sessões")
		s.scheduler.Stop()
	}()

	return nil
}

// RunCleanup executa a limpeza. Uma execução concorrente é ignorada.
func (s *SessionCleanupService) RunCleanup(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Limpeza de sessões já está em execução")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	logrus.Info("Iniciando limpeza de sessões")

	result, err := s.cleaner.CleanupExpired(ctx, s.now())

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = s.now()
	s.lastResult = result
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
	s.syncMutex.Unlock()

	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"sessions":      result.Sessions,
		"verifications": result.Verifications,
	}).Info("Limpeza de sessões concluída")

	return nil
}

// TriggerManualSync inicia manualmente uma limpeza em segundo plano.
// Retorna false quando já existe uma execução em andamento.
func (s *SessionCleanupService) TriggerManualSync() bool {
	if s.IsRunning() {
		logrus.Info("Limpeza de sessões já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando limpeza manual de sessões")
	go func() {
		if err := s.RunCleanup(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na limpeza manual de sessões")
		}
	}()
	return true
}

func (s *SessionCleanupService) IsRunning() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.syncRunning
}

// GetStatus retorna o status atual do agendador
func (s *SessionCleanupService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"enabled":                s.config.Enabled,
		"cron":                   s.config.CronSchedule,
		"running":                s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_result":            s.lastResult,
		"last_error":             s.lastError,
	}
}
