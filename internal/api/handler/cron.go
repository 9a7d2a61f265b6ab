package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
)

// CronJobTypeCleanup é a limpeza de sessões vencidas e códigos de verificação
const CronJobTypeCleanup = "cleanup"

// CronJob é o contrato dos serviços agendados executáveis manualmente
type CronJob interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron indexados pelo tipo da URL
type CronJobServices map[string]CronJob

// RunCronJob executa manualmente a cron job informada
func RunCronJob(cronType string, job CronJob) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.WithField("type", cronType).Info("INIT - RunCronJob")

		if job == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de cron não disponível", nil)
			return
		}

		started := job.TriggerManualSync()

		message := "Cron job iniciada com sucesso"
		if !started {
			message = "Cron job já está em execução"
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": message,
			"type":    cronType,
			"started": started,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := make(map[string]any, len(services))
		for name, job := range services {
			if job != nil {
				status[name] = job.GetStatus()
			}
		}

		writeJSON(w, http.StatusOK, status)
	}
}
