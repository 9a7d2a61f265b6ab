package handler

import (
	"net/http"

	"github.com/vfg2006/bizdash-api/internal/domain"
	"github.com/vfg2006/bizdash-api/internal/usecases/dashboarding"
	"github.com/vfg2006/bizdash-api/pkg/apiErrors"
	"github.com/vfg2006/bizdash-api/pkg/log"
)

// GetDashboard retorna as estatísticas do painel. O parâmetro range aceita today, week, month ou year.
func GetDashboard(service dashboarding.Dashboarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFrom(w, r)
		if !ok {
			return
		}

		revenueRange := domain.ParseRevenueRange(r.URL.Query().Get("range"))

		stats, err := service.GetStats(r.Context(), claims.UserID, revenueRange)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).WithField("user_id", claims.UserID).Error("Erro ao calcular painel")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao calcular estatísticas", nil)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}
