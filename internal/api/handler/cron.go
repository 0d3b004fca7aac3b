package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/direct-insights-api/internal/domain"
	"github.com/vfg2006/direct-insights-api/internal/scheduler"
	"github.com/vfg2006/direct-insights-api/pkg/apiErrors"
	"github.com/vfg2006/direct-insights-api/pkg/middleware"
)

// CronJobServices contém os agendadores que podem ser acionados manualmente
type CronJobServices struct {
	DirectStatsSyncService *scheduler.DirectStatsSyncService
}

// RunDirectStatsSync dispara manualmente a sincronização semanal de
// estatísticas do Direct. A execução acontece em segundo plano.
func RunDirectStatsSync(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunDirectStatsSync")

		// Apenas administradores podem executar cron jobs
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != 1 {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem executar cron jobs", nil)
			return
		}

		if services.DirectStatsSyncService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização de estatísticas não disponível", nil)
			return
		}

		services.DirectStatsSyncService.TriggerManualSync()

		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    "direct-stats-sync",
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != 1 {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem verificar status de cron jobs", nil)
			return
		}

		status := map[string]any{
			"direct-stats-sync": services.DirectStatsSyncService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
