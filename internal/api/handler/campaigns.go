package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct"
	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository"
	"github.com/vfg2006/direct-insights-api/pkg/apiErrors"
)

// ListCampaigns consulta as campanhas da conta direto no Direct,
// combinando as versões v5 e v501 da API.
func ListCampaigns(service direct.Integrator, accountRepo repository.AccountRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := r.URL.Query().Get("account_id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Parâmetro account_id é obrigatório", nil)
			return
		}

		account, err := accountRepo.GetByID(accountID)
		if err != nil {
			logrus.Error("Erro ao buscar conta:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar conta no banco de dados", nil)
			return
		}

		if account == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Conta não encontrada", map[string]interface{}{
				"account_id": accountID,
			})
			return
		}

		campaigns, err := service.ListCampaigns(r.Context(), account)
		if err != nil {
			logrus.Error("Erro ao listar campanhas:", err)

			if directErr, ok := directdomain.AsDirectError(err); ok && directErr.Kind == directdomain.KindAuth {
				apiErrors.WriteError(w, apiErrors.ErrExternalService, "Credencial inválida para a conta no Direct", map[string]interface{}{
					"account_id": accountID,
				})
				return
			}

			apiErrors.WriteError(w, apiErrors.ErrExternalService, "Erro ao consultar campanhas no Direct", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"account_id": accountID,
			"campaigns":  campaigns,
		}); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}
