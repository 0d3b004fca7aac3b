package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository"
	"github.com/vfg2006/direct-insights-api/internal/domain"
	"github.com/vfg2006/direct-insights-api/pkg/apiErrors"
	"github.com/vfg2006/direct-insights-api/pkg/utils"
)

// statsRange resolve o intervalo de consulta a partir dos parâmetros
// from e to. Sem parâmetros, o padrão é a última semana completa.
func statsRange(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	from := utils.LastFullWeekStart(now)
	to := utils.WeekEnd(from)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = *parsed
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = *parsed
	}

	return from, to, nil
}

// resolveAccount valida o ID da conta da URL e escreve o erro adequado
// quando a conta não existe.
func resolveAccount(w http.ResponseWriter, r *http.Request, accountRepo repository.AccountRepository) *domain.Account {
	id := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if id == "" {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)
		return nil
	}

	account, err := accountRepo.GetByID(id)
	if err != nil {
		logrus.Error("Erro ao buscar conta:", err)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar conta no banco de dados", nil)
		return nil
	}

	if account == nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Conta não encontrada", map[string]interface{}{
			"account_id": id,
		})
		return nil
	}

	return account
}

// GetWeeklyCampaignStats retorna as linhas semanais por campanha da conta
// no intervalo solicitado.
func GetWeeklyCampaignStats(
	accountRepo repository.AccountRepository,
	campaignStatRepo repository.CampaignStatRepository,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := resolveAccount(w, r, accountRepo)
		if account == nil {
			return
		}

		from, to, err := statsRange(r, time.Now())
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Datas inválidas. Formato esperado: AAAA-MM-DD", nil)
			return
		}

		stats, err := campaignStatRepo.GetByAccountAndRange(account.ID, from, to)
		if err != nil {
			logrus.Error("Erro ao consultar estatísticas semanais:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar estatísticas no banco de dados", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"account_id": account.ID,
			"from":       from.Format(time.DateOnly),
			"to":         to.Format(time.DateOnly),
			"stats":      stats,
		}); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

// GetWeeklyDetailStats retorna as linhas de um recorte dimensional
// (placement, search_query, geo, device ou demographic) da conta.
func GetWeeklyDetailStats(
	accountRepo repository.AccountRepository,
	detailStatRepo repository.DetailStatRepository,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slice := domain.StatSlice(httprouter.ParamsFromContext(r.Context()).ByName("slice"))
		if !domain.ValidDetailSlice(slice) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
				"Recorte inválido. Valores aceitos: placement, search_query, geo, device, demographic", nil)
			return
		}

		account := resolveAccount(w, r, accountRepo)
		if account == nil {
			return
		}

		from, to, err := statsRange(r, time.Now())
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Datas inválidas. Formato esperado: AAAA-MM-DD", nil)
			return
		}

		stats, err := detailStatRepo.GetByAccountAndRange(account.ID, slice, from, to)
		if err != nil {
			logrus.Error("Erro ao consultar estatísticas do recorte:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar estatísticas no banco de dados", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"account_id": account.ID,
			"slice":      slice,
			"from":       from.Format(time.DateOnly),
			"to":         to.Format(time.DateOnly),
			"stats":      stats,
		}); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}
