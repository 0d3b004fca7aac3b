package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository"
	"github.com/vfg2006/direct-insights-api/internal/domain"
	"github.com/vfg2006/direct-insights-api/pkg/apiErrors"
)

type SaveTokenRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SaveAccountToken cadastra ou substitui as credenciais OAuth de uma
// conta. A partir daí as renovações acontecem automaticamente.
func SaveAccountToken(accountRepo repository.AccountRepository, tokenRepo repository.TokenRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - SaveAccountToken")

		account := resolveAccount(w, r, accountRepo)
		if account == nil {
			return
		}

		var req SaveTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		if req.AccessToken == "" || req.RefreshToken == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "access_token e refresh_token são obrigatórios", nil)
			return
		}

		token := &domain.Token{
			YandexLogin:  account.YandexLogin,
			AccessToken:  req.AccessToken,
			RefreshToken: req.RefreshToken,
			ExpiresAt:    time.Now().Add(time.Duration(req.ExpiresIn) * time.Second),
		}

		if err := tokenRepo.SaveOrUpdate(token); err != nil {
			logrus.Error("Erro ao salvar token:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao salvar credenciais no banco de dados", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"account_id":   account.ID,
			"yandex_login": account.YandexLogin,
			"expires_at":   token.ExpiresAt.Format(time.RFC3339),
		})
	})
}

// DeleteAccountToken revoga as credenciais de uma conta. A conta continua
// cadastrada, mas fica de fora das sincronizações até receber novo token.
func DeleteAccountToken(accountRepo repository.AccountRepository, tokenRepo repository.TokenRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteAccountToken")

		account := resolveAccount(w, r, accountRepo)
		if account == nil {
			return
		}

		if err := tokenRepo.DeleteByLogin(account.YandexLogin); err != nil {
			logrus.Error("Erro ao remover token:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao remover credenciais no banco de dados", nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
