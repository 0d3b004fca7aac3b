package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository"
	"github.com/vfg2006/direct-insights-api/internal/domain"
	"github.com/vfg2006/direct-insights-api/pkg/apiErrors"
)

const (
	accountIDLength     = 6
	accountIDCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status"`
}

type CreateAccountRequest struct {
	ClientID    string  `json:"client_id"`
	YandexLogin string  `json:"yandex_login"`
	Name        string  `json:"name"`
	Nickname    *string `json:"nickname"`
}

// AccountList lista as contas cadastradas com a indicação de credencial
// OAuth disponível, para visibilidade do operador.
func AccountList(accountRepo repository.AccountRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accounts, err := accountRepo.List()
		if err != nil {
			logrus.Error("Erro ao listar contas:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar contas no banco de dados", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(accounts); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

// CreateAccount cadastra uma conta do Direct. A conta nasce ativa, mas só
// entra na sincronização depois de receber credenciais OAuth.
func CreateAccount(accountRepo repository.AccountRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateAccount")

		w.Header().Set("Content-Type", "application/json")

		var req CreateAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		if req.ClientID == "" || req.YandexLogin == "" || req.Name == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "client_id, yandex_login e name são obrigatórios", nil)
			return
		}

		existing, err := accountRepo.GetByYandexLogin(req.YandexLogin)
		if err != nil {
			logrus.Error("Erro ao consultar conta:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar contas no banco de dados", nil)
			return
		}
		if existing != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Já existe uma conta com este login", map[string]interface{}{
				"yandex_login": req.YandexLogin,
			})
			return
		}

		id, err := gonanoid.Generate(accountIDCharacters, accountIDLength)
		if err != nil {
			logrus.Error("Erro ao gerar identificador da conta:", err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao gerar identificador único", nil)
			return
		}

		account := &domain.Account{
			ID:          id,
			ClientID:    req.ClientID,
			YandexLogin: req.YandexLogin,
			Name:        req.Name,
			Nickname:    req.Nickname,
			Status:      domain.AccountStatusActive,
		}

		if err := accountRepo.SaveOrUpdate(account); err != nil {
			logrus.Error("Erro ao salvar conta:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao salvar conta no banco de dados", nil)
			return
		}

		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(account); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

// UpdateAccountStatus ativa ou desativa uma conta. Contas inativas ficam
// fora das sincronizações sem perder o histórico já gravado.
func UpdateAccountStatus(accountRepo repository.AccountRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateAccountStatus")

		w.Header().Set("Content-Type", "application/json")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta é obrigatório", nil)
			return
		}

		var req UpdateAccountStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		if req.Status != domain.AccountStatusActive && req.Status != domain.AccountStatusInactive {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Status inválido. Valores aceitos: ACTIVE, INACTIVE", nil)
			return
		}

		account, err := accountRepo.GetByID(id)
		if err != nil {
			logrus.Error("Erro ao buscar conta:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar conta no banco de dados", nil)
			return
		}

		if account == nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Conta não encontrada", map[string]interface{}{
				"account_id": id,
			})
			return
		}

		if err := accountRepo.UpdateStatus(id, req.Status); err != nil {
			logrus.Error("Erro ao atualizar status da conta:", err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao atualizar conta no banco de dados", nil)
			return
		}

		account.Status = req.Status

		if err := json.NewEncoder(w).Encode(account); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}
