package directclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/direct-insights-api/internal/config"
	"github.com/vfg2006/direct-insights-api/internal/domain"
)

// TokenStore é a dependência de persistência de tokens do gerenciador.
type TokenStore interface {
	GetByLogin(yandexLogin string) (*domain.Token, error)
	SaveOrUpdate(token *domain.Token) error
}

// TokenManager resolve tokens de acesso por login do Direct, renovando-os
// via OAuth quando estão perto de expirar. As renovações são serializadas
// por um mutex para não disparar refresh duplicado do mesmo login.
type TokenManager struct {
	cfg        *config.Direct
	store      TokenStore
	httpClient *http.Client

	refreshMutex sync.Mutex
}

func NewTokenManager(cfg *config.Direct, store TokenStore) *TokenManager {
	return &TokenManager{
		cfg:   cfg,
		store: store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetToken devolve um token de acesso válido para o login informado,
// renovando-o primeiro se estiver expirado ou perto de expirar.
func (tm *TokenManager) GetToken(ctx context.Context, yandexLogin string) (string, error) {
	token, err := tm.store.GetByLogin(yandexLogin)
	if err != nil {
		return "", errors.Wrapf(err, "erro ao buscar token do login %s", yandexLogin)
	}
	if token == nil {
		return "", errors.Errorf("nenhum token cadastrado para o login %s", yandexLogin)
	}

	if !token.ExpiresSoon() {
		return token.AccessToken, nil
	}

	refreshed, err := tm.refreshToken(ctx, token)
	if err != nil {
		return "", err
	}
	return refreshed.AccessToken, nil
}

type oauthTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

// refreshToken troca o refresh token por um novo par de tokens no servidor
// OAuth e persiste o resultado.
func (tm *TokenManager) refreshToken(ctx context.Context, token *domain.Token) (*domain.Token, error) {
	tm.refreshMutex.Lock()
	defer tm.refreshMutex.Unlock()

	// Outra goroutine pode ter renovado enquanto esperávamos o lock.
	current, err := tm.store.GetByLogin(token.YandexLogin)
	if err == nil && current != nil && !current.ExpiresSoon() {
		return current, nil
	}

	if token.RefreshToken == "" {
		return nil, errors.Errorf("login %s não possui refresh token para renovação", token.YandexLogin)
	}

	logrus.WithField("yandex_login", token.YandexLogin).Info("Renovando token de acesso do Direct")

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", token.RefreshToken)
	form.Set("client_id", tm.cfg.ClientID)
	form.Set("client_secret", tm.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.cfg.OAuthTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao montar requisição de renovação de token")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "erro de rede ao renovar token")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler resposta do servidor OAuth")
	}

	var oauthResp oauthTokenResponse
	if err := json.Unmarshal(body, &oauthResp); err != nil {
		return nil, errors.Wrap(err, "resposta do servidor OAuth não é um JSON válido")
	}

	if resp.StatusCode != http.StatusOK || oauthResp.Error != "" {
		return nil, errors.Errorf(
			"servidor OAuth recusou a renovação do login %s: %s (%s)",
			token.YandexLogin, oauthResp.Error, oauthResp.ErrorDesc,
		)
	}

	token.AccessToken = oauthResp.AccessToken
	if oauthResp.RefreshToken != "" {
		token.RefreshToken = oauthResp.RefreshToken
	}
	token.ExpiresAt = time.Now().Add(time.Duration(oauthResp.ExpiresIn) * time.Second)
	token.UpdatedAt = time.Now()

	if err := tm.store.SaveOrUpdate(token); err != nil {
		return nil, errors.Wrapf(err, "erro ao persistir token renovado do login %s", token.YandexLogin)
	}

	logrus.WithFields(logrus.Fields{
		"yandex_login": token.YandexLogin,
		"expires_at":   token.ExpiresAt.Format(time.RFC3339),
	}).Info("Token do Direct renovado com sucesso")

	return token, nil
}
