package directclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository/mocks"
	"github.com/vfg2006/direct-insights-api/internal/config"
	"github.com/vfg2006/direct-insights-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func newTestTokenManager(store TokenStore, oauthURL string) *TokenManager {
	return NewTokenManager(&config.Direct{
		OAuthTokenURL: oauthURL,
		ClientID:      "client-id-teste",
		ClientSecret:  "client-secret-teste",
	}, store)
}

func TestGetToken_TokenValidoNaoRenova(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockTokenRepository(ctrl)
	store.EXPECT().GetByLogin("loja-exemplo").Return(&domain.Token{
		YandexLogin: "loja-exemplo",
		AccessToken: "token-atual",
		ExpiresAt:   time.Now().Add(6 * time.Hour),
	}, nil)

	manager := newTestTokenManager(store, "http://oauth.invalido")

	token, err := manager.GetToken(context.Background(), "loja-exemplo")
	require.NoError(t, err)
	assert.Equal(t, "token-atual", token)
}

func TestGetToken_TokenExpiradoRenovaEPersiste(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-antigo", r.PostForm.Get("refresh_token"))
		assert.Equal(t, "client-id-teste", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret-teste", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token-novo","refresh_token":"refresh-novo","expires_in":31536000,"token_type":"bearer"}`))
	}))
	defer server.Close()

	expired := &domain.Token{
		YandexLogin:  "loja-exemplo",
		AccessToken:  "token-vencido",
		RefreshToken: "refresh-antigo",
		ExpiresAt:    time.Now().Add(-1 * time.Hour),
	}

	store := mocks.NewMockTokenRepository(ctrl)
	// Primeira leitura encontra o token vencido; a releitura sob o lock
	// ainda o vê vencido, então a renovação prossegue.
	store.EXPECT().GetByLogin("loja-exemplo").Return(expired, nil).Times(2)
	store.EXPECT().SaveOrUpdate(gomock.Any()).DoAndReturn(func(token *domain.Token) error {
		assert.Equal(t, "token-novo", token.AccessToken)
		assert.Equal(t, "refresh-novo", token.RefreshToken)
		assert.True(t, token.ExpiresAt.After(time.Now().Add(24*time.Hour)))
		return nil
	})

	manager := newTestTokenManager(store, server.URL)

	token, err := manager.GetToken(context.Background(), "loja-exemplo")
	require.NoError(t, err)
	assert.Equal(t, "token-novo", token)
}

func TestGetToken_ReleituraSobLockEvitaRenovacaoDuplicada(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	expired := &domain.Token{
		YandexLogin:  "loja-exemplo",
		AccessToken:  "token-vencido",
		RefreshToken: "refresh-antigo",
		ExpiresAt:    time.Now().Add(-1 * time.Hour),
	}
	renewed := &domain.Token{
		YandexLogin: "loja-exemplo",
		AccessToken: "token-renovado-por-outro",
		ExpiresAt:   time.Now().Add(6 * time.Hour),
	}

	store := mocks.NewMockTokenRepository(ctrl)
	first := store.EXPECT().GetByLogin("loja-exemplo").Return(expired, nil)
	store.EXPECT().GetByLogin("loja-exemplo").Return(renewed, nil).After(first)

	manager := newTestTokenManager(store, "http://oauth.invalido")

	token, err := manager.GetToken(context.Background(), "loja-exemplo")
	require.NoError(t, err)
	assert.Equal(t, "token-renovado-por-outro", token)
}

func TestGetToken_SemTokenCadastrado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockTokenRepository(ctrl)
	store.EXPECT().GetByLogin("loja-sem-token").Return(nil, nil)

	manager := newTestTokenManager(store, "http://oauth.invalido")

	_, err := manager.GetToken(context.Background(), "loja-sem-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nenhum token cadastrado")
}

func TestGetToken_ServidorOAuthRecusaRenovacao(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"expired refresh token"}`))
	}))
	defer server.Close()

	expired := &domain.Token{
		YandexLogin:  "loja-exemplo",
		AccessToken:  "token-vencido",
		RefreshToken: "refresh-vencido",
		ExpiresAt:    time.Now().Add(-1 * time.Hour),
	}

	store := mocks.NewMockTokenRepository(ctrl)
	store.EXPECT().GetByLogin("loja-exemplo").Return(expired, nil).Times(2)

	manager := newTestTokenManager(store, server.URL)

	_, err := manager.GetToken(context.Background(), "loja-exemplo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
}
