package directclient

import (
	"bytes"
	"context"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
	"github.com/vfg2006/direct-insights-api/internal/config"
	"github.com/vfg2006/direct-insights-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenProvider resolve um token de acesso válido para um login do Direct,
// renovando-o quando necessário.
type TokenProvider interface {
	GetToken(ctx context.Context, yandexLogin string) (string, error)
}

type Client interface {
	SubmitAndWait(ctx context.Context, account *domain.Account, definition directdomain.ReportDefinition) (string, error)
	ListCampaigns(ctx context.Context, account *domain.Account) ([]directdomain.Campaign, error)
}

type DirectClient struct {
	cfg        *config.Direct
	httpClient *http.Client
	tokens     TokenProvider
	policy     RetryPolicy
}

func NewClient(cfg *config.Direct, tokens TokenProvider, policy RetryPolicy) *DirectClient {
	return &DirectClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		tokens: tokens,
		policy: policy,
	}
}

// postJSON envia um POST com corpo JSON para a API do Direct com os headers
// exigidos pela documentação.
func (c *DirectClient) postJSON(ctx context.Context, url, token, clientLogin string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Client-Login", clientLogin)
	req.Header.Set("Accept-Language", "ru")
	req.Header.Set("Content-Type", "application/json")
	// Valores monetários na moeda do cliente, não em micros.
	req.Header.Set("returnMoneyInMicros", "false")

	return c.httpClient.Do(req)
}
