package directclient

import (
	"context"
	"io"
	"net/http"
	"sort"

	"github.com/sirupsen/logrus"
	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
	"github.com/vfg2006/direct-insights-api/internal/domain"
)

var campaignFieldNames = []string{"Id", "Name", "State", "Status", "Type"}

// ListCampaigns busca as campanhas do cliente nas duas versões da API
// (v5 e v501) e unifica os resultados por ID, ordenados por nome. Falha em
// uma das versões não derruba a listagem se a outra respondeu.
func (c *DirectClient) ListCampaigns(ctx context.Context, account *domain.Account) ([]directdomain.Campaign, error) {
	token, err := c.tokens.GetToken(ctx, account.YandexLogin)
	if err != nil {
		return nil, &directdomain.DirectError{
			Kind:    directdomain.KindAuth,
			Message: "não foi possível obter token de acesso para " + account.YandexLogin,
			Err:     err,
		}
	}

	payload := map[string]interface{}{
		"method": "get",
		"params": map[string]interface{}{
			"SelectionCriteria": map[string]interface{}{},
			"FieldNames":        campaignFieldNames,
		},
	}

	seen := make(map[int64]struct{})
	campaigns := make([]directdomain.Campaign, 0)
	var lastErr error

	for _, url := range []string{c.cfg.V5URL() + "campaigns", c.cfg.V501URL() + "campaigns"} {
		batch, err := c.fetchCampaigns(ctx, url, token, account.YandexLogin, payload)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"yandex_login": account.YandexLogin,
				"url":          url,
				"error":        err.Error(),
			}).Warn("Falha ao listar campanhas em uma das versões da API")
			lastErr = err
			continue
		}

		for _, raw := range batch {
			if _, ok := seen[raw.ID]; ok {
				continue
			}
			seen[raw.ID] = struct{}{}
			campaigns = append(campaigns, raw.ToCampaign())
		}
	}

	// Só propaga erro quando nenhuma das versões respondeu.
	if len(campaigns) == 0 && lastErr != nil {
		return nil, lastErr
	}

	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].Name < campaigns[j].Name
	})

	return campaigns, nil
}

func (c *DirectClient) fetchCampaigns(ctx context.Context, url, token, clientLogin string, payload interface{}) ([]directdomain.CampaignPayload, error) {
	resp, err := c.postJSON(ctx, url, token, clientLogin, payload)
	if err != nil {
		return nil, ClassifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := decodeAPIError(resp.Body)
		return nil, ClassifyStatus(resp.StatusCode, apiErr)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ClassifyTransport(err)
	}

	// A API pode responder 200 com um envelope de erro no corpo.
	var errEnvelope directdomain.ErrorResponse
	if err := json.Unmarshal(raw, &errEnvelope); err == nil && errEnvelope.Error.ErrorCode != 0 {
		return nil, ClassifyStatus(resp.StatusCode, &errEnvelope.Error)
	}

	var response directdomain.CampaignsResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, &directdomain.DirectError{
			Kind:    directdomain.KindParsing,
			Message: "resposta do serviço Campaigns não é um JSON válido",
			Err:     err,
		}
	}

	return response.Result.Campaigns, nil
}
