package direct

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/directclient"
	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
	"github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/report"
	"github.com/vfg2006/direct-insights-api/internal/config"
	"github.com/vfg2006/direct-insights-api/internal/domain"
)

// Integrator é a fachada da integração com o Yandex.Direct consumida pelo
// orquestrador de sincronização e pelos handlers.
type Integrator interface {
	FetchReport(ctx context.Context, account *domain.Account, definition directdomain.ReportDefinition) ([]report.Row, error)
	ListCampaigns(ctx context.Context, account *domain.Account) ([]directdomain.Campaign, error)
}

type DirectIntegrator struct {
	cfg    *config.Config
	Client directclient.Client
}

func New(cfg *config.Config, client directclient.Client) *DirectIntegrator {
	return &DirectIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchReport gera o relatório no serviço Reports, aguarda a conclusão e
// devolve as linhas já tipadas.
func (s *DirectIntegrator) FetchReport(ctx context.Context, account *domain.Account, definition directdomain.ReportDefinition) ([]report.Row, error) {
	raw, err := s.Client.SubmitAndWait(ctx, account, definition)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"yandex_login": account.YandexLogin,
			"report_name":  definition.Name,
			"error":        err.Error(),
		}).Error("direct: falha ao gerar relatório")
		return nil, err
	}

	rows, err := report.Parse(raw, definition.Fields)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"yandex_login": account.YandexLogin,
			"report_name":  definition.Name,
			"error":        err.Error(),
		}).Error("direct: falha ao interpretar relatório")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"yandex_login": account.YandexLogin,
		"report_name":  definition.Name,
		"rows":         len(rows),
	}).Debug("direct: relatório interpretado")

	return rows, nil
}

// ListCampaigns lista as campanhas do cliente com o tipo legível preenchido.
func (s *DirectIntegrator) ListCampaigns(ctx context.Context, account *domain.Account) ([]directdomain.Campaign, error) {
	campaigns, err := s.Client.ListCampaigns(ctx, account)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"yandex_login": account.YandexLogin,
			"error":        err.Error(),
		}).Error("direct: falha ao listar campanhas")
		return nil, err
	}

	return campaigns, nil
}
