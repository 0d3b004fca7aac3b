// Package syncing implementa a reconciliação semanal de estatísticas do
// Direct em duas fases: uma atualização rápida das campanhas da última
// semana completa e uma varredura detalhada por recorte em uma janela de
// semanas.
package syncing

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct"
	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
	"github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/report"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository"
	"github.com/vfg2006/direct-insights-api/internal/config"
	"github.com/vfg2006/direct-insights-api/internal/domain"
	"github.com/vfg2006/direct-insights-api/pkg/utils"
)

// Synchronizer executa uma rodada completa de sincronização de estatísticas.
type Synchronizer interface {
	Sync(ctx context.Context) (*domain.SyncRun, error)
}

type Service struct {
	cfg           *config.Config
	directService direct.Integrator
	accountRepo   repository.AccountRepository
	campaignRepo  repository.CampaignStatRepository
	detailRepo    repository.DetailStatRepository

	// injetáveis nos testes
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(
	cfg *config.Config,
	directService direct.Integrator,
	accountRepo repository.AccountRepository,
	campaignRepo repository.CampaignStatRepository,
	detailRepo repository.DetailStatRepository,
) *Service {
	return &Service{
		cfg:           cfg,
		directService: directService,
		accountRepo:   accountRepo,
		campaignRepo:  campaignRepo,
		detailRepo:    detailRepo,
		now:           time.Now,
		sleep:         sleepContext,
	}
}

// Sync roda as duas fases da reconciliação e devolve o registro da execução
// com contagens e erros atribuídos a (conta, fase, recorte).
//
// Fase 1 atualiza as linhas pai da última semana completa para todas as
// contas ativas; erro de armazenamento nessa fase aborta a execução inteira
// porque a fase 2 depende das linhas pai. Fase 2 busca o recorte de campanha
// e os recortes de detalhe na janela de semanas configurada; erros são
// acumulados por (conta, recorte) e só erro de armazenamento interrompe os
// recortes restantes da conta.
func (s *Service) Sync(ctx context.Context) (*domain.SyncRun, error) {
	run := &domain.SyncRun{StartedAt: s.now()}

	logrus.Info("Iniciando sincronização de estatísticas do Direct")

	accounts, err := s.accountRepo.ListActive()
	if err != nil {
		run.RecordError("", 1, domain.SliceCampaign, err)
		run.FinishedAt = s.now()
		logrus.WithField("error", err.Error()).Error("Falha ao listar contas ativas, sincronização abortada")
		return run, err
	}

	if len(accounts) == 0 {
		logrus.Warn("Nenhuma conta ativa para sincronizar")
		run.Phase1OK = true
		run.Phase2OK = true
		run.FinishedAt = s.now()
		return run, nil
	}

	phase1OK := s.runPhase1(ctx, run, accounts)
	run.Phase1OK = phase1OK

	if phase1OK {
		run.Phase2OK = s.runPhase2(ctx, run, accounts)
	} else {
		logrus.Error("Fase 1 abortada por erro crítico, fase 2 não será executada")
	}

	run.FinishedAt = s.now()

	summary := run.Summary()
	if run.Success() {
		logrus.Info(summary)
	} else {
		logrus.Error(summary)
	}

	return run, nil
}

// runPhase1 atualiza as linhas pai da última semana completa. Retorna false
// somente em erro crítico (armazenamento ou cancelamento).
func (s *Service) runPhase1(ctx context.Context, run *domain.SyncRun, accounts []*domain.Account) bool {
	weekStart := utils.LastFullWeekStart(s.now())
	weekEnd := utils.WeekEnd(weekStart)

	logrus.WithFields(logrus.Fields{
		"week_start": weekStart.Format(time.DateOnly),
		"accounts":   len(accounts),
	}).Info("Fase 1: atualização das campanhas da última semana completa")

	for i, account := range accounts {
		if err := ctx.Err(); err != nil {
			run.RecordError(account.ID, 1, domain.SliceCampaign, err)
			return false
		}

		definition := directdomain.NewCampaignPerformanceDefinition(weekStart, weekEnd)

		rows, err := s.directService.FetchReport(ctx, account, definition)
		if err != nil {
			if directdomain.IsKind(err, directdomain.KindCancelled) {
				run.RecordError(account.ID, 1, domain.SliceCampaign, err)
				return false
			}
			// Falha de uma conta não derruba as demais.
			run.RecordError(account.ID, 1, domain.SliceCampaign, err)
			continue
		}

		stats := s.campaignStatsFromRows(account.ID, rows, weekStart)

		written, err := s.campaignRepo.UpsertBatch(stats)
		if err != nil {
			run.RecordError(account.ID, 1, domain.SliceCampaign, err)
			if repository.IsStorageError(err) {
				return false
			}
			continue
		}
		run.Phase1Rows += written

		logrus.WithFields(logrus.Fields{
			"account_id": account.ID,
			"rows":       written,
		}).Debug("Fase 1: conta sincronizada")

		if i < len(accounts)-1 {
			if err := s.pause(ctx); err != nil {
				run.RecordError(account.ID, 1, domain.SliceCampaign, err)
				return false
			}
		}
	}

	return true
}

// runPhase2 varre a janela de semanas da fase 2 para cada conta: re-busca o
// recorte de campanha (para capturar conversões tardias) e então cada
// recorte de detalhe. Retorna false quando algum erro crítico ocorreu.
func (s *Service) runPhase2(ctx context.Context, run *domain.SyncRun, accounts []*domain.Account) bool {
	weeks := utils.TrailingWeekStarts(s.now(), s.cfg.StatsSync.WeeksWindow)
	if len(weeks) == 0 {
		return true
	}

	windowFrom := weeks[0]
	windowTo := utils.WeekEnd(weeks[len(weeks)-1])
	lastWeek := weeks[len(weeks)-1]

	logrus.WithFields(logrus.Fields{
		"window_from": windowFrom.Format(time.DateOnly),
		"window_to":   windowTo.Format(time.DateOnly),
		"weeks":       len(weeks),
	}).Info("Fase 2: varredura detalhada da janela de semanas")

	ok := true

	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			run.RecordError(account.ID, 2, domain.SliceCampaign, err)
			return false
		}

		campaignIDs, err := s.campaignRepo.ListCampaignIDs(account.ID, windowFrom, lastWeek)
		if err != nil {
			run.RecordError(account.ID, 2, domain.SliceCampaign, err)
			if repository.IsStorageError(err) {
				ok = false
			}
			continue
		}

		if len(campaignIDs) == 0 {
			logrus.WithField("account_id", account.ID).Debug("Fase 2: conta sem campanhas conhecidas na janela, pulando")
			continue
		}

		if !s.syncAccountWindow(ctx, run, account, campaignIDs, weeks, windowFrom, windowTo, lastWeek) {
			if ctx.Err() != nil {
				return false
			}
			ok = false
		}
	}

	return ok
}

// syncAccountWindow processa uma conta na fase 2. Retorna false quando um
// erro crítico interrompeu os recortes restantes da conta.
func (s *Service) syncAccountWindow(
	ctx context.Context,
	run *domain.SyncRun,
	account *domain.Account,
	campaignIDs []int64,
	weeks []time.Time,
	windowFrom, windowTo, lastWeek time.Time,
) bool {
	// Re-busca do recorte de campanha na janela inteira, para atualizar
	// conversões atribuídas depois da fase 1.
	definition := directdomain.NewCampaignPerformanceDefinition(windowFrom, windowTo)

	rows, err := s.directService.FetchReport(ctx, account, definition)
	if err != nil {
		run.RecordError(account.ID, 2, domain.SliceCampaign, err)
		if directdomain.IsKind(err, directdomain.KindCancelled) {
			return false
		}
	} else {
		stats := s.campaignStatsFromRows(account.ID, rows, lastWeek)
		written, err := s.campaignRepo.UpsertBatch(stats)
		if err != nil {
			run.RecordError(account.ID, 2, domain.SliceCampaign, err)
			if repository.IsStorageError(err) {
				return false
			}
		} else {
			run.Phase2Rows += written
		}
	}

	if err := s.pause(ctx); err != nil {
		run.RecordError(account.ID, 2, domain.SliceCampaign, err)
		return false
	}

	// As linhas pai recém-gravadas resolvem a referência das linhas filhas.
	parentIDs, err := s.campaignRepo.LookupIDs(account.ID, weeks)
	if err != nil {
		run.RecordError(account.ID, 2, domain.SliceCampaign, err)
		return !repository.IsStorageError(err)
	}

	for _, slice := range domain.DetailSlices() {
		if err := ctx.Err(); err != nil {
			run.RecordError(account.ID, 2, slice, err)
			return false
		}

		definition := directdomain.NewSliceDefinition(slice, windowFrom, windowTo, campaignIDs)

		rows, err := s.directService.FetchReport(ctx, account, definition)
		if err != nil {
			run.RecordError(account.ID, 2, slice, err)
			if directdomain.IsKind(err, directdomain.KindCancelled) {
				return false
			}
			continue
		}

		stats := s.detailStatsFromRows(account.ID, slice, rows, parentIDs, lastWeek)

		written, err := s.detailRepo.UpsertBatch(slice, stats)
		if err != nil {
			run.RecordError(account.ID, 2, slice, err)
			if repository.IsStorageError(err) {
				// Interrompe os recortes restantes da conta, as demais
				// contas seguem normalmente.
				return false
			}
			continue
		}
		run.Phase2Rows += written

		if err := s.pause(ctx); err != nil {
			run.RecordError(account.ID, 2, slice, err)
			return false
		}
	}

	return true
}

// campaignStatsFromRows converte as linhas do relatório de campanha em
// linhas pai, somando duplicatas da mesma chave para o upsert em lote não
// tocar a mesma linha duas vezes.
func (s *Service) campaignStatsFromRows(accountID string, rows []report.Row, fallbackWeek time.Time) []*domain.WeeklyCampaignStat {
	byKey := make(map[repository.StatKey]*domain.WeeklyCampaignStat)

	for _, row := range rows {
		if row.IsNull("CampaignId") {
			logrus.WithField("account_id", accountID).Warn("Linha de campanha sem CampaignId, pulando")
			continue
		}

		campaignID := row.Int("CampaignId")
		week := s.weekFromRow(row, fallbackWeek)
		key := repository.NewStatKey(campaignID, week)

		stat, exists := byKey[key]
		if !exists {
			stat = &domain.WeeklyCampaignStat{
				AccountID:    accountID,
				CampaignID:   campaignID,
				CampaignName: row.String("CampaignName"),
				CampaignType: row.String("CampaignType"),
				WeekStart:    week,
			}
			byKey[key] = stat
		}

		stat.Impressions += row.Int("Impressions")
		stat.Clicks += row.Int("Clicks")
		stat.Cost = utils.RoundWithTwoDecimalPlace(stat.Cost + row.Float("Cost"))
		stat.Conversions += row.Int("Conversions")
	}

	return sortedCampaignStats(byKey)
}

type detailKey struct {
	repository.StatKey
	Dimension string
}

// detailStatsFromRows converte as linhas de um recorte em linhas filhas com
// a referência ao pai resolvida quando existir. Sem pai, a referência fica
// nula e a linha é gravada mesmo assim.
func (s *Service) detailStatsFromRows(
	accountID string,
	slice domain.StatSlice,
	rows []report.Row,
	parentIDs map[repository.StatKey]int64,
	fallbackWeek time.Time,
) []*domain.WeeklyDetailStat {
	byKey := make(map[detailKey]*domain.WeeklyDetailStat)

	for _, row := range rows {
		if row.IsNull("CampaignId") {
			logrus.WithFields(logrus.Fields{
				"account_id": accountID,
				"slice":      slice,
			}).Warn("Linha de recorte sem CampaignId, pulando")
			continue
		}

		campaignID := row.Int("CampaignId")
		week := s.weekFromRow(row, fallbackWeek)
		statKey := repository.NewStatKey(campaignID, week)
		dimension := dimensionValue(slice, row)
		key := detailKey{StatKey: statKey, Dimension: dimension}

		stat, exists := byKey[key]
		if !exists {
			stat = &domain.WeeklyDetailStat{
				AccountID:      accountID,
				CampaignID:     campaignID,
				WeekStart:      week,
				Slice:          slice,
				DimensionValue: dimension,
			}

			if parentID, ok := parentIDs[statKey]; ok {
				stat.CampaignStatID = &parentID
			} else {
				logrus.WithFields(logrus.Fields{
					"account_id":  accountID,
					"slice":       slice,
					"campaign_id": campaignID,
					"week_start":  week.Format(time.DateOnly),
				}).Warn("Linha filha sem linha pai correspondente, gravando com referência nula")
			}

			byKey[key] = stat
		}

		stat.Impressions += row.Int("Impressions")
		stat.Clicks += row.Int("Clicks")
		stat.Cost = utils.RoundWithTwoDecimalPlace(stat.Cost + row.Float("Cost"))
		stat.Conversions += row.Int("Conversions")
	}

	return sortedDetailStats(byKey)
}

// dimensionValue extrai o valor da dimensão de uma linha. O recorte
// demográfico combina gênero e faixa etária em um único valor.
func dimensionValue(slice domain.StatSlice, row report.Row) string {
	if slice == domain.SliceDemographic {
		return row.String("Gender") + "/" + row.String("Age")
	}

	fields := directdomain.DimensionFields(slice)
	if len(fields) == 0 {
		return ""
	}
	return row.String(fields[0].Name)
}

// weekFromRow interpreta a coluna Week da linha. Quando ausente ou
// malformada, usa a semana de referência e deixa um aviso no log.
func (s *Service) weekFromRow(row report.Row, fallback time.Time) time.Time {
	value := row.String("Week")
	if value == "" {
		return fallback
	}

	week, err := time.Parse(time.DateOnly, value)
	if err != nil {
		logrus.WithField("week", value).Warn("Valor de semana ilegível no relatório, usando a semana de referência")
		return fallback
	}
	return utils.WeekStart(week)
}

// pause espera o intervalo configurado entre relatórios da mesma conta,
// para respeitar a cota da API.
func (s *Service) pause(ctx context.Context) error {
	delay := time.Duration(s.cfg.StatsSync.RequestDelaySeconds) * time.Second
	if delay <= 0 {
		return nil
	}
	return s.sleep(ctx, delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func sortedCampaignStats(byKey map[repository.StatKey]*domain.WeeklyCampaignStat) []*domain.WeeklyCampaignStat {
	stats := make([]*domain.WeeklyCampaignStat, 0, len(byKey))
	for _, stat := range byKey {
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].WeekStart.Equal(stats[j].WeekStart) {
			return stats[i].WeekStart.Before(stats[j].WeekStart)
		}
		return stats[i].CampaignID < stats[j].CampaignID
	})
	return stats
}

func sortedDetailStats(byKey map[detailKey]*domain.WeeklyDetailStat) []*domain.WeeklyDetailStat {
	stats := make([]*domain.WeeklyDetailStat, 0, len(byKey))
	for _, stat := range byKey {
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if !stats[i].WeekStart.Equal(stats[j].WeekStart) {
			return stats[i].WeekStart.Before(stats[j].WeekStart)
		}
		if stats[i].CampaignID != stats[j].CampaignID {
			return stats[i].CampaignID < stats[j].CampaignID
		}
		return stats[i].DimensionValue < stats[j].DimensionValue
	})
	return stats
}
