package syncing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	directdomain "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/domain"
	directmocks "github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/mocks"
	"github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/report"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository/mocks"
	"github.com/vfg2006/direct-insights-api/internal/config"
	"github.com/vfg2006/direct-insights-api/internal/domain"
	"go.uber.org/mock/gomock"
)

// Referência fixa: quarta-feira, 14/02/2024. A última semana completa
// começa em 05/02 e a janela de 2 semanas da fase 2 cobre 29/01 a 11/02.
var (
	testNow      = time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
	lastFullWeek = time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	previousWeek = time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
)

type syncMocks struct {
	direct       *directmocks.MockIntegrator
	accountRepo  *mocks.MockAccountRepository
	campaignRepo *mocks.MockCampaignStatRepository
	detailRepo   *mocks.MockDetailStatRepository
}

func newTestService(t *testing.T) (*Service, *syncMocks) {
	ctrl := gomock.NewController(t)

	m := &syncMocks{
		direct:       directmocks.NewMockIntegrator(ctrl),
		accountRepo:  mocks.NewMockAccountRepository(ctrl),
		campaignRepo: mocks.NewMockCampaignStatRepository(ctrl),
		detailRepo:   mocks.NewMockDetailStatRepository(ctrl),
	}

	service := &Service{
		cfg: &config.Config{
			StatsSync: config.StatsSync{
				WeeksWindow:         2,
				RequestDelaySeconds: 0,
			},
		},
		directService: m.direct,
		accountRepo:   m.accountRepo,
		campaignRepo:  m.campaignRepo,
		detailRepo:    m.detailRepo,
		now:           func() time.Time { return testNow },
		sleep: func(ctx context.Context, d time.Duration) error {
			return ctx.Err()
		},
	}

	return service, m
}

func activeAccounts(ids ...string) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, &domain.Account{
			ID:          id,
			YandexLogin: "login-" + id,
			Name:        "Conta " + id,
			Status:      domain.AccountStatusActive,
		})
	}
	return accounts
}

func campaignRow(campaignID int64, week string, impressions, clicks int64, cost float64, conversions int64) report.Row {
	return report.Row{
		"Week":         week,
		"CampaignId":   campaignID,
		"CampaignName": "Campanha",
		"CampaignType": "TEXT_CAMPAIGN",
		"Impressions":  impressions,
		"Clicks":       clicks,
		"Cost":         cost,
		"Conversions":  conversions,
	}
}

func TestSync_FullRun(t *testing.T) {
	service, m := newTestService(t)

	m.accountRepo.EXPECT().ListActive().Return(activeAccounts("ACC001"), nil)

	parentID := int64(99)

	m.direct.EXPECT().
		FetchReport(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Account, def directdomain.ReportDefinition) ([]report.Row, error) {
			switch def.Type {
			case directdomain.ReportTypeCampaignPerformance:
				return []report.Row{
					campaignRow(123, "2024-02-05", 1000, 50, 75.30, 3),
				}, nil
			case directdomain.ReportTypeSearchQuery:
				return []report.Row{
					{
						"Week":        "2024-02-05",
						"CampaignId":  int64(123),
						"Query":       "óculos de sol",
						"Impressions": int64(10),
						"Clicks":      int64(2),
						"Cost":        1.50,
						"Conversions": int64(0),
					},
				}, nil
			default:
				return []report.Row{
					{
						"Week":                  "2024-02-05",
						"CampaignId":            int64(123),
						"Placement":             "contexto",
						"Device":                "desktop",
						"Gender":                "GENDER_FEMALE",
						"Age":                   "AGE_25_34",
						"TargetingLocationName": "Moscou",
						"Impressions":           int64(20),
						"Clicks":                int64(4),
						"Cost":                  3.00,
						"Conversions":           int64(1),
					},
				}, nil
			}
		}).
		Times(7) // fase 1 + re-busca de campanha + 5 recortes

	// Fase 1 grava a linha pai da última semana completa.
	m.campaignRepo.EXPECT().
		UpsertBatch(gomock.Any()).
		DoAndReturn(func(stats []*domain.WeeklyCampaignStat) (int64, error) {
			require.Len(t, stats, 1)
			assert.Equal(t, "ACC001", stats[0].AccountID)
			assert.Equal(t, int64(123), stats[0].CampaignID)
			assert.Equal(t, lastFullWeek, stats[0].WeekStart)
			assert.Equal(t, 75.30, stats[0].Cost)
			return 1, nil
		})

	m.campaignRepo.EXPECT().
		ListCampaignIDs("ACC001", previousWeek, lastFullWeek).
		Return([]int64{123}, nil)

	// Re-busca da fase 2 sobre a janela inteira.
	m.campaignRepo.EXPECT().
		UpsertBatch(gomock.Any()).
		Return(int64(1), nil)

	m.campaignRepo.EXPECT().
		LookupIDs("ACC001", []time.Time{previousWeek, lastFullWeek}).
		Return(map[repository.StatKey]int64{
			repository.NewStatKey(123, lastFullWeek): parentID,
		}, nil)

	// Cada recorte grava suas linhas com o pai resolvido.
	m.detailRepo.EXPECT().
		UpsertBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(slice domain.StatSlice, stats []*domain.WeeklyDetailStat) (int64, error) {
			require.Len(t, stats, 1)
			assert.Equal(t, slice, stats[0].Slice)
			require.NotNil(t, stats[0].CampaignStatID)
			assert.Equal(t, parentID, *stats[0].CampaignStatID)
			return 1, nil
		}).
		Times(5)

	run, err := service.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, run.Success())
	assert.Equal(t, int64(1), run.Phase1Rows)
	assert.Equal(t, int64(6), run.Phase2Rows)
	assert.Empty(t, run.Errors)
}

func TestSync_Phase1StorageErrorAbortsRun(t *testing.T) {
	service, m := newTestService(t)

	m.accountRepo.EXPECT().ListActive().Return(activeAccounts("ACC001", "ACC002"), nil)

	m.direct.EXPECT().
		FetchReport(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]report.Row{campaignRow(123, "2024-02-05", 1, 1, 1.0, 0)}, nil)

	storageErr := repository.NewStorageError("upsert de estatísticas de campanha", assert.AnError)
	m.campaignRepo.EXPECT().
		UpsertBatch(gomock.Any()).
		Return(int64(0), storageErr)

	// Nenhuma chamada de fase 2 deve acontecer: sem ListCampaignIDs,
	// sem LookupIDs, sem UpsertBatch de detalhe.

	run, err := service.Sync(context.Background())
	require.NoError(t, err)

	assert.False(t, run.Success())
	assert.False(t, run.Phase1OK)
	require.Len(t, run.Errors, 1)
	assert.Equal(t, "ACC001", run.Errors[0].AccountID)
	assert.Equal(t, 1, run.Errors[0].Phase)
}

func TestSync_Phase1AuthErrorSkipsAccountOnly(t *testing.T) {
	service, m := newTestService(t)

	m.accountRepo.EXPECT().ListActive().Return(activeAccounts("ACC001", "ACC002"), nil)

	authErr := directdomain.NewDirectError(directdomain.KindAuth, "token inválido")

	phase1Reports := 0
	m.direct.EXPECT().
		FetchReport(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, account *domain.Account, def directdomain.ReportDefinition) ([]report.Row, error) {
			if def.Type == directdomain.ReportTypeCampaignPerformance && account.ID == "ACC001" && phase1Reports == 0 {
				phase1Reports++
				return nil, authErr
			}
			return []report.Row{campaignRow(123, "2024-02-05", 1, 1, 1.0, 0)}, nil
		}).
		AnyTimes()

	m.campaignRepo.EXPECT().UpsertBatch(gomock.Any()).Return(int64(1), nil).AnyTimes()
	m.campaignRepo.EXPECT().ListCampaignIDs(gomock.Any(), gomock.Any(), gomock.Any()).Return([]int64{123}, nil).AnyTimes()
	m.campaignRepo.EXPECT().LookupIDs(gomock.Any(), gomock.Any()).Return(map[repository.StatKey]int64{}, nil).AnyTimes()
	m.detailRepo.EXPECT().UpsertBatch(gomock.Any(), gomock.Any()).Return(int64(0), nil).AnyTimes()

	run, err := service.Sync(context.Background())
	require.NoError(t, err)

	// A falha de credencial fica registrada, mas a execução segue e as
	// duas fases completam.
	assert.True(t, run.Success())
	require.NotEmpty(t, run.Errors)
	assert.Equal(t, "ACC001", run.Errors[0].AccountID)
	assert.Equal(t, 1, run.Errors[0].Phase)
}

func TestSync_Phase2SliceErrorDoesNotStopSiblings(t *testing.T) {
	service, m := newTestService(t)

	m.accountRepo.EXPECT().ListActive().Return(activeAccounts("ACC001"), nil)

	timeoutErr := directdomain.NewDirectError(directdomain.KindReportTimeout, "relatório não ficou pronto")

	m.direct.EXPECT().
		FetchReport(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Account, def directdomain.ReportDefinition) ([]report.Row, error) {
			if def.Type == directdomain.ReportTypeSearchQuery {
				return nil, timeoutErr
			}
			return []report.Row{campaignRow(123, "2024-02-05", 1, 1, 1.0, 0)}, nil
		}).
		Times(7)

	m.campaignRepo.EXPECT().UpsertBatch(gomock.Any()).Return(int64(1), nil).Times(2)
	m.campaignRepo.EXPECT().ListCampaignIDs(gomock.Any(), gomock.Any(), gomock.Any()).Return([]int64{123}, nil)
	m.campaignRepo.EXPECT().LookupIDs(gomock.Any(), gomock.Any()).Return(map[repository.StatKey]int64{}, nil)

	// Os outros 4 recortes continuam gravando normalmente.
	m.detailRepo.EXPECT().UpsertBatch(gomock.Any(), gomock.Any()).Return(int64(1), nil).Times(4)

	run, err := service.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, run.Success())
	require.Len(t, run.Errors, 1)
	assert.Equal(t, domain.SliceSearchQuery, run.Errors[0].Slice)
	assert.Equal(t, 2, run.Errors[0].Phase)
}

func TestSync_Phase2StorageErrorAbortsAccountSlices(t *testing.T) {
	service, m := newTestService(t)

	m.accountRepo.EXPECT().ListActive().Return(activeAccounts("ACC001", "ACC002"), nil)

	m.direct.EXPECT().
		FetchReport(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]report.Row{campaignRow(123, "2024-02-05", 1, 1, 1.0, 0)}, nil).
		AnyTimes()

	m.campaignRepo.EXPECT().UpsertBatch(gomock.Any()).Return(int64(1), nil).AnyTimes()
	m.campaignRepo.EXPECT().ListCampaignIDs(gomock.Any(), gomock.Any(), gomock.Any()).Return([]int64{123}, nil).Times(2)
	m.campaignRepo.EXPECT().LookupIDs(gomock.Any(), gomock.Any()).Return(map[repository.StatKey]int64{}, nil).Times(2)

	storageErr := repository.NewStorageError("upsert de estatísticas de placement", assert.AnError)

	// ACC001: primeiro recorte falha com erro de armazenamento, os
	// recortes restantes da conta são abortados. ACC002: 5 recortes ok.
	firstDetail := m.detailRepo.EXPECT().
		UpsertBatch(domain.SlicePlacement, gomock.Any()).
		Return(int64(0), storageErr)
	m.detailRepo.EXPECT().
		UpsertBatch(gomock.Any(), gomock.Any()).
		Return(int64(1), nil).
		Times(5).
		After(firstDetail)

	run, err := service.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, run.Phase1OK)
	assert.False(t, run.Phase2OK)
	assert.False(t, run.Success())
	require.Len(t, run.Errors, 1)
	assert.Equal(t, "ACC001", run.Errors[0].AccountID)
	assert.Equal(t, domain.SlicePlacement, run.Errors[0].Slice)
}

func TestSync_MissingParentLeavesNullReference(t *testing.T) {
	service, m := newTestService(t)

	m.accountRepo.EXPECT().ListActive().Return(activeAccounts("ACC001"), nil)

	m.direct.EXPECT().
		FetchReport(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Account, def directdomain.ReportDefinition) ([]report.Row, error) {
			if def.Type == directdomain.ReportTypeCampaignPerformance {
				return []report.Row{campaignRow(123, "2024-02-05", 1, 1, 1.0, 0)}, nil
			}
			// Recortes trazem uma campanha que não existe nas linhas pai.
			return []report.Row{
				{
					"Week":                  "2024-02-05",
					"CampaignId":            int64(777),
					"Placement":             "contexto",
					"Query":                 "consulta",
					"Device":                "mobile",
					"Gender":                "GENDER_MALE",
					"Age":                   "AGE_18_24",
					"TargetingLocationName": "São Paulo",
					"Impressions":           int64(5),
					"Clicks":                int64(1),
					"Cost":                  0.50,
					"Conversions":           int64(0),
				},
			}, nil
		}).
		Times(7)

	m.campaignRepo.EXPECT().UpsertBatch(gomock.Any()).Return(int64(1), nil).Times(2)
	m.campaignRepo.EXPECT().ListCampaignIDs(gomock.Any(), gomock.Any(), gomock.Any()).Return([]int64{123}, nil)
	m.campaignRepo.EXPECT().
		LookupIDs(gomock.Any(), gomock.Any()).
		Return(map[repository.StatKey]int64{
			repository.NewStatKey(123, lastFullWeek): 99,
		}, nil)

	m.detailRepo.EXPECT().
		UpsertBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ domain.StatSlice, stats []*domain.WeeklyDetailStat) (int64, error) {
			require.Len(t, stats, 1)
			// Sem pai correspondente, a referência fica nula em vez de
			// apontar para a campanha errada.
			assert.Nil(t, stats[0].CampaignStatID)
			return 1, nil
		}).
		Times(5)

	run, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, run.Success())
}

func TestSync_ListAccountsFailureAborts(t *testing.T) {
	service, m := newTestService(t)

	m.accountRepo.EXPECT().ListActive().Return(nil, assert.AnError)

	run, err := service.Sync(context.Background())
	require.Error(t, err)
	assert.False(t, run.Success())
	require.Len(t, run.Errors, 1)
}

func TestSync_NoActiveAccounts(t *testing.T) {
	service, m := newTestService(t)

	m.accountRepo.EXPECT().ListActive().Return([]*domain.Account{}, nil)

	run, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, run.Success())
	assert.Zero(t, run.Phase1Rows)
	assert.Zero(t, run.Phase2Rows)
}

func TestCampaignStatsFromRows_MergesDuplicateKeys(t *testing.T) {
	service, _ := newTestService(t)

	rows := []report.Row{
		campaignRow(123, "2024-02-05", 100, 10, 5.25, 1),
		campaignRow(123, "2024-02-05", 50, 5, 2.50, 0),
		campaignRow(456, "2024-02-05", 10, 1, 1.00, 0),
	}

	stats := service.campaignStatsFromRows("ACC001", rows, lastFullWeek)
	require.Len(t, stats, 2)

	assert.Equal(t, int64(123), stats[0].CampaignID)
	assert.Equal(t, int64(150), stats[0].Impressions)
	assert.Equal(t, int64(15), stats[0].Clicks)
	assert.Equal(t, 7.75, stats[0].Cost)
	assert.Equal(t, int64(1), stats[0].Conversions)
}

func TestWeekFromRow_FallbackOnMissingOrBadValue(t *testing.T) {
	service, _ := newTestService(t)

	assert.Equal(t, lastFullWeek, service.weekFromRow(report.Row{}, lastFullWeek))
	assert.Equal(t, lastFullWeek, service.weekFromRow(report.Row{"Week": "não-é-data"}, lastFullWeek))

	// Datas no meio da semana são truncadas para a segunda-feira.
	parsed := service.weekFromRow(report.Row{"Week": "2024-02-07"}, lastFullWeek)
	assert.Equal(t, lastFullWeek, parsed)
}

func TestDimensionValue_DemographicCombinesGenderAndAge(t *testing.T) {
	row := report.Row{"Gender": "GENDER_FEMALE", "Age": "AGE_25_34"}
	assert.Equal(t, "GENDER_FEMALE/AGE_25_34", dimensionValue(domain.SliceDemographic, row))

	placementRow := report.Row{"Placement": "contexto"}
	assert.Equal(t, "contexto", dimensionValue(domain.SlicePlacement, placementRow))
}
