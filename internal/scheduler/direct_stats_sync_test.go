package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/direct-insights-api/internal/config"
	"github.com/vfg2006/direct-insights-api/internal/domain"
	syncmocks "github.com/vfg2006/direct-insights-api/internal/usecases/syncing/mocks"
	"go.uber.org/mock/gomock"
)

func newTestSyncService(synchronizer *syncmocks.MockSynchronizer) *DirectStatsSyncService {
	return &DirectStatsSyncService{
		config: DirectStatsSyncConfig{
			CronSchedule:   "0 3 * * 1",
			WeeksWindow:    2,
			TimeoutMinutes: 30,
			SyncEnabled:    true,
		},
		synchronizer: synchronizer,
	}
}

func TestDirectStatsSyncService_RunSyncGuardaResumo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSync := syncmocks.NewMockSynchronizer(ctrl)

	run := &domain.SyncRun{
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Phase1OK:   true,
		Phase2OK:   true,
		Phase1Rows: 10,
		Phase2Rows: 42,
	}
	mockSync.EXPECT().Sync(gomock.Any()).Return(run, nil)

	service := newTestSyncService(mockSync)
	service.runSync()

	status := service.GetStatus()
	assert.Equal(t, run, status["last_run"])
	assert.Equal(t, false, status["sync_running"])
	assert.False(t, service.lastSyncStartedAt.IsZero())
	assert.False(t, service.lastSyncCompletedAt.IsZero())
}

func TestDirectStatsSyncService_RunSyncAplicaTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSync := syncmocks.NewMockSynchronizer(ctrl)
	mockSync.EXPECT().
		Sync(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (*domain.SyncRun, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok, "o contexto da sincronização deve ter prazo limite")
			assert.WithinDuration(t, time.Now().Add(30*time.Minute), deadline, time.Minute)
			return &domain.SyncRun{Phase1OK: true, Phase2OK: true}, nil
		})

	service := newTestSyncService(mockSync)
	service.runSync()
}

func TestDirectStatsSyncService_RunSyncIgnoraExecucaoConcorrente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSync := syncmocks.NewMockSynchronizer(ctrl)

	service := newTestSyncService(mockSync)
	service.syncRunning = true

	// Nenhuma chamada esperada em Sync: a execução deve ser ignorada.
	service.runSync()

	status := service.GetStatus()
	assert.Equal(t, true, status["sync_running"])
	assert.Nil(t, status["last_run"])
}

func TestDirectStatsSyncService_RunSyncRegistraErro(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSync := syncmocks.NewMockSynchronizer(ctrl)

	run := &domain.SyncRun{Phase1OK: false, Phase2OK: false}
	run.RecordError("ACC001", 1, "", assert.AnError)
	mockSync.EXPECT().Sync(gomock.Any()).Return(run, assert.AnError)

	service := newTestSyncService(mockSync)
	service.runSync()

	status := service.GetStatus()
	assert.Equal(t, run, status["last_run"])
}

func TestDirectStatsSyncService_StartDesabilitado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSync := syncmocks.NewMockSynchronizer(ctrl)

	service := NewDirectStatsSyncService(mockSync, &config.Config{
		StatsSync: config.StatsSync{
			CronSchedule: "0 3 * * 1",
			Enabled:      false,
		},
	})

	err := service.Start(context.Background())
	assert.NoError(t, err)
}

func TestDirectStatsSyncService_GetStatusCamposFixos(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSync := syncmocks.NewMockSynchronizer(ctrl)

	service := newTestSyncService(mockSync)
	status := service.GetStatus()

	assert.Equal(t, true, status["sync_enabled"])
	assert.Equal(t, "0 3 * * 1", status["sync_cron"])
	assert.Equal(t, 2, status["sync_weeks_window"])
	assert.Equal(t, 30, status["sync_timeout_minutes"])
}
