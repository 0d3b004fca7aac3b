package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/direct-insights-api/internal/config"
	"github.com/vfg2006/direct-insights-api/internal/domain"
	"github.com/vfg2006/direct-insights-api/internal/usecases/syncing"
)

// DirectStatsSyncConfig representa a configuração do agendador de estatísticas do Direct
type DirectStatsSyncConfig struct {
	CronSchedule   string
	WeeksWindow    int
	TimeoutMinutes int
	SyncEnabled    bool
}

// DirectStatsSyncService gerencia o agendamento e execução da sincronização
// semanal de estatísticas do Yandex.Direct
type DirectStatsSyncService struct {
	scheduler           *gocron.Scheduler
	config              DirectStatsSyncConfig
	appConfig           *config.Config
	synchronizer        syncing.Synchronizer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRun             *domain.SyncRun
}

// NewDirectStatsSyncService cria uma nova instância do serviço de sincronização de estatísticas
func NewDirectStatsSyncService(
	synchronizer syncing.Synchronizer,
	appConfig *config.Config,
) *DirectStatsSyncService {
	// Criar a configuração com base na config global
	syncConfig := DirectStatsSyncConfig{
		CronSchedule:   appConfig.StatsSync.CronSchedule,
		WeeksWindow:    appConfig.StatsSync.WeeksWindow,
		TimeoutMinutes: appConfig.StatsSync.TimeoutMinutes,
		SyncEnabled:    appConfig.StatsSync.Enabled,
	}

	// Criar o agendador
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":   syncConfig.CronSchedule,
		"weeks_window":    syncConfig.WeeksWindow,
		"timeout_minutes": syncConfig.TimeoutMinutes,
		"sync_enabled":    syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de estatísticas do Direct carregada")

	return &DirectStatsSyncService{
		scheduler:    scheduler,
		config:       syncConfig,
		appConfig:    appConfig,
		synchronizer: synchronizer,
		syncRunning:  false,
	}
}

// Start inicia o agendador
func (s *DirectStatsSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de estatísticas do Direct desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de estatísticas do Direct")

	// Agendar a sincronização semanal
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de estatísticas do Direct: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de estatísticas do Direct")
		s.scheduler.Stop()
	}()

	return nil
}

// runSync executa as duas fases da sincronização respeitando o tempo limite
// configurado. Execuções concorrentes são ignoradas.
func (s *DirectStatsSyncService) runSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de estatísticas do Direct já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando sincronização de estatísticas do Direct")

	ctx := context.Background()
	if s.config.TimeoutMinutes > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.config.TimeoutMinutes)*time.Minute)
		defer cancel()
	}

	run, err := s.synchronizer.Sync(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro na sincronização de estatísticas do Direct")
	}

	if run != nil {
		s.syncMutex.Lock()
		s.lastRun = run
		s.syncMutex.Unlock()
		logrus.Info(run.Summary())
	}

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
	}).Info("Sincronização de estatísticas do Direct concluída")

	s.lastSyncCompletedAt = time.Now()
}

// TriggerManualSync inicia manualmente uma sincronização de estatísticas do Direct
func (s *DirectStatsSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de estatísticas do Direct já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de estatísticas do Direct")
	go s.runSync()
}

// GetStatus retorna o status atual do agendador
func (s *DirectStatsSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	lastRun := s.lastRun
	running := s.syncRunning
	s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_weeks_window":      s.config.WeeksWindow,
		"sync_timeout_minutes":   s.config.TimeoutMinutes,
		"sync_running":           running,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
	if lastRun != nil {
		status["last_run"] = lastRun
	}
	return status
}
