package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/direct-insights-api/infrastructure/database/postgres"
	"github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct"
	"github.com/vfg2006/direct-insights-api/infrastructure/integrator/direct/directclient"
	"github.com/vfg2006/direct-insights-api/infrastructure/repository"
	"github.com/vfg2006/direct-insights-api/internal/api"
	"github.com/vfg2006/direct-insights-api/internal/config"
	"github.com/vfg2006/direct-insights-api/internal/scheduler"
	"github.com/vfg2006/direct-insights-api/internal/usecases/authenticating"
	"github.com/vfg2006/direct-insights-api/internal/usecases/syncing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	accountRepo := repository.NewAccountRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)
	tokenRepo := repository.NewTokenRepository(pgConn)
	campaignStatRepo := repository.NewCampaignStatRepository(pgConn)
	detailStatRepo := repository.NewDetailStatRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	tokenManager := directclient.NewTokenManager(&cfg.Direct, tokenRepo)
	directClient := directclient.NewClient(&cfg.Direct, tokenManager, directclient.NewRetryPolicy(cfg.StatsSync))
	directIntegrator := direct.New(cfg, directClient)

	synchronizer := syncing.New(cfg, directIntegrator, accountRepo, campaignStatRepo, detailStatRepo)

	// Inicializa o agendador da sincronização semanal de estatísticas
	statsSyncService := scheduler.NewDirectStatsSyncService(synchronizer, cfg)

	if err := statsSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de estatísticas do Direct")
	} else {
		logrus.Info("Agendador de sincronização de estatísticas do Direct iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		directIntegrator,
		authenticator,
		accountRepo,
		tokenRepo,
		campaignStatRepo,
		detailStatRepo,
		statsSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
