package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       App       `mapstructure:",squash"`
	Server    Server    `mapstructure:",squash"`
	Database  Database  `mapstructure:",squash"`
	Direct    Direct    `mapstructure:",squash"`
	StatsSync StatsSync `mapstructure:",squash"`
	Auth      Auth      `mapstructure:",squash"`
	SecretKey string    `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Direct concentra os endpoints e credenciais OAuth do Yandex.Direct.
// Quando Sandbox é verdadeiro, as URLs da API são trocadas pelas da
// sandbox sem que nenhum outro componente precise saber disso.
type Direct struct {
	APIv5URL          string `mapstructure:"direct_api_v5_url"`
	APIv501URL        string `mapstructure:"direct_api_v501_url"`
	ReportsURL        string `mapstructure:"direct_reports_url"`
	SandboxAPIv5URL   string `mapstructure:"direct_sandbox_api_v5_url"`
	SandboxAPIv501URL string `mapstructure:"direct_sandbox_api_v501_url"`
	SandboxReportsURL string `mapstructure:"direct_sandbox_reports_url"`
	OAuthTokenURL     string `mapstructure:"direct_oauth_token_url"`
	ClientID          string `mapstructure:"direct_client_id"`
	ClientSecret      string `mapstructure:"direct_client_secret"`
	Sandbox           bool   `mapstructure:"direct_sandbox"`
}

// V5URL retorna a URL base da API v5 considerando o modo sandbox.
func (d Direct) V5URL() string {
	if d.Sandbox {
		return d.SandboxAPIv5URL
	}
	return d.APIv5URL
}

// V501URL retorna a URL base da API v501 considerando o modo sandbox.
func (d Direct) V501URL() string {
	if d.Sandbox {
		return d.SandboxAPIv501URL
	}
	return d.APIv501URL
}

// ReportsEndpoint retorna a URL do serviço de relatórios considerando o modo sandbox.
func (d Direct) ReportsEndpoint() string {
	if d.Sandbox {
		return d.SandboxReportsURL
	}
	return d.ReportsURL
}

// StatsSync controla o agendamento e o comportamento da sincronização
// semanal de estatísticas (fases 1 e 2).
type StatsSync struct {
	CronSchedule        string `mapstructure:"stats_sync_cron"`
	WeeksWindow         int    `mapstructure:"stats_sync_weeks_window"`
	RequestDelaySeconds int    `mapstructure:"stats_sync_request_delay_seconds"`
	MaxAttempts         int    `mapstructure:"stats_sync_max_attempts"`
	BaseDelaySeconds    int    `mapstructure:"stats_sync_base_delay_seconds"`
	MaxDelaySeconds     int    `mapstructure:"stats_sync_max_delay_seconds"`
	TimeoutMinutes      int    `mapstructure:"stats_sync_timeout_minutes"`
	Enabled             bool   `mapstructure:"stats_sync_enabled"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/direct_insights")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("DIRECT_API_V5_URL", "https://api.direct.yandex.com/json/v5/")
	viper.SetDefault("DIRECT_API_V501_URL", "https://api.direct.yandex.com/json/v501/")
	viper.SetDefault("DIRECT_REPORTS_URL", "https://api.direct.yandex.com/json/v5/reports")
	viper.SetDefault("DIRECT_SANDBOX_API_V5_URL", "https://api-sandbox.direct.yandex.com/json/v5/")
	viper.SetDefault("DIRECT_SANDBOX_API_V501_URL", "https://api-sandbox.direct.yandex.com/json/v501/")
	viper.SetDefault("DIRECT_SANDBOX_REPORTS_URL", "https://api-sandbox.direct.yandex.com/json/v5/reports")
	viper.SetDefault("DIRECT_OAUTH_TOKEN_URL", "https://oauth.yandex.ru/token")
	viper.SetDefault("DIRECT_CLIENT_ID", "your_client_id")         // ONLY LOCAL
	viper.SetDefault("DIRECT_CLIENT_SECRET", "your_client_secret") // ONLY LOCAL
	viper.SetDefault("DIRECT_SANDBOX", true)

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	// Defaults para sincronização de estatísticas semanais
	viper.SetDefault("STATS_SYNC_CRON", "0 4 * * *")        // Todos os dias às 4h da manhã
	viper.SetDefault("STATS_SYNC_WEEKS_WINDOW", 4)          // Janela de 4 semanas na fase 2
	viper.SetDefault("STATS_SYNC_REQUEST_DELAY_SECONDS", 2) // 2 segundos entre relatórios da mesma conta
	viper.SetDefault("STATS_SYNC_MAX_ATTEMPTS", 15)         // Teto de tentativas por relatório
	viper.SetDefault("STATS_SYNC_BASE_DELAY_SECONDS", 2)    // Backoff inicial
	viper.SetDefault("STATS_SYNC_MAX_DELAY_SECONDS", 60)    // Backoff máximo
	viper.SetDefault("STATS_SYNC_TIMEOUT_MINUTES", 45)      // Prazo global de uma execução
	viper.SetDefault("STATS_SYNC_ENABLED", false)           // Habilitar sincronização agendada

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if config.Direct.Sandbox {
		logrus.Warn("API do Direct em modo sandbox; nenhum dado de produção será consultado")
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
