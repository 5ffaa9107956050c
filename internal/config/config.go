package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	DBDriver          string        `env:"DB_DRIVER,default=postgres"`
	DBHost            string        `env:"DB_HOST,default=localhost"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,default=postgres"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME,default=earnwatch"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBPath            string        `env:"DB_PATH,default=earnwatch.db"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	HTTPAddr            string        `env:"HTTP_ADDR,default=:8080"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT,default=15s"`
	CronSecret          string        `env:"CRON_SECRET"`
	CronSecretRequired  bool          `env:"CRON_SECRET_REQUIRED,default=true"`

	EmailAPIBaseURL string        `env:"EMAIL_API_BASE_URL,default=https://api.resend.com"`
	EmailAPIKey     string        `env:"EMAIL_API_KEY"`
	EmailFrom       string        `env:"EMAIL_FROM,default=Earnings Alerts <alerts@example.com>"`
	EmailTimeout    time.Duration `env:"EMAIL_TIMEOUT,default=10s"`
	BeforeSendHour  int           `env:"BEFORE_SEND_HOUR_UTC,default=13"`

	FinnhubBaseURL    string        `env:"FINNHUB_BASE_URL,default=https://finnhub.io/api/v1"`
	FinnhubAPIKey     string        `env:"FINNHUB_API_KEY"`
	FinnhubTimeout    time.Duration `env:"FINNHUB_TIMEOUT,default=10s"`
	EarningsLookahead time.Duration `env:"EARNINGS_LOOKAHEAD,default=8760h"`

	SyncExchanges    []string      `env:"SYNC_EXCHANGES,default=XNAS,XNYS"`
	EnrichBatchSize  int           `env:"ENRICH_BATCH_SIZE,default=50"`
	EnrichDelay      time.Duration `env:"ENRICH_DELAY,default=1100ms"`
	EnrichRetryAfter time.Duration `env:"ENRICH_RETRY_AFTER,default=720h"`

	TelegramBotToken  string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramOpsChatID int64         `env:"TELEGRAM_OPS_CHAT_ID"`
	TelegramTimeout   time.Duration `env:"TELEGRAM_TIMEOUT,default=10s"`

	LogLevel      string `env:"LOG_LEVEL,default=info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB,default=100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS,default=5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS,default=28"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate reports configuration that makes a run impossible. The trigger
// secret is only checked by ValidateServe.
func (c Config) Validate() error {
	var problems []string

	switch c.DBDriver {
	case "postgres":
		if c.DBHost == "" || c.DBName == "" {
			problems = append(problems, "DB_HOST and DB_NAME are required for postgres")
		}
	case "sqlite":
		if c.DBPath == "" {
			problems = append(problems, "DB_PATH is required for sqlite")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	if c.EmailAPIKey == "" {
		problems = append(problems, "EMAIL_API_KEY is required")
	}
	if c.FinnhubAPIKey == "" {
		problems = append(problems, "FINNHUB_API_KEY is required")
	}
	timeouts := []struct {
		key   string
		value time.Duration
	}{
		{"EMAIL_TIMEOUT", c.EmailTimeout},
		{"FINNHUB_TIMEOUT", c.FinnhubTimeout},
		{"TELEGRAM_TIMEOUT", c.TelegramTimeout},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			problems = append(problems, t.key+" must be positive")
		}
	}
	if c.BeforeSendHour < 0 || c.BeforeSendHour > 23 {
		problems = append(problems, "BEFORE_SEND_HOUR_UTC must be between 0 and 23")
	}
	if c.EnrichBatchSize <= 0 {
		problems = append(problems, "ENRICH_BATCH_SIZE must be positive")
	}
	if c.TelegramBotToken != "" && c.TelegramOpsChatID == 0 {
		problems = append(problems, "TELEGRAM_OPS_CHAT_ID is required with TELEGRAM_BOT_TOKEN")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateServe adds the checks that only matter when the HTTP trigger is
// exposed.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CronSecretRequired && c.CronSecret == "" {
		return errors.New("invalid configuration: CRON_SECRET is required when CRON_SECRET_REQUIRED is set")
	}
	return nil
}
