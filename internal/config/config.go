package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Хранилище
	DBDriver     string        `envconfig:"DB_DRIVER" default:"postgres"`
	DBDSN        string        `envconfig:"DB_DSN" required:"true"`
	StoreTimeout time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`

	// Telegram
	TelegramToken    string  `envconfig:"TELEGRAM_TOKEN"`
	AdminTelegramIDs []int64 `envconfig:"ADMIN_TELEGRAM_IDS"`

	// Кеш справочника площадок; пустой адрес отключает кеш
	RedisAddr        string        `envconfig:"REDIS_ADDR"`
	RedisPassword    string        `envconfig:"REDIS_PASSWORD"`
	RedisDB          int           `envconfig:"REDIS_DB" default:"0"`
	FacilityCacheTTL time.Duration `envconfig:"FACILITY_CACHE_TTL" default:"5m"`

	// События; пустой URL отключает публикацию
	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`

	// Трассировка; пустой адрес оставляет no-op провайдер
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"sports-booking"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver)
	}

	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}

	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}

	if c.RedisAddr != "" && c.FacilityCacheTTL <= 0 {
		return fmt.Errorf("FACILITY_CACHE_TTL must be positive when REDIS_ADDR is set")
	}

	return nil
}

// IsProduction сообщает о боевом окружении
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
