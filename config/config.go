package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	ServerPort     int    `env:"SERVER_PORT" envDefault:"8080"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	DefaultAvatarURL   string   `env:"DEFAULT_AVATAR_URL" envDefault:"/StephAvatar.png"`

	// Хранилище аватаров. Пустой AvatarBucketName отключает загрузку.
	AWSRegion         string `env:"AWS_REGION" envDefault:"us-east-1"`
	AvatarBucketName  string `env:"AVATAR_BUCKET_NAME"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`

	// Кэш таблицы результатов. Пустой RedisAddr отключает кэш.
	RedisAddr         string        `env:"REDIS_ADDR"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	RedisDB           int           `env:"REDIS_DB" envDefault:"0"`
	StandingsCacheTTL time.Duration `env:"STANDINGS_CACHE_TTL" envDefault:"5m"`
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "sqlite" {
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.DatabaseDriver)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.StandingsCacheTTL <= 0 {
		return fmt.Errorf("STANDINGS_CACHE_TTL must be positive, got %s", c.StandingsCacheTTL)
	}
	if c.AvatarBucketName != "" && c.S3Endpoint != "" && c.S3PublicBaseURL == "" {
		return fmt.Errorf("S3_PUBLIC_BASE_URL is required when S3_ENDPOINT is set")
	}
	return nil
}

// AvatarStorageEnabled сообщает, настроено ли хранилище аватаров.
func (c *Config) AvatarStorageEnabled() bool {
	return c.AvatarBucketName != ""
}

// CacheEnabled сообщает, настроен ли Redis для кэша таблицы результатов.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}
