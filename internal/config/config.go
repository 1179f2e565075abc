// config предоставляет структуру конфигурации elas-no-jogo
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
//
// Для файловых источников ENV накладывается поверх YAML.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	S3       S3Config       `yaml:"s3"`
	Media    MediaConfig    `yaml:"media"`
	Auth     AuthConfig     `yaml:"auth"`
	Feed     FeedConfig     `yaml:"feed"`
	Geocode  GeocodeConfig  `yaml:"geocode"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// HTTPConfig — публичный REST API и служебные эндпоинты (/livez, /healthz, /metrics).
type HTTPConfig struct {
	Host     string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:"/api/v1"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// GRPCConfig — gRPC-сервер (health + reflection).
type GRPCConfig struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

// Addr возвращает адрес в формате host:port.
func (g GRPCConfig) Addr() string { return net.JoinHostPort(g.Host, g.Port) }

type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES" env-required:"true"`
}

// RedisConfig — кэш refresh-токенов и подсказок локаций. Пустой URL отключает кэш.
type RedisConfig struct {
	URL            string `yaml:"url" env:"REDIS_URL"`
	RefreshPrefix  string `yaml:"refresh_prefix" env:"REDIS_REFRESH_PREFIX" env-default:"elas:rt:"`
	LocationPrefix string `yaml:"location_prefix" env:"REDIS_LOCATION_PREFIX" env-default:"elas:loc:"`
}

type S3Config struct {
	Endpoint      string        `yaml:"endpoint" env:"S3_ENDPOINT" env-required:"true"`
	RootUser      string        `yaml:"root_user" env:"S3_ROOT_USER" env-required:"true"`
	RootPassword  string        `yaml:"root_password" env:"S3_ROOT_PASSWORD" env-required:"true"`
	Bucket        string        `yaml:"bucket" env:"S3_BUCKET" env-required:"true"`
	PresignTTL    time.Duration `yaml:"presign_ttl" env:"S3_PRESIGN_TTL" env-default:"10m"`
	PublicBaseURL string        `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

// MediaLimits — ограничения на загружаемый объект одного вида.
type MediaLimits struct {
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"MAX_SIZE_BYTES"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"ALLOWED_CONTENT_TYPES" env-separator:","`
}

// MediaConfig — ограничения для видео, превью и аватаров.
type MediaConfig struct {
	Video              MediaLimits `yaml:"video" env-prefix:"VIDEO_"`
	Thumbnail          MediaLimits `yaml:"thumbnail" env-prefix:"THUMBNAIL_"`
	Avatar             MediaLimits `yaml:"avatar" env-prefix:"AVATAR_"`
	MaxDurationSeconds int         `yaml:"max_duration_seconds" env:"VIDEO_MAX_DURATION_SECONDS" env-default:"60"`
}

// AuthConfig — выпуск и проверка токенов.
type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"AUTH_REFRESH_TOKEN_TTL" env-default:"720h"`
	Issuer          string        `yaml:"issuer" env:"AUTH_ISSUER" env-default:"elas-no-jogo"`
	Audience        []string      `yaml:"audience" env:"AUTH_AUDIENCE" env-separator:"," env-default:"elas-no-jogo-app"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"AUTH_CLEANUP_INTERVAL" env-default:"1h"`
}

// FeedConfig — нормализация размера страницы ленты.
type FeedConfig struct {
	DefaultPageSize int `yaml:"default_page_size" env:"FEED_DEFAULT_PAGE_SIZE" env-default:"10"`
	MaxPageSize     int `yaml:"max_page_size" env:"FEED_MAX_PAGE_SIZE" env-default:"50"`
}

// GeocodeConfig — поиск локаций через Nominatim.
type GeocodeConfig struct {
	BaseURL        string        `yaml:"base_url" env:"GEOCODE_BASE_URL" env-default:"https://nominatim.openstreetmap.org"`
	UserAgent      string        `yaml:"user_agent" env:"GEOCODE_USER_AGENT" env-default:"ElasNoJogo/1.0"`
	AcceptLanguage string        `yaml:"accept_language" env:"GEOCODE_ACCEPT_LANGUAGE" env-default:"pt-BR"`
	Limit          int           `yaml:"limit" env:"GEOCODE_LIMIT" env-default:"6"`
	MinQueryLength int           `yaml:"min_query_length" env:"GEOCODE_MIN_QUERY_LENGTH" env-default:"3"`
	MaxSegments    int           `yaml:"max_segments" env:"GEOCODE_MAX_SEGMENTS" env-default:"3"`
	CacheTTL       time.Duration `yaml:"cache_ttl" env:"GEOCODE_CACHE_TTL" env-default:"24h"`
	Timeout        time.Duration `yaml:"timeout" env:"GEOCODE_TIMEOUT" env-default:"5s"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
	HTTP    time.Duration `yaml:"http" env:"HTTP_TIMEOUT" env-default:"15s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate заполняет значения по умолчанию для лимитов медиа и ленты
// и проверяет обязательные поля.
func (c *Config) validate() error {
	if c.S3.PresignTTL == 0 {
		c.S3.PresignTTL = 10 * time.Minute
	}

	if c.Media.Video.MaxSizeBytes == 0 {
		c.Media.Video.MaxSizeBytes = 50 * 1024 * 1024 // 50 MiB
	}

	if len(c.Media.Video.AllowedContentTypes) == 0 {
		c.Media.Video.AllowedContentTypes = []string{"video/mp4", "video/webm", "video/quicktime", "video/x-msvideo"}
	}

	if c.Media.Thumbnail.MaxSizeBytes == 0 {
		c.Media.Thumbnail.MaxSizeBytes = 2 * 1024 * 1024 // 2 MiB
	}

	if len(c.Media.Thumbnail.AllowedContentTypes) == 0 {
		c.Media.Thumbnail.AllowedContentTypes = []string{"image/jpeg"}
	}

	if c.Media.Avatar.MaxSizeBytes == 0 {
		c.Media.Avatar.MaxSizeBytes = 5 * 1024 * 1024 // 5 MiB
	}

	if len(c.Media.Avatar.AllowedContentTypes) == 0 {
		c.Media.Avatar.AllowedContentTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}

	if c.Media.MaxDurationSeconds == 0 {
		c.Media.MaxDurationSeconds = 60
	}

	if c.Feed.DefaultPageSize == 0 {
		c.Feed.DefaultPageSize = 10
	}

	if c.Feed.MaxPageSize == 0 {
		c.Feed.MaxPageSize = 50
	}

	if c.Postgres.URL == "" {
		return fmt.Errorf("postgres.url is required")
	}

	if err := validPort("http.port", c.HTTP.Port); err != nil {
		return err
	}

	if err := validPort("grpc.port", c.GRPC.Port); err != nil {
		return err
	}

	if c.S3.Endpoint == "" {
		return fmt.Errorf("s3.endpoint is required")
	}

	if c.S3.RootUser == "" || c.S3.RootPassword == "" {
		return fmt.Errorf("s3.root_user and s3.root_password are required")
	}

	if c.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required")
	}

	if c.S3.PresignTTL < 0 {
		return fmt.Errorf("s3.presign_ttl must be >= 0")
	}

	for name, lim := range map[string]MediaLimits{
		"video":     c.Media.Video,
		"thumbnail": c.Media.Thumbnail,
		"avatar":    c.Media.Avatar,
	} {
		if lim.MaxSizeBytes < 0 {
			return fmt.Errorf("media.%s.max_size_bytes must be >= 0", name)
		}
	}

	if c.Media.MaxDurationSeconds < 0 {
		return fmt.Errorf("media.max_duration_seconds must be >= 0")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("auth token ttls must be > 0")
	}

	if c.Feed.DefaultPageSize < 0 || c.Feed.MaxPageSize < c.Feed.DefaultPageSize {
		return fmt.Errorf("feed.max_page_size must be >= feed.default_page_size >= 0")
	}

	return nil
}

func validPort(name, port string) error {
	if port == "" {
		return fmt.Errorf("%s is required", name)
	}

	if p, err := strconv.Atoi(port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("%s must be a valid TCP port (1..65535)", name)
	}

	return nil
}
