package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvProduction = "production"

	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// DefaultFile es el fichero opcional de variables, al estilo dotenv.
const DefaultFile = "config/config.env"

type Config struct {
	AppEnv   string
	HTTPPort string
	LogLevel string

	Storage       string
	MongoURI      string
	MongoDatabase string

	RedisAddr string
	CacheTTL  time.Duration

	UseKafka     bool
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	OutboxPeriod time.Duration
	OutboxLimit  int

	GeocoderAPIKey  string
	GeocoderBaseURL string
	GeocoderTimeout time.Duration

	JWTSecret           string
	JWTExpire           time.Duration
	JWTCookieExpireDays int

	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string

	// PaginationFilteredTotal usa el número de coincidencias del filtro para next/prev.
	PaginationFilteredTotal bool
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE", StorageMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "devcamper")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("USE_KAFKA", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "devcamper-events")
	v.SetDefault("KAFKA_GROUP_ID", "devcamper-bootcamp-stats")
	v.SetDefault("OUTBOX_PERIOD", "10s")
	v.SetDefault("OUTBOX_LIMIT", 50)
	v.SetDefault("GEOCODER_API_KEY", "")
	v.SetDefault("GEOCODER_BASE_URL", "")
	v.SetDefault("GEOCODER_TIMEOUT", "5s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRE", "720h")
	v.SetDefault("JWT_COOKIE_EXPIRE", 30)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("PAGINATION_FILTERED_TOTAL", false)
}

// LoadConfig lee file (si existe) y después el entorno, que tiene prioridad.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", file, err)
			}
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:                  v.GetString("APP_ENV"),
		HTTPPort:                v.GetString("PORT"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		Storage:                 strings.ToLower(v.GetString("STORAGE")),
		MongoURI:                v.GetString("MONGO_URI"),
		MongoDatabase:           v.GetString("MONGO_DATABASE"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		CacheTTL:                v.GetDuration("CACHE_TTL"),
		UseKafka:                v.GetBool("USE_KAFKA"),
		KafkaBrokers:            splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:              v.GetString("KAFKA_TOPIC"),
		KafkaGroupID:            v.GetString("KAFKA_GROUP_ID"),
		OutboxPeriod:            v.GetDuration("OUTBOX_PERIOD"),
		OutboxLimit:             v.GetInt("OUTBOX_LIMIT"),
		GeocoderAPIKey:          v.GetString("GEOCODER_API_KEY"),
		GeocoderBaseURL:         v.GetString("GEOCODER_BASE_URL"),
		GeocoderTimeout:         v.GetDuration("GEOCODER_TIMEOUT"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTExpire:               v.GetDuration("JWT_EXPIRE"),
		JWTCookieExpireDays:     v.GetInt("JWT_COOKIE_EXPIRE"),
		RateLimitRPS:            v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:          v.GetInt("RATE_LIMIT_BURST"),
		CORSAllowedOrigins:      splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		PaginationFilteredTotal: v.GetBool("PAGINATION_FILTERED_TOTAL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("config: STORAGE must be %q or %q, got %q", StorageMongo, StorageMemory, c.Storage)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("config: JWT_SECRET is required in production")
		}
		c.JWTSecret = "devcamper-dev-secret"
	}
	if c.JWTExpire <= 0 {
		return errors.New("config: JWT_EXPIRE must be a positive duration")
	}
	if c.OutboxPeriod <= 0 || c.OutboxLimit <= 0 {
		return errors.New("config: OUTBOX_PERIOD and OUTBOX_LIMIT must be positive")
	}
	if c.UseKafka && len(c.KafkaBrokers) == 0 {
		return errors.New("config: KAFKA_BROKERS is required when USE_KAFKA is set")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
