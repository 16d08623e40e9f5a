package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	GeoNames GeoNamesConfig
	Proxy    ProxyConfig
	Redis    RedisConfig
	Stats    StatsConfig
	Log      LogConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	AllowOrigins []string
}

// GeoNamesConfig - параметры upstream сервиса GeoNames
type GeoNamesConfig struct {
	BaseURL        string
	Username       string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

type ProxyConfig struct {
	// FailureStatus - HTTP статус, с которым отдаётся {"error":"Unable to fetch data"}
	FailureStatus int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type StatsConfig struct {
	StreamMaxLen   int64
	PublishTimeout time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	// ConsumerName должен переживать рестарт, иначе pending сообщения остаются за старым именем
	ConsumerName string
	BatchSize    int
	// ClaimMinIdle - через сколько неподтверждённое сообщение забирается повторно
	ClaimMinIdle time.Duration
}

// Load читает конфигурацию из .env (если файл есть) и переменных окружения
func Load() (*Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, envFile string) (*Config, error) {
	v.SetConfigFile(envFile)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("API_HOST"),
			Port:         v.GetInt("API_PORT"),
			Env:          v.GetString("API_ENV"),
			AllowOrigins: splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		},
		GeoNames: GeoNamesConfig{
			BaseURL:        strings.TrimRight(v.GetString("GEONAMES_BASE_URL"), "/"),
			Username:       v.GetString("GEONAMES_USERNAME"),
			RequestTimeout: time.Duration(v.GetInt("GEONAMES_TIMEOUT")) * time.Second,
			MaxBodyBytes:   v.GetInt64("GEONAMES_MAX_BODY_BYTES"),
		},
		Proxy: ProxyConfig{
			FailureStatus: v.GetInt("PROXY_FAILURE_STATUS"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Stats: StatsConfig{
			StreamMaxLen:   v.GetInt64("STATS_STREAM_MAXLEN"),
			PublishTimeout: time.Duration(v.GetInt("STATS_PUBLISH_TIMEOUT")) * time.Millisecond,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			ConsumerName:  v.GetString("WORKER_CONSUMER_NAME"),
			BatchSize:     v.GetInt("WORKER_BATCH_SIZE"),
			ClaimMinIdle:  time.Duration(v.GetInt("WORKER_CLAIM_MIN_IDLE")) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("GEONAMES_BASE_URL", "http://api.geonames.org")
	v.SetDefault("GEONAMES_TIMEOUT", 10)
	v.SetDefault("GEONAMES_MAX_BODY_BYTES", 10<<20)

	v.SetDefault("PROXY_FAILURE_STATUS", http.StatusBadGateway)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("STATS_STREAM_MAXLEN", 100000)
	v.SetDefault("STATS_PUBLISH_TIMEOUT", 500)

	v.SetDefault("WORKER_ENABLED", false)
	v.SetDefault("WORKER_CONSUMER_GROUP", "geo-lookup-stats")
	v.SetDefault("WORKER_BATCH_SIZE", 50)
	v.SetDefault("WORKER_CLAIM_MIN_IDLE", 30)
}

func (c *Config) validate() error {
	if c.GeoNames.Username == "" {
		return fmt.Errorf("GEONAMES_USERNAME is required")
	}
	if c.GeoNames.RequestTimeout <= 0 {
		return fmt.Errorf("GEONAMES_TIMEOUT must be positive")
	}
	if c.GeoNames.MaxBodyBytes <= 0 {
		return fmt.Errorf("GEONAMES_MAX_BODY_BYTES must be positive")
	}
	if http.StatusText(c.Proxy.FailureStatus) == "" {
		return fmt.Errorf("PROXY_FAILURE_STATUS %d is not a valid HTTP status", c.Proxy.FailureStatus)
	}
	if c.Worker.BatchSize <= 0 {
		c.Worker.BatchSize = 50
	}
	if c.Worker.ClaimMinIdle <= 0 {
		return fmt.Errorf("WORKER_CLAIM_MIN_IDLE must be positive")
	}
	if c.Worker.ConsumerName == "" {
		hostname, err := os.Hostname()
		if err != nil || hostname == "" {
			hostname = "stats-worker"
		}
		c.Worker.ConsumerName = hostname
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
