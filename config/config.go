package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type AppConfig struct {
	LogLevel    string
	ServiceName string
	Renderer    string
	ProfilePath string
	// OtelEndpoint enables tracing and log export when set
	OtelEndpoint string
	DatabaseURL  string
	RedisURL     string
	RabbitMQURL  string
	ChartQueue   string
	// BinMinutes is the throughput band width
	BinMinutes  int
	CacheConfig CacheConfig
	WatchConfig WatchConfig
}

type CacheConfig struct {
	SeriesTTL time.Duration `mapstructure:"series_ttl"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

const (
	DefaultServiceName = "fuzzplot"
	DefaultRenderer    = "gonum"
	DefaultChartQueue  = "chart_queue"
)

func LoadConfig() *AppConfig {
	// use a temporary logger for now
	logger := zap.NewExample().Named("config")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to load .env", zap.Error(err))
	}

	config := &AppConfig{
		LogLevel:     os.Getenv("LOG_LEVEL"),
		ServiceName:  os.Getenv("SERVICE_NAME"),
		Renderer:     os.Getenv("FUZZPLOT_RENDERER"),
		ProfilePath:  os.Getenv("FUZZPLOT_PROFILE"),
		OtelEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		RabbitMQURL:  os.Getenv("RABBITMQ_URL"),
		ChartQueue:   os.Getenv("CHART_QUEUE"),
		BinMinutes:   parseInt(os.Getenv("FUZZPLOT_BIN_MINUTES"), 10),
		CacheConfig: CacheConfig{
			SeriesTTL: parseDuration(os.Getenv("SERIES_CACHE_TTL"), 24*time.Hour),
		},
		WatchConfig: WatchConfig{
			Debounce: parseDuration(os.Getenv("WATCH_DEBOUNCE"), 2*time.Second),
		},
	}

	if config.LogLevel == "" {
		config.LogLevel = "info" // Set default log level
	}
	if config.ServiceName == "" {
		config.ServiceName = DefaultServiceName
	}
	if config.Renderer == "" {
		config.Renderer = DefaultRenderer
	}
	if config.ChartQueue == "" {
		config.ChartQueue = DefaultChartQueue
	}

	return config
}

func parseDuration(val string, defaultVal time.Duration) time.Duration {
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseInt(val string, defaultVal int) int {
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
