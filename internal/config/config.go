package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yourorg/realty-agent-api/smythos"
)

// Config holds the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream" mapstructure:"upstream"`
	RateLimit RateLimitConfig `yaml:"ratelimit" mapstructure:"ratelimit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	Archive   ArchiveConfig   `yaml:"archive" mapstructure:"archive"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// UpstreamConfig configures the SmythOS agent client.
type UpstreamConfig struct {
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec   float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst        int     `yaml:"burst" mapstructure:"burst"`
	MaxBodyBytes int64   `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// RateLimitConfig limits inbound requests per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// StoreConfig configures the Postgres snapshot archive. Empty disables it.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RedisConfig configures the shape counters. Empty Addr disables them.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// ArchiveConfig sizes the background recorder.
type ArchiveConfig struct {
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size"`
	Workers   int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from an optional config.yaml and the environment.
// Env keys are AGENTAPI_<SECTION>_<KEY>, e.g. AGENTAPI_SERVER_PORT.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("AGENTAPI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 4002)
	v.SetDefault("upstream.base_url", smythos.DefaultBaseURL)
	v.SetDefault("upstream.timeout_secs", 60)
	v.SetDefault("upstream.rate_per_sec", 5)
	v.SetDefault("upstream.burst", 10)
	v.SetDefault("upstream.max_body_bytes", 4<<20)
	v.SetDefault("ratelimit.requests_per_minute", 100)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("store.database_url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("archive.queue_size", 256)
	v.SetDefault("archive.workers", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
