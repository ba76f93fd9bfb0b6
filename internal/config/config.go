package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Redis        RedisConfig        `yaml:"redis" mapstructure:"redis"`
	Neo4j        Neo4jConfig        `yaml:"neo4j" mapstructure:"neo4j"`
	Yutori       YutoriConfig       `yaml:"yutori" mapstructure:"yutori"`
	Tavily       TavilyConfig       `yaml:"tavily" mapstructure:"tavily"`
	AlphaVantage AlphaVantageConfig `yaml:"alphavantage" mapstructure:"alphavantage"`
	Anthropic    AnthropicConfig    `yaml:"anthropic" mapstructure:"anthropic"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// RedisConfig configures the result cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// Neo4jConfig configures the knowledge-graph store. An empty URI disables
// the graph store; builds become no-ops and queries return empty graphs.
type Neo4jConfig struct {
	URI      string `yaml:"uri" mapstructure:"uri"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
}

// YutoriConfig holds Yutori research/browsing API settings.
type YutoriConfig struct {
	Key              string `yaml:"key" mapstructure:"key"`
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	PollIntervalSecs int    `yaml:"poll_interval_secs" mapstructure:"poll_interval_secs"`
	ResearchAttempts int    `yaml:"research_attempts" mapstructure:"research_attempts"`
	BrowsingAttempts int    `yaml:"browsing_attempts" mapstructure:"browsing_attempts"`
}

// TavilyConfig holds Tavily search API settings.
type TavilyConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxResults  int     `yaml:"max_results" mapstructure:"max_results"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// AlphaVantageConfig holds Alpha Vantage financial API settings.
type AlphaVantageConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnthropicConfig holds Anthropic API settings for structured extraction.
type AnthropicConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	HaikuModel string `yaml:"haiku_model" mapstructure:"haiku_model"`
}

// CacheConfig holds per-namespace TTLs.
type CacheConfig struct {
	ProfileTTLSecs  int `yaml:"profile_ttl_secs" mapstructure:"profile_ttl_secs"`
	ProgressTTLSecs int `yaml:"progress_ttl_secs" mapstructure:"progress_ttl_secs"`
	ResearchTTLDays int `yaml:"research_ttl_days" mapstructure:"research_ttl_days"`
	BrowsingTTLDays int `yaml:"browsing_ttl_days" mapstructure:"browsing_ttl_days"`
	SearchTTLDays   int `yaml:"search_ttl_days" mapstructure:"search_ttl_days"`
	PendingTTLSecs  int `yaml:"pending_ttl_secs" mapstructure:"pending_ttl_secs"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COMPANYINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Credentials default to empty so env-only values bind.
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("neo4j.uri", "")
	v.SetDefault("neo4j.user", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("yutori.key", "")
	v.SetDefault("tavily.key", "")
	v.SetDefault("alphavantage.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8000)
	v.SetDefault("yutori.base_url", "https://api.yutori.com/v1")
	v.SetDefault("yutori.poll_interval_secs", 2)
	v.SetDefault("yutori.research_attempts", 150)
	v.SetDefault("yutori.browsing_attempts", 30)
	v.SetDefault("tavily.base_url", "https://api.tavily.com")
	v.SetDefault("tavily.timeout_secs", 30)
	v.SetDefault("tavily.max_results", 10)
	v.SetDefault("tavily.rate_per_sec", 2)
	v.SetDefault("alphavantage.base_url", "https://www.alphavantage.co")
	v.SetDefault("alphavantage.timeout_secs", 30)
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("cache.profile_ttl_secs", 3600)
	v.SetDefault("cache.progress_ttl_secs", 300)
	v.SetDefault("cache.research_ttl_days", 7)
	v.SetDefault("cache.browsing_ttl_days", 7)
	v.SetDefault("cache.search_ttl_days", 3)
	v.SetDefault("cache.pending_ttl_secs", 600)

	// Read config file (optional)
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
