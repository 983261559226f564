package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all outbound requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	DefaultTorrentioURL = "https://torrentio.strem.fun"
	DefaultTMDBURL      = "https://api.themoviedb.org/3"
	DefaultMetaCatalog  = "tmdb"
)

// ProviderConfig describes one provider of the cascade. The order of the
// providers list is the cascade priority.
type ProviderConfig struct {
	Name  string `mapstructure:"name"`
	Label string `mapstructure:"label"`
	// Path is the catalog route below the Consumet root, "movies/<name>" when empty.
	Path string `mapstructure:"path"`
	// Servers lists the delivery server variants to probe, in order. "" is the provider default.
	Servers []string `mapstructure:"servers"`
	// ExternalLookup enables info lookups by external id through the meta route.
	ExternalLookup bool `mapstructure:"external_lookup"`
	// DiscoverServers appends the servers advertised by the provider after the configured ones.
	DiscoverServers bool `mapstructure:"discover_servers"`
}

type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	UserAgent             string `mapstructure:"user_agent"`
	AppSharedSecret       string `mapstructure:"app_shared_secret"`
	Server                struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	LogLevel string `mapstructure:"log_level"`
	Client   struct {
		Timeout    string  `mapstructure:"timeout"` // Go duration string like "10s"
		MaxRetries int     `mapstructure:"max_retries"`
		RateLimit  float64 `mapstructure:"rate_limit"` // requests per second, 0 disables limiting
		RateBurst  int     `mapstructure:"rate_burst"`
	} `mapstructure:"client"`
	Consumet struct {
		BaseURL     string `mapstructure:"base_url"`
		MetaCatalog string `mapstructure:"meta_catalog"`
	} `mapstructure:"consumet"`
	Providers []ProviderConfig `mapstructure:"providers"`
	TMDB      struct {
		APIKey  string `mapstructure:"api_key"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"tmdb"`
	Torrentio struct {
		BaseURL   string `mapstructure:"base_url"`
		DebridKey string `mapstructure:"debrid_key"`
	} `mapstructure:"torrentio"`
	Cache struct {
		Provider string `mapstructure:"provider"` // "memory" or "redis"
		Size     int    `mapstructure:"size"`
		TTL      string `mapstructure:"ttl"` // Go duration string like "1h"
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	ConfigureLogger(config.LogLevel)
	globalConfig = config
	logger.Debug().Int("providers", len(config.Providers)).Msg("Configuration loaded successfully")
}

// Reload re-reads the configuration and replaces the global one. The CLI calls it
// after loading a .env file so those variables take effect.
func Reload() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	ConfigureLogger(cfg.LogLevel)
	globalConfig = cfg
	return cfg, nil
}

// ConfigureLogger sets the global and package logger level. Invalid levels fall back to info.
func ConfigureLogger(levelName string) {
	level := zerolog.InfoLevel
	if levelName != "" {
		if parsedLevel, err := zerolog.ParseLevel(levelName); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", levelName).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unprefixed names kept for existing deployments
	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("consumet.base_url", "CONSUMET_API_BASE_URL")
	_ = viper.BindEnv("tmdb.api_key", "TMDB_API_KEY")
	_ = viper.BindEnv("torrentio.debrid_key", "REALDEBRID_KEY")
	_ = viper.BindEnv("app_shared_secret", "APP_SHARED_SECRET")
	_ = viper.BindEnv("sentry.dsn", "SENTRY_DSN")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.address", "0.0.0.0")
	viper.SetDefault("client.timeout", "10s")
	viper.SetDefault("client.max_retries", 0)
	viper.SetDefault("client.rate_burst", 1)
	viper.SetDefault("consumet.meta_catalog", DefaultMetaCatalog)
	viper.SetDefault("tmdb.base_url", DefaultTMDBURL)
	viper.SetDefault("torrentio.base_url", DefaultTorrentioURL)
	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 1000)
	viper.SetDefault("cache.ttl", "6h")
	viper.SetDefault("metrics.port", 9090)

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if len(config.Providers) == 0 {
		config.Providers = DefaultProviders()
	}
	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultProviders returns the provider list used when none is configured.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{
			Name:           "flixhq",
			Label:          "FlixHQ",
			Servers:        []string{"", "vidcloud", "upcloud"},
			ExternalLookup: true,
		},
	}
}

// Validate checks invariants that viper cannot express: provider names must be
// present and unique within the list.
func Validate(cfg *Config) error {
	seen := make(map[string]struct{}, len(cfg.Providers))
	for i, p := range cfg.Providers {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("providers[%d]: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("providers[%d]: duplicate provider name %q", i, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// CatalogPath returns the provider's catalog route below the Consumet root.
func (p ProviderConfig) CatalogPath() string {
	if path := strings.Trim(p.Path, "/"); path != "" {
		return path
	}
	return "movies/" + p.Name
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}
