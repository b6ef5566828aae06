package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all upstream requests.
const DefaultUserAgent = "ShowFinder/2.0 (+https://github.com/Belphemur/ShowFinder)"

// DefaultTVMazeBaseURL is the root of the TVMaze public API.
const DefaultTVMazeBaseURL = "http://api.tvmaze.com/"

// DefaultFallbackImageURL is used for shows the API returns without artwork.
const DefaultFallbackImageURL = "https://tinyurl.com/tv-missing"

// Summary rendering policies.
const (
	SummaryPolicySanitize = "sanitize"
	SummaryPolicyRaw      = "raw"
	SummaryPolicyText     = "text"
)

type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	TVMazeBaseURL         string `mapstructure:"tvmaze_base_url"`
	FallbackImageURL      string `mapstructure:"fallback_image_url"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1m", etc.
	UserAgent             string `mapstructure:"user_agent"`
	Server                struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	LogLevel string `mapstructure:"log_level"`
	Metrics  struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	GRPC struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"grpc"`
	Registry struct {
		Provider string `mapstructure:"provider"` // "memory" or "redis"
		Size     int    `mapstructure:"size"`     // Maximum number of show handles kept
		TTL      string `mapstructure:"ttl"`      // Go duration string like "1h"
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"registry"`
	Session struct {
		Size int    `mapstructure:"size"`
		TTL  string `mapstructure:"ttl"`
	} `mapstructure:"session"`
	Render struct {
		SummaryPolicy string `mapstructure:"summary_policy"`
	} `mapstructure:"render"`
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

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Info().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	logger.Info().Msg("Configuration loaded successfully")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("log_level", "LOG_LEVEL")

	v.SetDefault("tvmaze_base_url", DefaultTVMazeBaseURL)
	v.SetDefault("fallback_image_url", DefaultFallbackImageURL)
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("server.address", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.port", 9091)
	v.SetDefault("registry.provider", "memory")
	v.SetDefault("registry.size", 10000)
	v.SetDefault("registry.ttl", "24h")
	v.SetDefault("session.size", 1000)
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("render.summary_policy", SummaryPolicySanitize)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
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

// GetFallbackImageURL returns the artwork used for shows without an image.
func GetFallbackImageURL() string {
	if globalConfig != nil && globalConfig.FallbackImageURL != "" {
		return globalConfig.FallbackImageURL
	}

	return DefaultFallbackImageURL
}

func GetLogger() zerolog.Logger {
	return logger
}
