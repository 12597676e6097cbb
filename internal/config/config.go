package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server       Server       `mapstructure:"server"`
	Database     Database     `mapstructure:"database"`
	Logger       Logger       `mapstructure:"logger"`
	Market       Market       `mapstructure:"market"`
	Trading      Trading      `mapstructure:"trading"`
	Gamification Gamification `mapstructure:"gamification"`
	Chat         Chat         `mapstructure:"chat"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Market holds the configuration for the price feed simulator.
type Market struct {
	TickInterval int     `mapstructure:"tick_interval"` // seconds between ticks
	MinPrice     float64 `mapstructure:"min_price"`
}

// Trading holds the configuration for the order engine.
type Trading struct {
	StartingBalance float64 `mapstructure:"starting_balance"`
	PointsPerTrade  int     `mapstructure:"points_per_trade"`
	ProfitBonus     int     `mapstructure:"profit_bonus"`
}

// Gamification holds the tuning constants for module rewards and the
// virtual-money replenish grant. These are product tuning values, not fixed
// law, so they stay configurable.
type Gamification struct {
	ModuleXP         int     `mapstructure:"module_xp"`
	ModulePoints     int     `mapstructure:"module_points"`
	ReplenishTarget  float64 `mapstructure:"replenish_target"`
	ReplenishCap     float64 `mapstructure:"replenish_cap"`
	ReplenishEnabled bool    `mapstructure:"replenish_enabled"`
}

// Chat holds the configuration for the chat-completion API client.
type Chat struct {
	BaseURL        string  `mapstructure:"base_url"`
	ApiKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.dsn", "brokee.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("market.tick_interval", 3)
	viper.SetDefault("market.min_price", 1.0)
	viper.SetDefault("trading.starting_balance", 1000.00)
	viper.SetDefault("trading.points_per_trade", 10)
	viper.SetDefault("trading.profit_bonus", 10)
	viper.SetDefault("gamification.module_xp", 100)
	viper.SetDefault("gamification.module_points", 50)
	viper.SetDefault("gamification.replenish_target", 1000.00)
	viper.SetDefault("gamification.replenish_cap", 500.00)
	viper.SetDefault("gamification.replenish_enabled", true)
	viper.SetDefault("chat.base_url", "https://api.openai.com/v1")
	viper.SetDefault("chat.model", "gpt-3.5-turbo")
	viper.SetDefault("chat.temperature", 0.7)
	viper.SetDefault("chat.max_tokens", 500)
	viper.SetDefault("chat.rate_limit", 5) // requests per second
	viper.SetDefault("chat.rate_limit_burst", 2)

	if err = viper.ReadInConfig(); err != nil {
		// Defaults cover every key; a missing file is not fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
