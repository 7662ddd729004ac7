package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of a generate/clean run
type Config struct {
	Records        int
	Seed           int64
	RawPath        string
	CleanedPath    string
	LogLevel       string
	Realistic      bool
	ReformatPhones bool
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Records:        10000,
		Seed:           42,
		RawPath:        "data/raw_customer_data.csv",
		CleanedPath:    "data/cleaned_customer_data.csv",
		LogLevel:       "info",
		Realistic:      false,
		ReformatPhones: false,
	}
}

// Load resolves settings from an optional config.yaml under configPath and
// CLEANER_* environment variables, on top of the defaults
func Load(configPath string, logger *logrus.Logger) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("CLEANER")

	v.BindEnv("records")
	v.BindEnv("seed")
	v.BindEnv("raw_path")
	v.BindEnv("cleaned_path")
	v.BindEnv("log_level")
	v.BindEnv("realistic")
	v.BindEnv("reformat_phones")

	if err := v.ReadInConfig(); err != nil {
		logger.Debugf("No config.yaml found under %s, using defaults and env vars", configPath)
	} else {
		logger.Infof("Loaded configuration from %s", v.ConfigFileUsed())
	}

	if v.IsSet("records") {
		cfg.Records = v.GetInt("records")
	}
	if v.IsSet("seed") {
		cfg.Seed = v.GetInt64("seed")
	}
	if v.IsSet("raw_path") {
		cfg.RawPath = v.GetString("raw_path")
	}
	if v.IsSet("cleaned_path") {
		cfg.CleanedPath = v.GetString("cleaned_path")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("realistic") {
		cfg.Realistic = v.GetBool("realistic")
	}
	if v.IsSet("reformat_phones") {
		cfg.ReformatPhones = v.GetBool("reformat_phones")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the resolved settings
func (c *Config) Validate() error {
	if c.Records <= 0 {
		return fmt.Errorf("records must be positive, got %d", c.Records)
	}
	if c.RawPath == "" {
		return fmt.Errorf("raw data path must not be empty")
	}
	if c.CleanedPath == "" {
		return fmt.Errorf("cleaned data path must not be empty")
	}
	return nil
}
