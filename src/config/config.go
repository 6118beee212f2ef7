package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"market-dashboard/src/chart"
	"market-dashboard/src/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override (DASHBOARD_PORT, ...).
const EnvPrefix = "DASHBOARD"

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// envOverrides lists the settings that may come from the environment.
// Empty or zero values leave the YAML value untouched.
type envOverrides struct {
	Host            string `envconfig:"HOST"`
	Port            int    `envconfig:"PORT"`
	GrpcPort        int    `envconfig:"GRPC_PORT"`
	LogLevel        string `envconfig:"LOG_LEVEL"`
	DBType          string `envconfig:"DB_TYPE"`
	DBPath          string `envconfig:"DB_PATH"`
	DBConnection    string `envconfig:"DB_CONNECTION_STRING"`
	FinnhubKey      string `envconfig:"FINNHUB_API_KEY"`
	AlphaVantageKey string `envconfig:"ALPHA_VANTAGE_API_KEY"`
	MarketauxKey    string `envconfig:"MARKETAUX_API_KEY"`
	ChatURL         string `envconfig:"CHAT_BASE_URL"`
}

// -----------------------------------------------------------------------------

// NewConfig loads the YAML file, applies defaults, then the optional .env
// files and DASHBOARD_* variables, and validates the result.
func NewConfig(configPath string, envFiles ...string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.ApplyDefaults()

	// 3. Environment
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func loadEnvFiles(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file '%s': %w", f, err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

// ApplyDefaults fills every unset field with its production default.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "market-dashboard"
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.GrpcPort == 0 {
		c.GrpcPort = 50051
	}

	if c.Storage.DBType == "" {
		c.Storage.DBType = "sqlite"
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		c.Storage.DBPath = "market_dashboard.db"
	}
	if c.Storage.RetentionDays == 0 {
		c.Storage.RetentionDays = 7
	}

	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 10
	}
	if c.Network.ConcurrentRequests == 0 {
		c.Network.ConcurrentRequests = 4
	}

	p := &c.Providers
	setDefault(&p.Finnhub.BaseURL, "https://finnhub.io/api/v1")
	setDefault(&p.AlphaVantage.BaseURL, "https://www.alphavantage.co")
	setDefault(&p.Yahoo.BaseURL, "https://query1.finance.yahoo.com")
	setDefault(&p.ExchangeRate.BaseURL, "https://api.exchangerate-api.com")
	setDefault(&p.Marketaux.BaseURL, "https://api.marketaux.com")
	setDefault(&c.Chat.BaseURL, "http://localhost:8000")

	setDefault(&c.Chart.DefaultPeriod, chart.DefaultPeriod)
	setDefault(&c.Chart.LabelTimezone, "UTC")
	setDefault(&c.Chart.StockSource, "finnhub")
	if c.Chart.CacheMaxEntries == 0 {
		c.Chart.CacheMaxEntries = 256
	}
	if c.Chart.DegradedTTLSeconds == 0 {
		c.Chart.DegradedTTLSeconds = 60
	}

	if c.Scheduler.OverviewIntervalSeconds == 0 {
		c.Scheduler.OverviewIntervalSeconds = 120
	}
	if c.Scheduler.NewsIntervalSeconds == 0 {
		c.Scheduler.NewsIntervalSeconds = 300
	}
	if len(c.Scheduler.NewsCategories) == 0 {
		c.Scheduler.NewsCategories = []string{"global"}
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// -----------------------------------------------------------------------------

// ApplyEnv overlays DASHBOARD_* environment variables.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}

	overrideString(&c.Host, env.Host)
	overrideString(&c.LogLevel, env.LogLevel)
	overrideString(&c.Storage.DBType, env.DBType)
	overrideString(&c.Storage.DBPath, env.DBPath)
	overrideString(&c.Storage.DBConnectionString, env.DBConnection)
	overrideString(&c.Providers.Finnhub.APIKey, env.FinnhubKey)
	overrideString(&c.Providers.AlphaVantage.APIKey, env.AlphaVantageKey)
	overrideString(&c.Providers.Marketaux.APIKey, env.MarketauxKey)
	overrideString(&c.Chat.BaseURL, env.ChatURL)
	if env.Port != 0 {
		c.Port = env.Port
	}
	if env.GrpcPort != 0 {
		c.GrpcPort = env.GrpcPort
	}
	return nil
}

func overrideString(field *string, value string) {
	if value != "" {
		*field = value
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort < 0 || c.GrpcPort > 65535 {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}

	switch c.Storage.DBType {
	case "none":
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return fmt.Errorf("database connection string cannot be empty for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %q", c.Storage.DBType)
	}
	if c.Storage.RetentionDays <= 0 {
		return fmt.Errorf("retention days must be greater than 0")
	}

	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.Network.ConcurrentRequests <= 0 {
		return fmt.Errorf("concurrent requests must be greater than 0")
	}

	if !chart.IsKnownPeriod(c.Chart.DefaultPeriod) {
		return fmt.Errorf("unknown default chart period %q", c.Chart.DefaultPeriod)
	}
	if c.Chart.CacheMaxEntries < 0 || c.Chart.CacheTTLSeconds < 0 {
		return fmt.Errorf("chart cache bounds cannot be negative")
	}
	if c.Chart.StockSource != "finnhub" && c.Chart.StockSource != "yahoo" {
		return fmt.Errorf("unsupported stock source: %q", c.Chart.StockSource)
	}
	if _, err := time.LoadLocation(c.Chart.LabelTimezone); err != nil {
		return fmt.Errorf("invalid label timezone %q: %w", c.Chart.LabelTimezone, err)
	}

	if c.Scheduler.OverviewIntervalSeconds <= 0 || c.Scheduler.NewsIntervalSeconds <= 0 {
		return fmt.Errorf("scheduler intervals must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// RequestTimeout returns the per-request network timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Network.RequestTimeout) * time.Second
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
