package models

// MConfig Structure
type MConfig struct {
	Name      string           `yaml:"name"`
	Host      string           `yaml:"host"`
	Port      int              `yaml:"port"`
	LogLevel  string           `yaml:"log_level"`
	LogPretty bool             `yaml:"log_pretty"`
	GrpcHost  string           `yaml:"grpc_host"`
	GrpcPort  int              `yaml:"grpc_port"`
	Storage   MStorageConfig   `yaml:"storage"`
	Network   MNetworkConfig   `yaml:"network"`
	Providers MProvidersConfig `yaml:"providers"`
	Chart     MChartConfig     `yaml:"chart"`
	Scheduler MSchedulerConfig `yaml:"scheduler"`
	Chat      MChatConfig      `yaml:"chat"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // sqlite, postgres or none
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	RetentionDays      int    `yaml:"retention_days"`
}

type MNetworkConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Proxies            []string `yaml:"proxies"`
	RequestTimeout     int      `yaml:"timeout"`
	MaxRetries         int      `yaml:"retries"`
	ConcurrentRequests int      `yaml:"concurrent_requests"`
	UserAgent          string   `yaml:"user_agent"`
}

// MProviderConfig describes one upstream HTTP API.
type MProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type MProvidersConfig struct {
	Finnhub      MProviderConfig `yaml:"finnhub"`
	AlphaVantage MProviderConfig `yaml:"alpha_vantage"`
	Yahoo        MProviderConfig `yaml:"yahoo"`
	ExchangeRate MProviderConfig `yaml:"exchange_rate"`
	Marketaux    MProviderConfig `yaml:"marketaux"`
}

type MChartConfig struct {
	DefaultPeriod      string `yaml:"default_period"`
	LabelTimezone      string `yaml:"label_timezone"`
	CacheMaxEntries    int    `yaml:"cache_max_entries"`
	CacheTTLSeconds    int    `yaml:"cache_ttl_seconds"`
	DegradedTTLSeconds int    `yaml:"degraded_ttl_seconds"`
	// StockSource selects the equities adapter: finnhub or yahoo.
	StockSource string `yaml:"stock_source"`
}

type MSchedulerConfig struct {
	OverviewIntervalSeconds int      `yaml:"overview_interval_seconds"`
	NewsIntervalSeconds     int      `yaml:"news_interval_seconds"`
	NewsCategories          []string `yaml:"news_categories"`
	MarketHoursOnly         bool     `yaml:"market_hours_only"`
}

type MChatConfig struct {
	BaseURL string `yaml:"base_url"`
}
