// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Oracle     OracleConfig     `mapstructure:"oracle"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Arbitrage  ArbitrageConfig  `mapstructure:"arbitrage"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// OracleConfig holds advisory oracle client configuration.
type OracleConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	APIKey            string        `mapstructure:"api_key"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	InitialBackoff    time.Duration `mapstructure:"initial_backoff"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// SettlementConfig holds settlement layer configuration.
type SettlementConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Credential  string  `mapstructure:"credential"`
	Simulate    bool    `mapstructure:"simulate"`
	BaseCost    float64 `mapstructure:"base_cost"`     // reference-token units
	PerHopCost  float64 `mapstructure:"per_hop_cost"`  // reference-token units per hop
	CostCeiling float64 `mapstructure:"cost_ceiling"`  // preflight ceiling
}

// ProviderConfig holds read-only data provider configuration.
type ProviderConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	WebSocketURL   string        `mapstructure:"websocket_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Local          bool          `mapstructure:"local"` // serve from the in-process registry
}

// ArbitrageConfig holds arbitrage scan configuration.
type ArbitrageConfig struct {
	MinProfitPercent    float64       `mapstructure:"min_profit_percent"`
	MaxHops             int           `mapstructure:"max_hops"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	MaxOpportunities    int           `mapstructure:"max_opportunities"`
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold"`
	AutoExecute         bool          `mapstructure:"auto_execute"`
	ProbeAmounts        []float64     `mapstructure:"probe_amounts"` // display units of the start token
	ReferenceToken      string        `mapstructure:"reference_token"`
	TUIMode             bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// MinProfitPercentDecimal returns the minimum profit percent as decimal.Decimal.
func (c *ArbitrageConfig) MinProfitPercentDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitPercent)
}

// ProbeAmountsDecimal returns probe amounts as decimal.Decimal slice.
func (c *ArbitrageConfig) ProbeAmountsDecimal() []decimal.Decimal {
	result := make([]decimal.Decimal, len(c.ProbeAmounts))
	for i, s := range c.ProbeAmounts {
		result[i] = decimal.NewFromFloat(s)
	}
	return result
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("GSWAP")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "GSWAP_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "GSWAP_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "GSWAP_LOG_LEVEL", "LOG_LEVEL")

	// Oracle
	v.BindEnv("oracle.endpoint", "GSWAP_ORACLE_ENDPOINT", "ORACLE_ENDPOINT")
	v.BindEnv("oracle.api_key", "GSWAP_ORACLE_API_KEY", "ORACLE_API_KEY")
	v.BindEnv("oracle.max_retries", "GSWAP_ORACLE_MAX_RETRIES")

	// Settlement
	v.BindEnv("settlement.endpoint", "GSWAP_SETTLEMENT_ENDPOINT", "SETTLEMENT_ENDPOINT")
	v.BindEnv("settlement.credential", "GSWAP_SETTLEMENT_CREDENTIAL", "SETTLEMENT_CREDENTIAL")

	// Provider
	v.BindEnv("provider.base_url", "GSWAP_PROVIDER_URL", "PROVIDER_URL")
	v.BindEnv("provider.websocket_url", "GSWAP_PROVIDER_WS_URL", "PROVIDER_WS_URL")

	// Arbitrage
	v.BindEnv("arbitrage.min_profit_percent", "GSWAP_MIN_PROFIT_PERCENT")
	v.BindEnv("arbitrage.max_hops", "GSWAP_MAX_HOPS")
	v.BindEnv("arbitrage.poll_interval", "GSWAP_POLL_INTERVAL")
	v.BindEnv("arbitrage.auto_execute", "GSWAP_AUTO_EXECUTE")

	// Telemetry
	v.BindEnv("telemetry.enabled", "GSWAP_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "GSWAP_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "GSWAP_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "gswap-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Oracle defaults
	v.SetDefault("oracle.request_timeout", "15s")
	v.SetDefault("oracle.max_retries", 3)
	v.SetDefault("oracle.initial_backoff", "1s")
	v.SetDefault("oracle.requests_per_minute", 60)

	// Settlement defaults
	v.SetDefault("settlement.simulate", true)
	v.SetDefault("settlement.base_cost", 1.0)
	v.SetDefault("settlement.per_hop_cost", 0.5)
	v.SetDefault("settlement.cost_ceiling", 50.0)

	// Provider defaults
	v.SetDefault("provider.request_timeout", "10s")
	v.SetDefault("provider.local", true)

	// Arbitrage defaults
	v.SetDefault("arbitrage.min_profit_percent", 0.1)
	v.SetDefault("arbitrage.max_hops", 4)
	v.SetDefault("arbitrage.poll_interval", "5s")
	v.SetDefault("arbitrage.max_opportunities", 3)
	v.SetDefault("arbitrage.confidence_threshold", 0.6)
	v.SetDefault("arbitrage.auto_execute", false)
	v.SetDefault("arbitrage.probe_amounts", []float64{10, 100, 1000})
	v.SetDefault("arbitrage.reference_token", "GUSDC")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "gswap-engine")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Oracle.Endpoint != "" {
		if _, err := url.Parse(c.Oracle.Endpoint); err != nil {
			return fmt.Errorf("invalid oracle.endpoint: %w", err)
		}
	}
	if !c.Provider.Local && c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required when provider.local is false")
	}
	if c.Arbitrage.MaxHops < 3 {
		return fmt.Errorf("arbitrage.max_hops must be at least 3 (minimum triangular cycle)")
	}
	if c.Arbitrage.ConfidenceThreshold < 0 || c.Arbitrage.ConfidenceThreshold > 1 {
		return fmt.Errorf("arbitrage.confidence_threshold must be in [0,1]")
	}
	if c.Arbitrage.PollInterval <= 0 {
		return fmt.Errorf("arbitrage.poll_interval must be positive")
	}
	if len(c.Arbitrage.ProbeAmounts) == 0 {
		return fmt.Errorf("arbitrage.probe_amounts cannot be empty")
	}
	return nil
}
