// File: internal/config/config.go
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Database() DatabaseConfig
	Analysis() AnalysisConfig
	Discovery() DiscoveryConfig
	Output() OutputConfig

	// Analysis Setters
	SetAnalysisMaxHops(int)
	SetAnalysisTimeout(time.Duration)
	SetAnalysisConcurrency(int)

	// Output Setters
	SetOutputFormat(string)
	SetOutputPath(string)
}

// Config holds the entire application configuration. Sections are exported
// so viper can decode into them; callers go through the Interface getters.
type Config struct {
	LoggerCfg    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	DatabaseCfg  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	AnalysisCfg  AnalysisConfig  `mapstructure:"analysis" yaml:"analysis"`
	DiscoveryCfg DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
	OutputCfg    OutputConfig    `mapstructure:"output" yaml:"output"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig       { return c.LoggerCfg }
func (c *Config) Database() DatabaseConfig   { return c.DatabaseCfg }
func (c *Config) Analysis() AnalysisConfig   { return c.AnalysisCfg }
func (c *Config) Discovery() DiscoveryConfig { return c.DiscoveryCfg }
func (c *Config) Output() OutputConfig       { return c.OutputCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetAnalysisMaxHops(n int)           { c.AnalysisCfg.MaxHops = n }
func (c *Config) SetAnalysisTimeout(d time.Duration) { c.AnalysisCfg.Timeout = d }
func (c *Config) SetAnalysisConcurrency(n int)       { c.AnalysisCfg.Concurrency = n }
func (c *Config) SetOutputFormat(f string)           { c.OutputCfg.Format = f }
func (c *Config) SetOutputPath(p string)             { c.OutputCfg.Path = p }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DatabaseConfig points at the fact database: a SQLite file, a JSON fixture
// or a PostgreSQL URL.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// AnalysisConfig tunes the taint analyzer.
type AnalysisConfig struct {
	MaxHops     int           `mapstructure:"max_hops" yaml:"max_hops"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
	// AuthenticatedEndpointWeighting lowers the risk of sources behind
	// authenticated endpoints by one level.
	AuthenticatedEndpointWeighting bool `mapstructure:"authenticated_endpoint_weighting" yaml:"authenticated_endpoint_weighting"`
}

// DiscoveryConfig controls where sources and sinks come from.
type DiscoveryConfig struct {
	// RulesFile replaces the built-in rule tables when set.
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	// Sanitizers replaces the built-in sanitizer list when non-empty.
	Sanitizers      []string `mapstructure:"sanitizers" yaml:"sanitizers"`
	RequestPrefixes []string `mapstructure:"request_prefixes" yaml:"request_prefixes"`
}

// Supported report formats.
const (
	FormatJSON  = "json"
	FormatSARIF = "sarif"
	FormatText  = "text"
)

// OutputConfig selects the report writer.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	// Path is the report destination; empty or "-" writes to stdout.
	Path string `mapstructure:"path" yaml:"path"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "scalpel-taint")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Analysis --
	v.SetDefault("analysis.max_hops", 5)
	v.SetDefault("analysis.timeout", "5m")
	v.SetDefault("analysis.concurrency", 4)
	v.SetDefault("analysis.authenticated_endpoint_weighting", false)

	// -- Discovery --
	v.SetDefault("discovery.rules_file", "")
	v.SetDefault("discovery.sanitizers", []string{})
	v.SetDefault("discovery.request_prefixes", []string{})

	// -- Output --
	v.SetDefault("output.format", FormatJSON)
	v.SetDefault("output.path", "-")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	v.SetEnvPrefix("SCALPEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only consults keys viper already knows; the database URL
	// has no default, so bind it explicitly.
	_ = v.BindEnv("database.url", "SCALPEL_DATABASE_URL")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.AnalysisCfg.Validate(); err != nil {
		return fmt.Errorf("analysis configuration invalid: %w", err)
	}
	if err := c.OutputCfg.Validate(); err != nil {
		return fmt.Errorf("output configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the analysis settings.
func (a *AnalysisConfig) Validate() error {
	if a.MaxHops < 1 {
		return fmt.Errorf("analysis.max_hops must be at least 1")
	}
	if a.Concurrency <= 0 {
		return fmt.Errorf("analysis.concurrency must be a positive integer")
	}
	if a.Timeout < 0 {
		return fmt.Errorf("analysis.timeout must not be negative")
	}
	return nil
}

// Validate checks the output settings.
func (o *OutputConfig) Validate() error {
	if !slices.Contains([]string{FormatJSON, FormatSARIF, FormatText}, o.Format) {
		return fmt.Errorf("output.format must be one of json, sarif or text, got %q", o.Format)
	}
	return nil
}
