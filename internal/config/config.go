package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "SHEETROWS"

// Source modes for reading the spreadsheet.
const (
	SourceExport = "export"
	SourceAPI    = "api"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Sheet     SheetConfig     `yaml:"sheet" envconfig:"SHEET"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"45s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"40s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"*"`
	AllowedHeaders []string        `yaml:"allowed_headers" envconfig:"ALLOWED_HEADERS" default:"authorization,x-client-info,apikey,content-type"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"20"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"40"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/sheetrows.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// SheetConfig identifies the published spreadsheet and how rows are scoped.
type SheetConfig struct {
	SpreadsheetID  string        `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	GID            string        `yaml:"gid" envconfig:"GID" default:"0"`
	Source         string        `yaml:"source" envconfig:"SOURCE" default:"export"`
	ExportBaseURL  string        `yaml:"export_base_url" envconfig:"EXPORT_BASE_URL" default:"https://docs.google.com/spreadsheets/d"`
	APIKey         string        `yaml:"api_key" envconfig:"API_KEY"`
	APIEndpoint    string        `yaml:"api_endpoint" envconfig:"API_ENDPOINT"`
	Range          string        `yaml:"range" envconfig:"RANGE" default:"Sheet1"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" default:"30s"`
	IdentityLabels []string      `yaml:"identity_labels" envconfig:"IDENTITY_LABELS" default:"電郵,email,Email"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" envconfig:"SERVICE_NAME" default:"sheetrows"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS" default:"true"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, explicit, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
		cfg = mergeExplicit(*explicit, cfg)
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileScalars records the file fields whose zero value is meaningful, so an
// explicit false or 0 can be told apart from an absent key.
type fileScalars struct {
	Server struct {
		MaxHeaderBytes *int `yaml:"max_header_bytes"`
	} `yaml:"server"`
	Security struct {
		EnableCORS *bool `yaml:"enable_cors"`
		RateLimit  struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"rate_limit"`
	} `yaml:"security"`
	Logging struct {
		Development *bool `yaml:"development"`
	} `yaml:"logging"`
	Telemetry struct {
		EnableMetrics *bool    `yaml:"enable_metrics"`
		SampleRatio   *float64 `yaml:"sample_ratio"`
	} `yaml:"telemetry"`
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, *fileScalars, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, err
	}
	var explicit fileScalars
	if err := yaml.Unmarshal(data, &explicit); err != nil {
		return nil, nil, err
	}

	return &cfg, &explicit, nil
}

// mergeExplicit applies the boolean and numeric file keys that were present,
// again only where the environment left them unset.
func mergeExplicit(file fileScalars, envConfig Config) Config {
	flag := func(dst *bool, src *bool, key string) {
		if src != nil && !envSet(key) {
			*dst = *src
		}
	}

	if file.Server.MaxHeaderBytes != nil && !envSet("SERVER_MAX_HEADER_BYTES") {
		envConfig.Server.MaxHeaderBytes = *file.Server.MaxHeaderBytes
	}
	flag(&envConfig.Security.EnableCORS, file.Security.EnableCORS, "SECURITY_ENABLE_CORS")
	flag(&envConfig.Security.RateLimit.Enabled, file.Security.RateLimit.Enabled, "SECURITY_RATE_LIMIT_ENABLED")
	flag(&envConfig.Logging.Development, file.Logging.Development, "LOGGING_DEVELOPMENT")
	flag(&envConfig.Telemetry.EnableMetrics, file.Telemetry.EnableMetrics, "TELEMETRY_ENABLE_METRICS")
	if file.Telemetry.SampleRatio != nil && !envSet("TELEMETRY_SAMPLE_RATIO") {
		envConfig.Telemetry.SampleRatio = *file.Telemetry.SampleRatio
	}

	return envConfig
}

// mergeConfigs overlays file values onto envConfig wherever the matching
// environment variable was not set explicitly.
func mergeConfigs(fileConfig, envConfig Config) Config {
	str := func(dst *string, src string, key string) {
		if src != "" && !envSet(key) {
			*dst = src
		}
	}
	dur := func(dst *time.Duration, src time.Duration, key string) {
		if src != 0 && !envSet(key) {
			*dst = src
		}
	}
	list := func(dst *[]string, src []string, key string) {
		if len(src) > 0 && !envSet(key) {
			*dst = src
		}
	}

	// Server
	if fileConfig.Server.Port != 0 && !envSet("SERVER_PORT") {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	dur(&envConfig.Server.ReadTimeout, fileConfig.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	dur(&envConfig.Server.WriteTimeout, fileConfig.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	dur(&envConfig.Server.IdleTimeout, fileConfig.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	dur(&envConfig.Server.ShutdownTimeout, fileConfig.Server.ShutdownTimeout, "SERVER_SHUTDOWN_TIMEOUT")
	dur(&envConfig.Server.RequestTimeout, fileConfig.Server.RequestTimeout, "SERVER_REQUEST_TIMEOUT")

	// Security
	list(&envConfig.Security.AllowedOrigins, fileConfig.Security.AllowedOrigins, "SECURITY_ALLOWED_ORIGINS")
	list(&envConfig.Security.AllowedHeaders, fileConfig.Security.AllowedHeaders, "SECURITY_ALLOWED_HEADERS")
	if fileConfig.Security.RateLimit.RPS != 0 && !envSet("SECURITY_RATE_LIMIT_RPS") {
		envConfig.Security.RateLimit.RPS = fileConfig.Security.RateLimit.RPS
	}
	if fileConfig.Security.RateLimit.Burst != 0 && !envSet("SECURITY_RATE_LIMIT_BURST") {
		envConfig.Security.RateLimit.Burst = fileConfig.Security.RateLimit.Burst
	}

	// Logging
	str(&envConfig.Logging.Level, fileConfig.Logging.Level, "LOGGING_LEVEL")
	str(&envConfig.Logging.Output, fileConfig.Logging.Output, "LOGGING_OUTPUT")
	str(&envConfig.Logging.FilePath, fileConfig.Logging.FilePath, "LOGGING_FILE_PATH")

	// Sheet
	str(&envConfig.Sheet.SpreadsheetID, fileConfig.Sheet.SpreadsheetID, "SHEET_SPREADSHEET_ID")
	str(&envConfig.Sheet.GID, fileConfig.Sheet.GID, "SHEET_GID")
	str(&envConfig.Sheet.Source, fileConfig.Sheet.Source, "SHEET_SOURCE")
	str(&envConfig.Sheet.ExportBaseURL, fileConfig.Sheet.ExportBaseURL, "SHEET_EXPORT_BASE_URL")
	str(&envConfig.Sheet.APIKey, fileConfig.Sheet.APIKey, "SHEET_API_KEY")
	str(&envConfig.Sheet.APIEndpoint, fileConfig.Sheet.APIEndpoint, "SHEET_API_ENDPOINT")
	str(&envConfig.Sheet.Range, fileConfig.Sheet.Range, "SHEET_RANGE")
	dur(&envConfig.Sheet.FetchTimeout, fileConfig.Sheet.FetchTimeout, "SHEET_FETCH_TIMEOUT")
	list(&envConfig.Sheet.IdentityLabels, fileConfig.Sheet.IdentityLabels, "SHEET_IDENTITY_LABELS")

	// Telemetry
	str(&envConfig.Telemetry.ServiceName, fileConfig.Telemetry.ServiceName, "TELEMETRY_SERVICE_NAME")
	str(&envConfig.Telemetry.Environment, fileConfig.Telemetry.Environment, "TELEMETRY_ENVIRONMENT")
	str(&envConfig.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter, "TELEMETRY_TRACE_EXPORTER")

	return envConfig
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + key)
	return ok
}

// normalize trims list entries that envconfig splits on bare commas.
func (c *Config) normalize() {
	c.Security.AllowedOrigins = trimAll(c.Security.AllowedOrigins)
	c.Security.AllowedHeaders = trimAll(c.Security.AllowedHeaders)
	c.Sheet.IdentityLabels = trimAll(c.Sheet.IdentityLabels)
	c.Sheet.SpreadsheetID = strings.TrimSpace(c.Sheet.SpreadsheetID)
	c.Sheet.ExportBaseURL = strings.TrimRight(c.Sheet.ExportBaseURL, "/")
	c.Sheet.Source = strings.ToLower(c.Sheet.Source)
	c.Logging.Level = strings.ToLower(c.Logging.Level)

	// Logs are always structured JSON.
	c.Logging.Format = "json"
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// validate validates the configuration
func (c *Config) validate() error {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid server port: %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		problems = append(problems, "server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		problems = append(problems, "server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		problems = append(problems, "at least one allowed origin must be specified")
	}
	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		problems = append(problems, "rate limit rps must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log level: %q", c.Logging.Level))
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		problems = append(problems, fmt.Sprintf("unknown log output: %q", c.Logging.Output))
	}

	if c.Sheet.SpreadsheetID == "" {
		problems = append(problems, "sheet spreadsheet id is required")
	}
	switch c.Sheet.Source {
	case SourceExport:
		if c.Sheet.ExportBaseURL == "" {
			problems = append(problems, "sheet export base url is required for export source")
		}
	case SourceAPI:
		if c.Sheet.APIKey == "" {
			problems = append(problems, "sheet api key is required for api source")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown sheet source: %q", c.Sheet.Source))
	}
	if c.Sheet.FetchTimeout <= 0 {
		problems = append(problems, "sheet fetch timeout must be positive")
	}
	if len(c.Sheet.IdentityLabels) == 0 {
		problems = append(problems, "at least one identity label must be specified")
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		problems = append(problems, fmt.Sprintf("unknown trace exporter: %q", c.Telemetry.TraceExporter))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// getConfigFilePath returns the path to the config file, or "" when none exists.
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"sheetrows.yaml",
		"configs/sheetrows.yaml",
		"../configs/sheetrows.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration. SpreadsheetID is left empty.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    45 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  40 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/sheetrows.log",
		},
		Sheet: SheetConfig{
			GID:            "0",
			Source:         SourceExport,
			ExportBaseURL:  "https://docs.google.com/spreadsheets/d",
			Range:          "Sheet1",
			FetchTimeout:   30 * time.Second,
			IdentityLabels: []string{"電郵", "email", "Email"},
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "sheetrows",
			Environment:   "development",
			TraceExporter: "none",
			EnableMetrics: true,
			SampleRatio:   1,
		},
	}
}
