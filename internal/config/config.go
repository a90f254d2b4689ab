package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Data       DataConfig       `yaml:"data"`
	Indicators IndicatorConfig  `yaml:"indicators"`
	Report     ReportConfig     `yaml:"report"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	// Allow override via environment
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DataConfig holds the dataset source configuration. Type selects the
// backend: "local" (CSV files on disk), "s3" (CSV files in a bucket) or
// "postgres" (the tables the original pipeline loaded into PostgreSQL).
type DataConfig struct {
	Type string `yaml:"type"`

	// Local source
	LocalPath string `yaml:"local_path"`

	// S3 source
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	AWSProfile string `yaml:"aws_profile"`

	// Postgres source
	DatabaseURL    string `yaml:"database_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	Files FileNames `yaml:"files"`
}

// FileNames holds per-table file names (or S3 keys, or SQL table names).
type FileNames struct {
	Customers string `yaml:"customers"`
	Items     string `yaml:"items"`
	Products  string `yaml:"products"`
	Segments  string `yaml:"segments"`
}

// Timeout returns the configured source timeout as a duration
func (c DataConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IndicatorConfig holds tunables for the indicator engine defaults
type IndicatorConfig struct {
	TopCustomers int `yaml:"top_customers"`
	TopProducts  int `yaml:"top_products"`
}

// ReportConfig holds narrative report settings
type ReportConfig struct {
	CompanyName string `yaml:"company_name"`
	Currency    string `yaml:"currency"`
}

// LoggingConfig holds log level settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Data.Type == "" {
		cfg.Data.Type = "local"
	}
	if cfg.Data.LocalPath == "" {
		cfg.Data.LocalPath = "./data"
	}
	if cfg.Data.TimeoutSeconds == 0 {
		cfg.Data.TimeoutSeconds = 30
	}
	if cfg.Data.Files.Customers == "" {
		cfg.Data.Files.Customers = "clientes.csv"
	}
	if cfg.Data.Files.Items == "" {
		cfg.Data.Files.Items = "itens_fatura.csv"
	}
	if cfg.Data.Files.Products == "" {
		cfg.Data.Files.Products = "produtos.csv"
	}
	if cfg.Indicators.TopCustomers == 0 {
		cfg.Indicators.TopCustomers = 100
	}
	if cfg.Indicators.TopProducts == 0 {
		cfg.Indicators.TopProducts = 10
	}
	if cfg.Report.Currency == "" {
		cfg.Report.Currency = "$"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so local setups can keep connection strings out of config.yaml.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if v := os.Getenv("DATA_SOURCE_TYPE"); v != "" {
		cfg.Data.Type = v
	}
	if v := os.Getenv("DATA_LOCAL_PATH"); v != "" {
		cfg.Data.LocalPath = v
	}
	if v := os.Getenv("DATA_S3_BUCKET"); v != "" {
		cfg.Data.S3Bucket = v
	}
	if v := os.Getenv("DATA_S3_REGION"); v != "" {
		cfg.Data.S3Region = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Data.DatabaseURL = v
		if cfg.Data.Type == "local" {
			cfg.Data.Type = "postgres"
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}
