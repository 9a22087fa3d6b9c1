package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Service   string `yaml:"service"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Recursive bool   `yaml:"recursive"`
	DryRun    bool   `yaml:"dry_run"`

	Concurrency  int    `yaml:"concurrency"`
	LogLevel     string `yaml:"log_level"`
	ShowProgress bool   `yaml:"show_progress"`
	MetricsAddr  string `yaml:"metrics_addr"`
	ReportDB     string `yaml:"report_db"`
}

// Load loads configuration from file, command line flags and environment
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	cfg := &Config{
		Recursive:    true,
		Concurrency:  1,
		LogLevel:     "info",
		ShowProgress: true,
	}

	// Load from YAML file if provided
	if configFile != "" {
		if err := loadFromFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with command line flags
	if err := loadFromFlags(cfg, flags); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	// Fall back to the standard AWS environment variables for credentials
	if cfg.AccessKey == "" {
		cfg.AccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func loadFromFlags(cfg *Config, flags *pflag.FlagSet) error {
	if flags.Changed("service") {
		cfg.Service, _ = flags.GetString("service")
	}
	if flags.Changed("region") {
		cfg.Region, _ = flags.GetString("region")
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("access-key") {
		cfg.AccessKey, _ = flags.GetString("access-key")
	}
	if flags.Changed("secret-key") {
		cfg.SecretKey, _ = flags.GetString("secret-key")
	}

	if flags.Changed("bucket") {
		cfg.Bucket, _ = flags.GetString("bucket")
	}
	if flags.Changed("prefix") {
		cfg.Prefix, _ = flags.GetString("prefix")
	}
	if flags.Changed("recursive") {
		cfg.Recursive, _ = flags.GetBool("recursive")
	}
	if flags.Changed("dry-run") {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}

	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("show-progress") {
		cfg.ShowProgress, _ = flags.GetBool("show-progress")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("report") {
		cfg.ReportDB, _ = flags.GetString("report")
	}

	return nil
}

func (c *Config) validate() error {
	if c.Service == "" {
		return fmt.Errorf("service is required")
	}
	if _, ok := Services[c.Service]; !ok {
		return fmt.Errorf("unknown service %q (supported: %s)", c.Service, ServiceNames())
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}
	if c.Service == "custom" && c.Endpoint == "" {
		return fmt.Errorf("custom service requires an endpoint")
	}

	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}

	return nil
}

// ResolveEndpoint returns the endpoint URL for the configured service and
// region. An explicit endpoint always wins over the service catalog; an empty
// result means the SDK default (Amazon S3) should be used.
func (c *Config) ResolveEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	svc, ok := Services[c.Service]
	if !ok {
		return ""
	}
	return svc.EndpointFor(c.Region)
}

// WriteSample writes a sample configuration file to the given path
func WriteSample(path string) error {
	sample := Config{
		Service:      "digitalocean",
		Region:       "fra1",
		AccessKey:    "YOUR_ACCESS_KEY",
		SecretKey:    "YOUR_SECRET_KEY",
		Bucket:       "your-bucket-name",
		Prefix:       "path/to/files/",
		Recursive:    true,
		Concurrency:  1,
		LogLevel:     "info",
		ShowProgress: true,
	}

	data, err := yaml.Marshal(&sample)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
