package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix for environment variable overrides
// (e.g. LABOR_DATABASE_PATH).
const EnvPrefix = "LABOR"

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// DatabaseConfig contains the SQLite warehouse configuration
type DatabaseConfig struct {
	Path string `yaml:"path" envconfig:"PATH" default:"data/employment.db" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/laborcli.log"`
}

// PathsConfig contains the data directory layout. All paths are relative to
// the working directory unless absolute.
type PathsConfig struct {
	RawDir     string `yaml:"raw_dir" envconfig:"RAW_DIR" default:"data/raw" validate:"required"`
	NewDataDir string `yaml:"new_data_dir" envconfig:"NEW_DATA_DIR" default:"data/new_data" validate:"required"`
	OutputDir  string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output/ml_results" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"output/reports" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
}

// Load loads configuration from an optional YAML file with environment
// variable overrides. Environment wins over file, file wins over defaults.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// Defaults plus environment come from envconfig.
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileCfg, cfg)
			// Re-apply environment so it keeps precedence over the file.
			if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
				return nil, fmt.Errorf("failed to re-apply env config: %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config over env-derived defaults; empty file
// fields keep the existing value.
func mergeConfigs(fileCfg, cfg Config) Config {
	if fileCfg.Database.Path != "" {
		cfg.Database.Path = fileCfg.Database.Path
	}
	if fileCfg.Logging.Level != "" {
		cfg.Logging.Level = fileCfg.Logging.Level
	}
	if fileCfg.Logging.Format != "" {
		cfg.Logging.Format = fileCfg.Logging.Format
	}
	if fileCfg.Logging.Output != "" {
		cfg.Logging.Output = fileCfg.Logging.Output
	}
	if fileCfg.Logging.FilePath != "" {
		cfg.Logging.FilePath = fileCfg.Logging.FilePath
	}
	if fileCfg.Paths.RawDir != "" {
		cfg.Paths.RawDir = fileCfg.Paths.RawDir
	}
	if fileCfg.Paths.NewDataDir != "" {
		cfg.Paths.NewDataDir = fileCfg.Paths.NewDataDir
	}
	if fileCfg.Paths.OutputDir != "" {
		cfg.Paths.OutputDir = fileCfg.Paths.OutputDir
	}
	if fileCfg.Paths.ReportsDir != "" {
		cfg.Paths.ReportsDir = fileCfg.Paths.ReportsDir
	}
	if fileCfg.Paths.LogsDir != "" {
		cfg.Paths.LogsDir = fileCfg.Paths.LogsDir
	}
	return cfg
}

// Validate validates the configuration using struct tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// EnsureDirectories creates every directory the pipeline writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
		c.Paths.OutputDir,
		c.Paths.ReportsDir,
		c.Paths.LogsDir,
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
