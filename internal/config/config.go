// Package config loads the datacat configuration file and supplies
// defaults. CLI flags override file values; the file overrides
// defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harrison/datacat/internal/models"
)

// DefaultPath is where LoadConfig looks when no --config flag is
// given.
const DefaultPath = ".datacat/config.yaml"

// CatalogConfig controls the sqlite descriptor catalog.
type CatalogConfig struct {
	// Enabled turns catalog recording on.
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the catalog database.
	DBPath string `yaml:"db_path"`
}

// Config holds the pipeline configuration.
type Config struct {
	// InputDir contains the data members of every group.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives one descriptor JSON file per complete group.
	OutputDir string `yaml:"output_dir"`

	// MetadataDir contains the dot-prefixed JSON-LD metadata files.
	MetadataDir string `yaml:"metadata_dir"`

	// Variants lists the schema variants to process, in order.
	Variants []string `yaml:"variants"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LockPath is the run lock file guarding against concurrent batches.
	LockPath string `yaml:"lock_path"`

	// Catalog configures descriptor catalog recording.
	Catalog CatalogConfig `yaml:"catalog"`
}

// DefaultConfig returns a Config with the default folder layout.
func DefaultConfig() *Config {
	variants := make([]string, 0, 4)
	for _, v := range models.AllVariants() {
		variants = append(variants, string(v))
	}
	return &Config{
		InputDir:    "./input",
		OutputDir:   "./output",
		MetadataDir: "./metadata",
		Variants:    variants,
		LogLevel:    "info",
		LockPath:    ".datacat/run.lock",
		Catalog: CatalogConfig{
			Enabled: true,
			DBPath:  ".datacat/catalog.db",
		},
	}
}

// LoadConfig loads configuration from path, merging over defaults. A
// missing file returns defaults without error; a malformed file is an
// error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Shadow struct so an explicit "enabled: false" is distinguishable
	// from the field being absent.
	type yamlCatalog struct {
		Enabled *bool  `yaml:"enabled"`
		DBPath  string `yaml:"db_path"`
	}
	type yamlConfig struct {
		InputDir    string      `yaml:"input_dir"`
		OutputDir   string      `yaml:"output_dir"`
		MetadataDir string      `yaml:"metadata_dir"`
		Variants    []string    `yaml:"variants"`
		LogLevel    string      `yaml:"log_level"`
		LockPath    string      `yaml:"lock_path"`
		Catalog     yamlCatalog `yaml:"catalog"`
	}

	var fileCfg yamlConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if fileCfg.InputDir != "" {
		cfg.InputDir = fileCfg.InputDir
	}
	if fileCfg.OutputDir != "" {
		cfg.OutputDir = fileCfg.OutputDir
	}
	if fileCfg.MetadataDir != "" {
		cfg.MetadataDir = fileCfg.MetadataDir
	}
	if len(fileCfg.Variants) > 0 {
		cfg.Variants = fileCfg.Variants
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LockPath != "" {
		cfg.LockPath = fileCfg.LockPath
	}
	if fileCfg.Catalog.DBPath != "" {
		cfg.Catalog.DBPath = fileCfg.Catalog.DBPath
	}
	if fileCfg.Catalog.Enabled != nil {
		cfg.Catalog.Enabled = *fileCfg.Catalog.Enabled
	}

	return cfg, nil
}

// SchemaVariants validates and converts the configured variant names.
func (c *Config) SchemaVariants() ([]models.SchemaVariant, error) {
	variants := make([]models.SchemaVariant, 0, len(c.Variants))
	for _, name := range c.Variants {
		v, ok := models.ParseVariant(name)
		if !ok {
			return nil, fmt.Errorf("unknown schema variant %q", name)
		}
		variants = append(variants, v)
	}
	return variants, nil
}
