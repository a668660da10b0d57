package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Card data configuration
	Data DataConfig `toml:"data"`

	// Pack generator configuration
	Generator GeneratorConfig `toml:"generator"`

	// Set rotation configuration
	Rotation RotationConfig `toml:"rotation"`

	// API server configuration
	API APIConfig `toml:"api"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// DataConfig contains card database settings.
type DataConfig struct {
	MTGJSONPath   string `toml:"mtgjson_path"`   // Path to AllPrintings.json
	JumpstartPath string `toml:"jumpstart_path"` // Directory of MTGJSON jumpstart deck files (optional)
	DatabasePath  string `toml:"database_path"`  // Path to the SQLite card cache
	WatchFile     bool   `toml:"watch_file"`     // Reload the snapshot when the data file changes
	SyncInterval  string `toml:"sync_interval"`  // Minimum age before a re-download (e.g., "168h")
}

// GeneratorConfig contains booster generation settings.
type GeneratorConfig struct {
	// MaxAttempts bounds the balancing retry loop per pack.
	MaxAttempts int `toml:"max_attempts"`

	// MythicProbability is the chance the rare slot upgrades to a mythic.
	// The 1/8 default follows community convention; the real print ratio
	// is not disclosed by the manufacturer.
	MythicProbability float64 `toml:"mythic_probability"`

	// SealedPackCount is the number of packs in a sealed or chaos pool.
	SealedPackCount int `toml:"sealed_pack_count"`
}

// RotationConfig lists which sets count as standard or historic for the
// symbolic pack selectors. Set codes are stored lowercase.
type RotationConfig struct {
	StandardSets []string `toml:"standard_sets"`
	HistoricSets []string `toml:"historic_sets"`
}

// APIConfig contains REST API server settings.
type APIConfig struct {
	Port         int    `toml:"port"`          // API server port
	ReadTimeout  string `toml:"read_timeout"`  // HTTP read timeout (e.g., "15s")
	WriteTimeout string `toml:"write_timeout"` // HTTP write timeout (e.g., "30s")
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			MTGJSONPath:   "",
			JumpstartPath: "",
			DatabasePath:  "",
			WatchFile:     true,
			SyncInterval:  "168h",
		},
		Generator: GeneratorConfig{
			MaxAttempts:       100,
			MythicProbability: 0.125,
			SealedPackCount:   6,
		},
		Rotation: RotationConfig{
			StandardSets: []string{"eld", "thb", "iko", "m21", "znr", "khm"},
			HistoricSets: []string{
				"klr", "akr", "xln", "rix", "dom", "m19", "grn", "rna",
				"war", "m20", "eld", "thb", "iko", "m21", "znr", "khm",
			},
		},
		API: APIConfig{
			Port:         8080,
			ReadTimeout:  "15s",
			WriteTimeout: "30s",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".booster-sim")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Parse TOML
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	// Marshal to TOML
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Generator.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1: %d", c.Generator.MaxAttempts)
	}

	if c.Generator.MythicProbability < 0 || c.Generator.MythicProbability > 1 {
		return fmt.Errorf("mythic probability must be in [0,1]: %g", c.Generator.MythicProbability)
	}

	if c.Generator.SealedPackCount < 1 {
		return fmt.Errorf("sealed pack count must be at least 1: %d", c.Generator.SealedPackCount)
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("invalid API port: %d", c.API.Port)
	}

	if _, err := time.ParseDuration(c.Data.SyncInterval); err != nil {
		return fmt.Errorf("invalid sync interval %q: %w", c.Data.SyncInterval, err)
	}

	if _, err := time.ParseDuration(c.API.ReadTimeout); err != nil {
		return fmt.Errorf("invalid read timeout %q: %w", c.API.ReadTimeout, err)
	}

	if _, err := time.ParseDuration(c.API.WriteTimeout); err != nil {
		return fmt.Errorf("invalid write timeout %q: %w", c.API.WriteTimeout, err)
	}

	return nil
}

// GetSyncInterval returns the data sync interval as a duration.
func (c *Config) GetSyncInterval() (time.Duration, error) {
	return time.ParseDuration(c.Data.SyncInterval)
}

// GetReadTimeout returns the API read timeout as a duration.
func (c *Config) GetReadTimeout() (time.Duration, error) {
	return time.ParseDuration(c.API.ReadTimeout)
}

// GetWriteTimeout returns the API write timeout as a duration.
func (c *Config) GetWriteTimeout() (time.Duration, error) {
	return time.ParseDuration(c.API.WriteTimeout)
}
