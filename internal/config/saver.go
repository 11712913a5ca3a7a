package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// saveConfig is the YAML-marshaling intermediary that uses string durations.
type saveConfig struct {
	Documents saveDocumentsConfig `yaml:"documents"`
	UI        saveUIConfig        `yaml:"ui"`
	Log       saveLogConfig       `yaml:"log"`
	Debug     bool                `yaml:"debug"`
}

type saveDocumentsConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
	Table  string `yaml:"table,omitempty"`
	Column string `yaml:"column,omitempty"`
	Watch  bool   `yaml:"watch"`
}

type saveUIConfig struct {
	TickInterval   string `yaml:"tick_interval"`
	EscapeTimeout  string `yaml:"escape_timeout"`
	MaxHistory     int    `yaml:"max_history"`
	DiscoveryLines int    `yaml:"discovery_lines"`
	Theme          string `yaml:"theme"`
	AltScreen      bool   `yaml:"alt_screen"`
	MaxResults     int    `yaml:"max_results"`
}

type saveLogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// toSaveConfig converts Config to the YAML-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Documents: saveDocumentsConfig{
			Path:   cfg.Documents.Path,
			Format: cfg.Documents.Format,
			Table:  cfg.Documents.Table,
			Column: cfg.Documents.Column,
			Watch:  cfg.Documents.Watch,
		},
		UI: saveUIConfig{
			TickInterval:   cfg.UI.TickInterval.String(),
			EscapeTimeout:  cfg.UI.EscapeTimeout.String(),
			MaxHistory:     cfg.UI.MaxHistory,
			DiscoveryLines: cfg.UI.DiscoveryLines,
			Theme:          cfg.UI.Theme,
			AltScreen:      cfg.UI.AltScreen,
			MaxResults:     cfg.UI.MaxResults,
		},
		Log: saveLogConfig{
			File:  cfg.Log.File,
			Level: cfg.Log.Level,
		},
		Debug: cfg.Debug,
	}
}

// Marshal renders cfg as YAML in the layout LoadFrom reads.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(toSaveConfig(cfg))
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Save writes the config to ~/.config/fathom/config.yaml
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}
