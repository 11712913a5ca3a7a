package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configDir  = ".config/fathom"
	configFile = "config.yaml"
	envPrefix  = "FATHOM"
)

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/fathom/config.yaml. A missing file
// leaves the defaults in place. Environment variables prefixed with
// FATHOM_ override file values, e.g. FATHOM_DOCUMENTS_PATH.
func LoadFrom(path string) (*Config, error) {
	return LoadWithOverrides(path, nil)
}

// LoadWithOverrides is LoadFrom with explicit values applied on top, the
// way command-line flags are. Keys use the dotted config names, such as
// "documents.path".
func LoadWithOverrides(path string, overrides map[string]any) (*Config, error) {
	v := newViper()

	if path == "" {
		path = ConfigPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	for k, val := range overrides {
		v.Set(k, val)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("documents.path", d.Documents.Path)
	v.SetDefault("documents.format", d.Documents.Format)
	v.SetDefault("documents.table", d.Documents.Table)
	v.SetDefault("documents.column", d.Documents.Column)
	v.SetDefault("documents.watch", d.Documents.Watch)
	v.SetDefault("ui.tick_interval", d.UI.TickInterval)
	v.SetDefault("ui.escape_timeout", d.UI.EscapeTimeout)
	v.SetDefault("ui.max_history", d.UI.MaxHistory)
	v.SetDefault("ui.discovery_lines", d.UI.DiscoveryLines)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.alt_screen", d.UI.AltScreen)
	v.SetDefault("ui.max_results", d.UI.MaxResults)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("debug", d.Debug)
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg.Documents.Path = ExpandPath(cfg.Documents.Path)
	cfg.Log.File = ExpandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}
