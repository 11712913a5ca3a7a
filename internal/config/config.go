package config

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Document formats.
const (
	FormatAuto   = "auto"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

// Themes.
const (
	ThemeDefault = "default"
	ThemeMono    = "mono"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config is the root configuration structure.
type Config struct {
	Documents DocumentsConfig `mapstructure:"documents"`
	UI        UIConfig        `mapstructure:"ui"`
	Log       LogConfig       `mapstructure:"log"`
	// Debug shows the debug pane with the most recent log lines.
	Debug bool `mapstructure:"debug"`
}

// DocumentsConfig selects the document set that is browsed and searched.
type DocumentsConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"` // auto, json, yaml or sqlite
	// Table and Column name the SQLite table and the column holding one
	// JSON document per row.
	Table  string `mapstructure:"table"`
	Column string `mapstructure:"column"`
	// Watch reloads the documents when the file changes.
	Watch bool `mapstructure:"watch"`
}

// UIConfig configures the interactive loop and the screen layout.
type UIConfig struct {
	// TickInterval is the key read timeout. A view receives a tick each
	// time it expires without input.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// EscapeTimeout bounds the wait for each unit following ESC.
	EscapeTimeout  time.Duration `mapstructure:"escape_timeout"`
	MaxHistory     int           `mapstructure:"max_history"`
	DiscoveryLines int           `mapstructure:"discovery_lines"`
	Theme          string        `mapstructure:"theme"`
	AltScreen      bool          `mapstructure:"alt_screen"`
	MaxResults     int           `mapstructure:"max_results"`
}

// LogConfig configures the log file. The terminal belongs to the UI, so
// nothing is logged to stderr while it runs.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Documents: DocumentsConfig{
			Path:   "issues.json",
			Format: FormatAuto,
			Table:  "issues",
			Column: "data",
		},
		UI: UIConfig{
			TickInterval:   500 * time.Millisecond,
			EscapeTimeout:  100 * time.Millisecond,
			MaxHistory:     10,
			DiscoveryLines: 5,
			Theme:          ThemeDefault,
			AltScreen:      true,
			MaxResults:     1000,
		},
		Log: LogConfig{
			File:  "fathom.log",
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Documents.Validate(); err != nil {
		return err
	}
	if err := c.UI.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// Validate validates the documents configuration.
func (c *DocumentsConfig) Validate() error {
	if c.Format == "" {
		c.Format = FormatAuto
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Format, validation.In(FormatAuto, FormatJSON, FormatYAML, FormatSQLite)),
		validation.Field(&c.Table, validation.Required, validation.Match(identifier)),
		validation.Field(&c.Column, validation.Required, validation.Match(identifier)),
	)
}

// Validate validates the UI configuration.
func (c *UIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TickInterval, validation.Required, validation.Min(10*time.Millisecond)),
		validation.Field(&c.EscapeTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxHistory, validation.Required, validation.Min(1)),
		validation.Field(&c.DiscoveryLines, validation.Required, validation.Min(1), validation.Max(20)),
		validation.Field(&c.Theme, validation.In(ThemeDefault, ThemeMono)),
		validation.Field(&c.MaxResults, validation.Min(0)),
	)
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	if c.Level == "" {
		c.Level = "info"
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.File, validation.Required),
		validation.Field(&c.Level, validation.By(func(any) error {
			_, err := ParseLevel(c.Level)
			return err
		})),
	)
}

// ParseLevel converts a level name such as "debug" into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return 0, errors.New("must be one of debug, info, warn, error")
	}
	return level, nil
}

// SlogLevel returns the configured level, defaulting to info.
func (c *LogConfig) SlogLevel() slog.Level {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}
