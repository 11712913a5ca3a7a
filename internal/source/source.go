// Package source loads the document set from disk.
//
// Documents are JSON-like values (maps, slices and scalars). They can come
// from a JSON file (comments and trailing commas allowed), a YAML file or a
// SQLite table holding one JSON document per row. A file may hold either a
// top-level list or an object with an "issues" list.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Formats accepted in Options.Format.
const (
	FormatAuto   = "auto"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrNoDocuments is returned when a file parses but holds no document list.
var ErrNoDocuments = errors.New("source: expected a list of documents or an object with an \"issues\" list")

// Options selects the document file.
type Options struct {
	Path   string
	Format string
	// Table and Column are used by the sqlite format.
	Table  string
	Column string
}

// Snapshot is one loaded version of the document set.
type Snapshot struct {
	Docs     []any
	Hash     uint64 // xxhash of the raw content
	Origin   string
	Format   string
	LoadedAt time.Time
}

// Len returns the number of documents.
func (s *Snapshot) Len() int { return len(s.Docs) }

// DetectFormat resolves FormatAuto from the file extension, falling back to
// sniffing the first non-blank byte of data.
func DetectFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	}
	if bytes.HasPrefix(data, []byte("SQLite format 3\x00")) {
		return FormatSQLite
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{' || trimmed[0] == '/') {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads the document set described by opts.
func Load(ctx context.Context, opts Options) (*Snapshot, error) {
	format := opts.Format
	if format == "" {
		format = FormatAuto
	}

	if format == FormatSQLite || (format == FormatAuto && DetectFormat(opts.Path, nil) == FormatSQLite) {
		return loadSQLite(ctx, opts)
	}

	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if format == FormatAuto {
		format = DetectFormat(opts.Path, data)
		if format == FormatSQLite {
			return loadSQLite(ctx, opts)
		}
	}

	var docs []any
	switch format {
	case FormatJSON:
		docs, err = ParseJSON(data)
	case FormatYAML:
		docs, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("source: unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", opts.Path, err)
	}

	return &Snapshot{
		Docs:     docs,
		Hash:     xxhash.Sum64(data),
		Origin:   opts.Path,
		Format:   format,
		LoadedAt: time.Now(),
	}, nil
}

// ParseJSON decodes a JSON (or JSONC) document list. Numbers are kept as
// json.Number so that issue ids are not rounded through float64.
func ParseJSON(data []byte) ([]any, error) {
	var v any
	if err := decodeJSON(jsonc.ToJSON(data), &v); err != nil {
		return nil, err
	}
	return documentList(v)
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after the top-level value")
	}
	return nil
}

// ParseYAML decodes a YAML document list.
func ParseYAML(data []byte) ([]any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return documentList(v)
}

func documentList(v any) ([]any, error) {
	switch t := v.(type) {
	case []any:
		return t, nil
	case map[string]any:
		if list, ok := t["issues"].([]any); ok {
			return list, nil
		}
	}
	return nil, ErrNoDocuments
}
