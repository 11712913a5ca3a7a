package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"
)

// sqlitePoolSettings keeps the read-only handle from holding descriptors
// between loads.
func sqlitePoolSettings(db *sql.DB) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(time.Second)
}

// loadSQLite reads one JSON document per row of opts.Table, in rowid order.
func loadSQLite(ctx context.Context, opts Options) (*Snapshot, error) {
	table, column := opts.Table, opts.Column
	if table == "" {
		table = "issues"
	}
	if column == "" {
		column = "data"
	}
	if !identifier.MatchString(table) || !identifier.MatchString(column) {
		return nil, fmt.Errorf("source: invalid table or column name %q.%q", table, column)
	}

	db, err := sql.Open("sqlite", "file:"+opts.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", opts.Path, err)
	}
	sqlitePoolSettings(db)
	defer db.Close()

	query := fmt.Sprintf(`SELECT "%s" FROM "%s" ORDER BY rowid`, column, table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("source: query %s: %w", opts.Path, err)
	}
	defer rows.Close()

	hash := xxhash.New()
	var docs []any
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("source: scan row %d: %w", len(docs)+1, err)
		}
		var doc any
		if err := decodeJSON(raw, &doc); err != nil {
			return nil, fmt.Errorf("source: row %d: %w", len(docs)+1, err)
		}
		_, _ = hash.Write(raw)
		_, _ = hash.Write([]byte{0})
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("source: read rows: %w", err)
	}

	return &Snapshot{
		Docs:     docs,
		Hash:     hash.Sum64(),
		Origin:   opts.Path,
		Format:   FormatSQLite,
		LoadedAt: time.Now(),
	}, nil
}
