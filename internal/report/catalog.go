package report

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/contract-costs/internal/apperr"
)

// Entry is one generated report file.
type Entry struct {
	ID        string    `json:"report_id"`
	Type      Type      `json:"report_type"`
	Format    Format    `json:"format"`
	Filename  string    `json:"filename"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Catalog records generated report files in a local SQLite database so that
// downloads only ever serve files this process wrote.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens (or creates) the catalog at dsn and applies its schema.
func OpenCatalog(ctx context.Context, dsn string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "report catalog: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "report catalog: exec %s", pragma)
		}
	}
	if _, err := db.ExecContext(ctx, catalogSchema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "report catalog: migrate")
	}
	return &Catalog{db: db}, nil
}

const catalogSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	format     TEXT NOT NULL,
	filename   TEXT NOT NULL UNIQUE,
	created_by INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record stores a generated file.
func (c *Catalog) Record(ctx context.Context, e *Entry) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO reports (id, type, format, filename, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Type), string(e.Format), e.Filename, e.CreatedBy, e.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "report catalog: insert %s", e.Filename)
}

// Lookup returns the entry of a generated file by its name.
func (c *Catalog) Lookup(ctx context.Context, filename string) (*Entry, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, type, format, filename, created_by, created_at FROM reports WHERE filename = ?`, filename)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("report %s not found", filename)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "report catalog: lookup %s", filename)
	}
	return e, nil
}

// List returns the most recent entries first.
func (c *Catalog) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, type, format, filename, created_by, created_at FROM reports ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "report catalog: list")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, eris.Wrap(err, "report catalog: scan")
		}
		out = append(out, *e)
	}
	return out, eris.Wrap(rows.Err(), "report catalog: iterate")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		e        Entry
		typ, fmt string
	)
	if err := s.Scan(&e.ID, &typ, &fmt, &e.Filename, &e.CreatedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Type = Type(typ)
	e.Format = Format(fmt)
	return &e, nil
}
