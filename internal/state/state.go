// Package state persists processing runs in a SQLite ledger so batch
// runs can skip unchanged inputs and the retry pass and HTTP API can
// query past results.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avinse/reportage/model"
)

const (
	indexDir = "index"
	dbFile   = "reportage.db"
)

// ErrNotFound is returned when a queried document has no ledger row.
var ErrNotFound = errors.New("not found")

// Ledger records one row per processed document plus one row per
// detected section boundary.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the run ledger at outputDir/index/reportage.db.
// The schema is created if it does not exist.
func Open(outputDir string) (*Ledger, error) {
	dbDir := filepath.Join(outputDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	return OpenPath(filepath.Join(dbDir, dbFile))
}

// OpenPath opens or creates the run ledger at an explicit path.
func OpenPath(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite",
		path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	// SQLite allows one writer at a time; a single pooled connection
	// keeps the batch worker pool from tripping SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL UNIQUE,
			company TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			kind TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			pages INTEGER NOT NULL DEFAULT 0,
			mod_time TEXT NOT NULL DEFAULT '',
			processed_at TEXT NOT NULL,
			elapsed_ms INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			start_page INTEGER NOT NULL,
			end_page INTEGER NOT NULL,
			confidence REAL NOT NULL,
			heading TEXT NOT NULL DEFAULT '',
			method TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (document_id, type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_company ON documents(company, year)`,
	}

	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record is one document row in the ledger. Sections is populated
// only by Document; list queries leave it nil.
type Record struct {
	ID          string
	Source      string
	Company     string
	Year        int
	Kind        string
	Status      string
	Pages       int
	ModTime     time.Time
	ProcessedAt time.Time
	ElapsedMS   int64
	Error       string
	Sections    []SectionRecord
}

// SectionRecord is one detected boundary attached to a document row.
type SectionRecord struct {
	Type       string
	StartPage  int
	EndPage    int
	Confidence float64
	Heading    string
	Method     string
}

// NewRecord builds the ledger row for a completed run. id is used only
// when the source has no existing row; upserts keep the original id.
func NewRecord(id string, rep *model.Report, modTime time.Time) Record {
	rec := Record{
		ID:          id,
		Source:      rep.Source,
		Company:     rep.Company,
		Year:        rep.Year,
		Kind:        rep.Kind.String(),
		Status:      rep.Status,
		Pages:       rep.Stats.TotalPages,
		ModTime:     modTime.UTC(),
		ProcessedAt: rep.FinishedAt.UTC(),
		ElapsedMS:   rep.Elapsed().Milliseconds(),
	}
	for _, t := range model.SectionTypes() {
		b, ok := rep.Boundaries[t]
		if !ok {
			continue
		}
		rec.Sections = append(rec.Sections, SectionRecord{
			Type:       t.String(),
			StartPage:  b.StartPage,
			EndPage:    b.EndPage,
			Confidence: b.Confidence,
			Heading:    b.HeadingText,
			Method:     b.Method,
		})
	}
	return rec
}

// RecordRun upserts the document row keyed on its source path and
// replaces its section rows, so reprocessing a document overwrites
// the previous run.
func (l *Ledger) RecordRun(ctx context.Context, rec Record) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, source, company, year, kind, status, pages, mod_time, processed_at, elapsed_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET
			company = excluded.company,
			year = excluded.year,
			kind = excluded.kind,
			status = excluded.status,
			pages = excluded.pages,
			mod_time = excluded.mod_time,
			processed_at = excluded.processed_at,
			elapsed_ms = excluded.elapsed_ms,
			error = excluded.error`,
		rec.ID, rec.Source, rec.Company, rec.Year, rec.Kind, rec.Status,
		rec.Pages, formatTime(rec.ModTime), formatTime(rec.ProcessedAt),
		rec.ElapsedMS, rec.Error)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	// The conflict path keeps the original row id, so re-read it
	// before attaching sections.
	var docID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE source = ?`, rec.Source).Scan(&docID)
	if err != nil {
		return fmt.Errorf("reading document id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sections WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("deleting old sections: %w", err)
	}

	for _, sec := range rec.Sections {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sections (document_id, type, start_page, end_page, confidence, heading, method)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			docID, sec.Type, sec.StartPage, sec.EndPage, sec.Confidence,
			sec.Heading, sec.Method)
		if err != nil {
			return fmt.Errorf("inserting section %s: %w", sec.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// ChangedSince reports whether source has a ledger row whose recorded
// mod-time differs from modTime. A source with no row reports false.
func (l *Ledger) ChangedSince(ctx context.Context, source string, modTime time.Time) (bool, error) {
	var stored string
	err := l.db.QueryRowContext(ctx,
		`SELECT mod_time FROM documents WHERE source = ?`, source).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading mod time: %w", err)
	}
	return stored != formatTime(modTime), nil
}

const selectDocuments = `SELECT id, source, company, year, kind, status, pages,
	mod_time, processed_at, elapsed_ms, error FROM documents`

// ByStatus returns the documents with the given status, most recent
// first.
func (l *Ledger) ByStatus(ctx context.Context, status string) ([]Record, error) {
	return l.queryRecords(ctx,
		selectDocuments+` WHERE status = ? ORDER BY processed_at DESC`, status)
}

// MissingSection returns the processed documents with no boundary row
// of the given section type, ordered by source path.
func (l *Ledger) MissingSection(ctx context.Context, sectionType string) ([]Record, error) {
	return l.queryRecords(ctx,
		selectDocuments+` d WHERE d.status = ? AND NOT EXISTS
			(SELECT 1 FROM sections s WHERE s.document_id = d.id AND s.type = ?)
		 ORDER BY d.source`,
		model.StatusProcessed, sectionType)
}

// Recent returns the most recently processed documents, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	return l.queryRecords(ctx,
		selectDocuments+` ORDER BY processed_at DESC LIMIT ?`, limit)
}

// Filter returns documents matching the given fields; zero values
// match everything.
func (l *Ledger) Filter(ctx context.Context, status, company string, year int) ([]Record, error) {
	query := selectDocuments
	var conds []string
	var args []any
	if status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}
	if company != "" {
		conds = append(conds, "company = ?")
		args = append(args, company)
	}
	if year != 0 {
		conds = append(conds, "year = ?")
		args = append(args, year)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY processed_at DESC"
	return l.queryRecords(ctx, query, args...)
}

// Document returns one document row with its sections attached.
// Returns ErrNotFound when id has no row.
func (l *Ledger) Document(ctx context.Context, id string) (Record, error) {
	row := l.db.QueryRowContext(ctx, selectDocuments+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("reading document: %w", err)
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT type, start_page, end_page, confidence, heading, method
		 FROM sections WHERE document_id = ? ORDER BY type`, id)
	if err != nil {
		return Record{}, fmt.Errorf("reading sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sec SectionRecord
		if err := rows.Scan(&sec.Type, &sec.StartPage, &sec.EndPage,
			&sec.Confidence, &sec.Heading, &sec.Method); err != nil {
			return Record{}, fmt.Errorf("scanning section: %w", err)
		}
		rec.Sections = append(rec.Sections, sec)
	}
	return rec, rows.Err()
}

// Summary aggregates ledger counts for the status command.
type Summary struct {
	Total      int
	Processed  int
	Failed     int
	WithMDNA   int
	WithLetter int
}

// Summarize counts documents by status and by detected section.
func (l *Ledger) Summarize(ctx context.Context) (Summary, error) {
	var sum Summary

	rows, err := l.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM documents GROUP BY status`)
	if err != nil {
		return Summary{}, fmt.Errorf("counting documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return Summary{}, fmt.Errorf("scanning count: %w", err)
		}
		sum.Total += n
		switch status {
		case model.StatusProcessed:
			sum.Processed = n
		case model.StatusFailed:
			sum.Failed = n
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}

	counts := map[string]*int{
		model.SectionMDNA.String():   &sum.WithMDNA,
		model.SectionLetter.String(): &sum.WithLetter,
	}
	for sectionType, dest := range counts {
		err := l.db.QueryRowContext(ctx,
			`SELECT COUNT(DISTINCT document_id) FROM sections WHERE type = ?`,
			sectionType).Scan(dest)
		if err != nil {
			return Summary{}, fmt.Errorf("counting %s sections: %w", sectionType, err)
		}
	}
	return sum, nil
}

func (l *Ledger) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var modTime, processedAt string
	err := row.Scan(&rec.ID, &rec.Source, &rec.Company, &rec.Year, &rec.Kind,
		&rec.Status, &rec.Pages, &modTime, &processedAt, &rec.ElapsedMS, &rec.Error)
	if err != nil {
		return Record{}, err
	}
	rec.ModTime = parseTime(modTime)
	rec.ProcessedAt = parseTime(processedAt)
	return rec, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
