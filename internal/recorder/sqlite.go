package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/dannijak/IS-Macro/internal/model"
)

// SQLiteRecorder persists calculations and the local rate table to SQLite.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the sync daemon can write while the CLI reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS penalty_rates (
			effective_date TEXT PRIMARY KEY,
			percent        TEXT NOT NULL,
			updated_at     INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS calculations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			principal   TEXT NOT NULL,
			start_date  TEXT NOT NULL,
			end_date    TEXT NOT NULL,
			interest    TEXT NOT NULL,
			window_count INTEGER,
			source      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_ts ON calculations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS calculation_windows (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			calculation_id INTEGER NOT NULL REFERENCES calculations(id),
			seq            INTEGER NOT NULL,
			from_date      TEXT NOT NULL,
			to_date        TEXT NOT NULL,
			base           TEXT NOT NULL,
			interest       TEXT NOT NULL,
			sub_periods    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_windows_calc ON calculation_windows(calculation_id)`,

		`CREATE TABLE IF NOT EXISTS rate_syncs (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			source    TEXT,
			from_date TEXT,
			to_date   TEXT,
			fetched   INTEGER,
			stored    INTEGER,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_syncs_ts ON rate_syncs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) Name() string { return "sqlite" }

// SaveRates upserts entries into the local rate table.
func (r *SQLiteRecorder) SaveRates(ctx context.Context, entries []model.RateEntry) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO penalty_rates (effective_date, percent, updated_at)
		VALUES (?,?,?)
		ON CONFLICT(effective_date) DO UPDATE SET percent = excluded.percent, updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Date.String(), e.Percent.String(), now); err != nil {
			return 0, fmt.Errorf("upsert rate %s: %w", e.Date, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(entries), nil
}

// FetchRates reads the stored snapshot, so the table can stand in for the
// remote feed.
func (r *SQLiteRecorder) FetchRates(ctx context.Context, from, to civil.Date) ([]model.RateEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT effective_date, percent FROM penalty_rates
		WHERE effective_date >= ? AND effective_date <= ?
		ORDER BY effective_date`, from.String(), to.String())
	if err != nil {
		return nil, &model.DataSourceError{Source: r.Name(), Err: err}
	}
	defer rows.Close()

	var entries []model.RateEntry
	for rows.Next() {
		var ds, ps string
		if err := rows.Scan(&ds, &ps); err != nil {
			return nil, &model.DataSourceError{Source: r.Name(), Err: err}
		}
		d, err := civil.ParseDate(ds)
		if err != nil {
			return nil, &model.DataSourceError{Source: r.Name(), Err: fmt.Errorf("stored date %q: %w", ds, err)}
		}
		p, err := decimal.NewFromString(ps)
		if err != nil {
			return nil, &model.DataSourceError{Source: r.Name(), Err: fmt.Errorf("stored percent %q: %w", ps, err)}
		}
		entries = append(entries, model.RateEntry{Date: d, Percent: p})
	}
	if err := rows.Err(); err != nil {
		return nil, &model.DataSourceError{Source: r.Name(), Err: err}
	}
	return entries, nil
}

func (r *SQLiteRecorder) RecordCalculation(rec *CalculationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := rec.Result
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	out, err := tx.Exec(`INSERT INTO calculations
		(timestamp, principal, start_date, end_date, interest, window_count, source)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.Principal.String(), res.Start.String(), res.End.String(),
		res.Interest.String(), len(res.Windows), rec.Source,
	)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}

	for i, w := range res.Windows {
		if _, err := tx.Exec(`INSERT INTO calculation_windows
			(calculation_id, seq, from_date, to_date, base, interest, sub_periods)
			VALUES (?,?,?,?,?,?,?)`,
			id, i, w.Window.From.String(), w.Window.To.String(),
			w.Base.String(), w.Interest.String(), len(w.SubPeriods),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordSync(evt *SyncEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO rate_syncs
		(timestamp, source, from_date, to_date, fetched, stored, error)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Source, evt.From.String(), evt.To.String(),
		evt.Fetched, evt.Stored, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
