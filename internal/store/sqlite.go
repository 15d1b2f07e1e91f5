package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"StockForecaster/internal/model"
)

// SQLiteStore persists daily bars to a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the HTTP server can read while a sync run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite store opened", zap.String("path", dbPath))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol    TEXT    NOT NULL,
			date      INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			adj_close REAL,
			volume    REAL,
			PRIMARY KEY (symbol, date)
		)`,

		`CREATE TABLE IF NOT EXISTS sync_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT    NOT NULL,
			provider    TEXT,
			bars        INTEGER,
			duration_ms INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_runs_ts ON sync_runs(timestamp)`,
	}

	for _, st := range stmts {
		if _, err := s.db.Exec(st); err != nil {
			return fmt.Errorf("exec %q: %w", st[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

// nullable maps NaN to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// SaveFrame upserts every row of raw keyed by (symbol, date) and returns the number of rows written.
// Columns are taken positionally in the standard raw layout.
func (s *SQLiteStore) SaveFrame(ctx context.Context, raw *model.RawFrame) (int, error) {
	if raw.Len() == 0 {
		return 0, nil
	}
	if len(raw.Columns) != len(model.RawLayout) {
		return 0, fmt.Errorf("save %s: expected %d columns, got %d", raw.Symbol, len(model.RawLayout), len(raw.Columns))
	}
	if len(raw.Index) != len(raw.Rows) {
		return 0, fmt.Errorf("save %s: %d dates for %d rows", raw.Symbol, len(raw.Index), len(raw.Rows))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily_bars
		(symbol, date, open, high, low, close, adj_close, volume)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			adj_close = excluded.adj_close,
			volume = excluded.volume`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, row := range raw.Rows {
		if len(row) != len(model.RawLayout) {
			return 0, fmt.Errorf("save %s: row %d has %d values", raw.Symbol, i, len(row))
		}
		if _, err := stmt.ExecContext(ctx,
			raw.Symbol, raw.Index[i].Unix(),
			nullable(row[0]), nullable(row[1]), nullable(row[2]),
			nullable(row[3]), nullable(row[4]), nullable(row[5]),
		); err != nil {
			return 0, fmt.Errorf("upsert %s %s: %w", raw.Symbol, raw.Index[i].Format("2006-01-02"), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return raw.Len(), nil
}

// FetchDailyFrame returns the last bars stored rows of symbol in ascending date order.
// An unknown symbol yields an empty frame.
func (s *SQLiteStore) FetchDailyFrame(ctx context.Context, symbol string, bars int) (*model.RawFrame, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, open, high, low, close, adj_close, volume
		FROM daily_bars WHERE symbol = ? ORDER BY date DESC LIMIT ?`, symbol, bars)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", symbol, err)
	}
	defer rows.Close()

	type bar struct {
		date int64
		v    [6]sql.NullFloat64
	}
	var desc []bar
	for rows.Next() {
		var b bar
		if err := rows.Scan(&b.date, &b.v[0], &b.v[1], &b.v[2], &b.v[3], &b.v[4], &b.v[5]); err != nil {
			return nil, fmt.Errorf("scan %s: %w", symbol, err)
		}
		desc = append(desc, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", symbol, err)
	}

	frame := model.NewRawFrame(symbol, len(desc))
	for i := len(desc) - 1; i >= 0; i-- {
		b := desc[i]
		frame.AppendRow(time.Unix(b.date, 0).UTC(),
			orNaN(b.v[0]), orNaN(b.v[1]), orNaN(b.v[2]),
			orNaN(b.v[3]), orNaN(b.v[4]), orNaN(b.v[5]))
	}
	return frame, nil
}

// RecordSyncRun appends a sync outcome to the run log.
func (s *SQLiteStore) RecordSyncRun(run *SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errText sql.NullString
	if run.Err != nil {
		errText = sql.NullString{String: run.Err.Error(), Valid: true}
	}
	_, err := s.db.Exec(`INSERT INTO sync_runs
		(timestamp, symbol, provider, bars, duration_ms, error)
		VALUES (?,?,?,?,?,?)`,
		run.Started.Unix(), run.Symbol, run.Provider, run.Bars,
		run.Duration.Milliseconds(), errText,
	)
	return err
}

// LastSync returns the start time of the most recent successful sync of symbol.
func (s *SQLiteStore) LastSync(ctx context.Context, symbol string) (time.Time, bool, error) {
	var ts sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(timestamp) FROM sync_runs WHERE symbol = ? AND error IS NULL`, symbol).Scan(&ts)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last sync %s: %w", symbol, err)
	}
	if !ts.Valid {
		return time.Time{}, false, nil
	}
	return time.Unix(ts.Int64, 0).UTC(), true, nil
}

func (s *SQLiteStore) Close() error {
	s.logger.Info("closing sqlite store")
	return s.db.Close()
}
