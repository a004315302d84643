package recorder

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"WatchDesk/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists refresh history to a SQLite database.
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

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.Info("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_events (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			symbol           TEXT NOT NULL,
			news_status      TEXT,
			sentiment_status TEXT,
			news_error       TEXT,
			sentiment_error  TEXT,
			started_at       INTEGER,
			finished_at      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_symbol_ts ON refresh_events(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS batch_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol_count   INTEGER,
			failed_count   INTEGER,
			failed_symbols TEXT,
			had_any_error  INTEGER,
			started_at     INTEGER,
			finished_at    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batch_ts ON batch_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRefresh(out *model.RefreshOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refresh_events
		(timestamp, symbol, news_status, sentiment_status, news_error, sentiment_error, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), out.Symbol,
		string(out.News), string(out.Sentiment),
		out.NewsError, out.SentimentError,
		unixMilli(out.StartedAt), unixMilli(out.FinishedAt),
	)
	return err
}

func (r *SQLiteRecorder) RecordBatch(agg *model.AggregateOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hadErr := 0
	if agg.HadAnyError {
		hadErr = 1
	}
	_, err := r.db.Exec(`INSERT INTO batch_runs
		(timestamp, symbol_count, failed_count, failed_symbols, had_any_error, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), len(agg.Symbols), len(agg.Failed),
		strings.Join(agg.Failed, ","), hadErr,
		unixMilli(agg.StartedAt), unixMilli(agg.FinishedAt),
	)
	return err
}

func (r *SQLiteRecorder) RecentRefreshes(symbol string, limit int) ([]RefreshRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	query := `SELECT id, symbol, news_status, sentiment_status, news_error, sentiment_error, started_at, finished_at
		FROM refresh_events`
	args := []any{}
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, model.NormalizeSymbol(symbol))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query refresh events: %w", err)
	}
	defer rows.Close()

	records := []RefreshRecord{}
	for rows.Next() {
		var (
			rec                   RefreshRecord
			news, sentiment       sql.NullString
			newsErr, sentErr      sql.NullString
			startedAt, finishedAt sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Symbol, &news, &sentiment, &newsErr, &sentErr, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan refresh event: %w", err)
		}
		rec.News = model.Status(news.String)
		rec.Sentiment = model.Status(sentiment.String)
		rec.NewsError = newsErr.String
		rec.SentimentError = sentErr.String
		rec.StartedAt = fromUnixMilli(startedAt)
		rec.FinishedAt = fromUnixMilli(finishedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	slog.Info("closing sqlite recorder")
	return r.db.Close()
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromUnixMilli(v sql.NullInt64) time.Time {
	if !v.Valid || v.Int64 == 0 {
		return time.Time{}
	}
	return time.UnixMilli(v.Int64).UTC()
}
