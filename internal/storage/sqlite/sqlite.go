package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"microbatch/internal/storage"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 500
)

// Store реализует storage.Store поверх SQLite.
type Store struct {
	db *sql.DB
}

// Open инициализирует соединение и выполняет миграции.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			request_id TEXT NOT NULL,
			command TEXT NOT NULL,
			args BLOB,
			status TEXT NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(ts);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_command_ts ON runs(command, ts);`,
		`CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			source TEXT NOT NULL,
			payload BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_samples_source_ts ON samples(source, ts);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveRun сохраняет запись о запуске команды.
func (s *Store) SaveRun(ctx context.Context, rec storage.RunRecord) error {
	ts := rec.TS
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs(request_id, command, args, status, error, duration_ms, ts) VALUES(?,?,?,?,?,?,?)`,
		rec.RequestID, rec.Command, rec.Args, rec.Status, rec.Error, rec.Duration.Milliseconds(), ts.UTC())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// QueryRuns возвращает запуски по фильтрам, новые первыми.
func (s *Store) QueryRuns(ctx context.Context, q storage.RunQuery) ([]storage.RunRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}
	since := q.Since
	if since.IsZero() {
		since = time.Unix(0, 0)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT request_id, command, args, status, error, duration_ms, ts
FROM runs
WHERE ts >= ? AND (? = '' OR command = ? COLLATE NOCASE) AND (? = '' OR status = ?)
ORDER BY ts DESC, id DESC
LIMIT ?`, since.UTC(), q.Command, q.Command, q.Status, q.Status, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]storage.RunRecord, 0, limit)
	for rows.Next() {
		var rec storage.RunRecord
		var errText sql.NullString
		var durationMS int64
		var ts string
		if err := rows.Scan(&rec.RequestID, &rec.Command, &rec.Args, &rec.Status, &errText, &durationMS, &ts); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		parsedTS, err := parseSQLiteTS(ts)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp: %w", err)
		}
		rec.Error = errText.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.TS = parsedTS
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// PruneRuns удаляет запуски старше before и возвращает их количество.
func (s *Store) PruneRuns(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE ts < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return n, nil
}

// SaveSample сохраняет срез метрик.
func (s *Store) SaveSample(ctx context.Context, sample storage.Sample) error {
	ts := sample.TS
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO samples(source, payload, ts) VALUES(?,?,?)`, sample.Source, sample.Payload, ts.UTC())
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// LatestSample возвращает последний срез по источнику.
func (s *Store) LatestSample(ctx context.Context, source string) (storage.Sample, error) {
	row := s.db.QueryRowContext(ctx, `SELECT source, payload, ts FROM samples WHERE source = ? ORDER BY ts DESC, id DESC LIMIT 1`, source)
	var sample storage.Sample
	var ts string
	if err := row.Scan(&sample.Source, &sample.Payload, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Sample{}, fmt.Errorf("latest sample for %s: %w", source, storage.ErrNotFound)
		}
		return storage.Sample{}, fmt.Errorf("query latest sample: %w", err)
	}
	parsedTS, err := parseSQLiteTS(ts)
	if err != nil {
		return storage.Sample{}, fmt.Errorf("parse sample timestamp: %w", err)
	}
	sample.TS = parsedTS
	return sample, nil
}

func parseSQLiteTS(v string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported sqlite time format: %q", v)
}

// Close закрывает соединение.
func (s *Store) Close() error {
	return s.db.Close()
}
