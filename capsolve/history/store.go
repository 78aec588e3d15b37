// Package history persists finished solve batches to a local sqlite
// database so operators can audit what was solved, when, and at what
// cost. Payloads are stored zstd-compressed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/capforge/capsolve/capsolve/solver"
	"github.com/capforge/capsolve/pkg/capkit"
	"github.com/capforge/capsolve/pkg/utils"
)

const createSolveBatchTable = `
CREATE TABLE IF NOT EXISTS solve_batch (
  batch_id TEXT PRIMARY KEY,
  task_id TEXT NOT NULL,
  token TEXT NOT NULL,
  challenge_count INTEGER NOT NULL,
  salt_length INTEGER NOT NULL,
  difficulty INTEGER NOT NULL,
  status TEXT NOT NULL,
  attempts INTEGER NOT NULL,
  elapsed_ms INTEGER NOT NULL,
  payload_zstd BLOB,
  compact TEXT,
  created_at_unix INTEGER NOT NULL
);`

const createSolveBatchIndex = `
CREATE INDEX IF NOT EXISTS idx_solve_batch_created ON solve_batch(created_at_unix);`

type Store struct {
	db *sqlx.DB
}

// BatchRow is one persisted batch, payload already decompressed.
type BatchRow struct {
	BatchID       string
	TaskID        string
	Token         string
	Params        capkit.ParamSpec
	Status        string
	Attempts      uint64
	ElapsedMS     int64
	Payload       []byte
	Compact       string
	CreatedAtUnix int64
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open history sqlite database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		fmt.Sprintf("PRAGMA cache_size=-%d;", DBCacheSizeKiB),
		fmt.Sprintf("PRAGMA busy_timeout=%d;", int64(DBBusyTimeout/time.Millisecond)),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("cannot set sqlite database parameter: %w", err)
		}
	}

	if _, err := db.Exec(createSolveBatchTable); err != nil {
		return nil, fmt.Errorf("cannot create solve_batch table: %w", err)
	}
	if _, err := db.Exec(createSolveBatchIndex); err != nil {
		return nil, fmt.Errorf("cannot create solve_batch index: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordBatch implements solver.Recorder. The write is retried with
// exponential backoff while the database is busy.
func (s *Store) RecordBatch(ctx context.Context, rec solver.BatchRecord) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store not initialized")
	}
	if rec.BatchID == "" {
		return fmt.Errorf("batch_id is required")
	}
	if rec.Status == "" {
		rec.Status = solver.BatchStatusFailed
	}
	createdAt := rec.CreatedAt.Unix()
	if rec.CreatedAt.IsZero() {
		createdAt = time.Now().Unix()
	}

	var payload []byte
	if len(rec.Payload) > 0 {
		compressed, err := utils.ZstdCompress(rec.Payload)
		if err != nil {
			return errors.Wrap(err, "failed to compress batch payload")
		}
		payload = compressed
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = WriteRetryInitialInterval
	b.MaxElapsedTime = WriteRetryMaxElapsed

	err := backoff.Retry(backoff.Operation(func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO solve_batch (batch_id, task_id, token, challenge_count, salt_length, difficulty, status, attempts, elapsed_ms, payload_zstd, compact, created_at_unix)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(batch_id) DO UPDATE SET
			   task_id=excluded.task_id,
			   token=excluded.token,
			   challenge_count=excluded.challenge_count,
			   salt_length=excluded.salt_length,
			   difficulty=excluded.difficulty,
			   status=excluded.status,
			   attempts=excluded.attempts,
			   elapsed_ms=excluded.elapsed_ms,
			   payload_zstd=excluded.payload_zstd,
			   compact=excluded.compact,
			   created_at_unix=excluded.created_at_unix`,
			rec.BatchID,
			rec.TaskID,
			rec.Token,
			rec.Params.Count,
			rec.Params.SaltLength,
			rec.Params.Difficulty,
			rec.Status,
			rec.Attempts,
			rec.ElapsedMS,
			nullIfEmptyBytes(payload),
			nullIfEmpty(rec.Compact),
			createdAt,
		)
		return execErr
	}), backoff.WithContext(b, ctx))
	if err != nil {
		return errors.Wrap(err, "failed to store solve batch")
	}
	return nil
}

// GetBatch fetches one batch by ID. The second return is false when no
// such batch exists.
func (s *Store) GetBatch(batchID string) (BatchRow, bool, error) {
	if s == nil || s.db == nil {
		return BatchRow{}, false, fmt.Errorf("store not initialized")
	}

	var row batchScan
	err := s.db.Get(&row, `SELECT batch_id, task_id, token, challenge_count, salt_length, difficulty, status, attempts, elapsed_ms, payload_zstd, compact, created_at_unix FROM solve_batch WHERE batch_id = ?`, batchID)
	if err != nil {
		if err == sql.ErrNoRows {
			return BatchRow{}, false, nil
		}
		return BatchRow{}, false, fmt.Errorf("query solve_batch: %w", err)
	}

	out, err := row.toBatchRow()
	if err != nil {
		return BatchRow{}, false, err
	}
	return out, true, nil
}

// ListBatches returns the most recent batches, newest first. An empty
// status lists everything; limit <= 0 uses DefaultListLimit.
func (s *Store) ListBatches(status string, limit int) ([]BatchRow, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var rows []batchScan
	var err error
	if status == "" {
		err = s.db.Select(&rows, `SELECT batch_id, task_id, token, challenge_count, salt_length, difficulty, status, attempts, elapsed_ms, payload_zstd, compact, created_at_unix FROM solve_batch ORDER BY created_at_unix DESC, batch_id LIMIT ?`, limit)
	} else {
		err = s.db.Select(&rows, `SELECT batch_id, task_id, token, challenge_count, salt_length, difficulty, status, attempts, elapsed_ms, payload_zstd, compact, created_at_unix FROM solve_batch WHERE status = ? ORDER BY created_at_unix DESC, batch_id LIMIT ?`, status, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list solve_batch: %w", err)
	}

	out := make([]BatchRow, 0, len(rows))
	for _, row := range rows {
		batch, err := row.toBatchRow()
		if err != nil {
			return nil, err
		}
		out = append(out, batch)
	}
	return out, nil
}

// Prune deletes batches older than the cutoff and reports how many
// rows went away.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("store not initialized")
	}
	cutoff := time.Now().Add(-olderThan).Unix()
	res, err := s.db.Exec(`DELETE FROM solve_batch WHERE created_at_unix < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune solve_batch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune solve_batch rows: %w", err)
	}
	return n, nil
}

// Stats returns batch counts per status.
func (s *Store) Stats() (map[string]int64, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM solve_batch GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("stat solve_batch: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan solve_batch stats: %w", err)
		}
		out[status] = count
	}
	return out, rows.Err()
}

type batchScan struct {
	BatchID       string         `db:"batch_id"`
	TaskID        string         `db:"task_id"`
	Token         string         `db:"token"`
	Count         int            `db:"challenge_count"`
	SaltLength    int            `db:"salt_length"`
	Difficulty    int            `db:"difficulty"`
	Status        string         `db:"status"`
	Attempts      uint64         `db:"attempts"`
	ElapsedMS     int64          `db:"elapsed_ms"`
	PayloadZstd   []byte         `db:"payload_zstd"`
	Compact       sql.NullString `db:"compact"`
	CreatedAtUnix int64          `db:"created_at_unix"`
}

func (row batchScan) toBatchRow() (BatchRow, error) {
	out := BatchRow{
		BatchID: row.BatchID,
		TaskID:  row.TaskID,
		Token:   row.Token,
		Params: capkit.ParamSpec{
			Count:      row.Count,
			SaltLength: row.SaltLength,
			Difficulty: row.Difficulty,
		},
		Status:        row.Status,
		Attempts:      row.Attempts,
		ElapsedMS:     row.ElapsedMS,
		Compact:       row.Compact.String,
		CreatedAtUnix: row.CreatedAtUnix,
	}
	if len(row.PayloadZstd) > 0 {
		payload, err := utils.ZstdDecompress(row.PayloadZstd)
		if err != nil {
			return BatchRow{}, errors.Wrap(err, "failed to decompress batch payload")
		}
		out.Payload = payload
	}
	return out, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfEmptyBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
