package historyrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS crop_predictions (
	id          UUID PRIMARY KEY,
	features    DOUBLE PRECISION[] NOT NULL,
	crop        TEXT,
	error_code  TEXT,
	latency_ms  BIGINT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS crop_predictions_created_at_idx ON crop_predictions (created_at DESC);
`

// PostgresRepository implements crop.HistoryRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the predictions table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure crop_predictions schema: %w", err)
	}
	return nil
}

// Append inserts one audit record.
func (r *PostgresRepository) Append(ctx context.Context, record crop.Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO crop_predictions (id, features, crop, error_code, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.Features[:], nullable(record.Crop), nullable(record.ErrorCode), record.LatencyMs, record.CreatedAt)
	return err
}

// Latest returns up to limit records, newest first.
func (r *PostgresRepository) Latest(ctx context.Context, limit int) ([]crop.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, features, crop, error_code, latency_ms, created_at
		FROM crop_predictions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]crop.Record, 0, limit)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (crop.Record, error) {
	var (
		record    crop.Record
		features  []float64
		cropName  sql.NullString
		errorCode sql.NullString
	)
	if err := row.Scan(&record.ID, &features, &cropName, &errorCode, &record.LatencyMs, &record.CreatedAt); err != nil {
		return crop.Record{}, err
	}
	if len(features) != crop.FeatureCount {
		return crop.Record{}, fmt.Errorf("record %s: expected %d features, got %d", record.ID, crop.FeatureCount, len(features))
	}
	copy(record.Features[:], features)
	record.Crop = cropName.String
	record.ErrorCode = errorCode.String
	return record, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ crop.HistoryRepository = (*PostgresRepository)(nil)
