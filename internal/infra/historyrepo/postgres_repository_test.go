package historyrepo

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
)

type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	for i, d := range dest {
		switch target := d.(type) {
		case *string:
			*target = f.values[i].(string)
		case *[]float64:
			*target = f.values[i].([]float64)
		case *sql.NullString:
			*target = f.values[i].(sql.NullString)
		case *int64:
			*target = f.values[i].(int64)
		case *time.Time:
			*target = f.values[i].(time.Time)
		}
	}
	return nil
}

func TestScanRecord(t *testing.T) {
	created := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	row := fakeRow{values: []any{
		"0b5c",
		[]float64{50, 50, 50, 25, 70, 6.5, 200},
		sql.NullString{String: "rice", Valid: true},
		sql.NullString{},
		int64(42),
		created,
	}}

	record, err := scanRecord(row)
	require.NoError(t, err)
	require.Equal(t, crop.Record{
		ID:        "0b5c",
		Features:  crop.FeatureVector{50, 50, 50, 25, 70, 6.5, 200},
		Crop:      "rice",
		LatencyMs: 42,
		CreatedAt: created,
	}, record)
}

func TestScanRecordRejectsShortVector(t *testing.T) {
	row := fakeRow{values: []any{"id", []float64{1, 2}, sql.NullString{}, sql.NullString{}, int64(0), time.Time{}}}
	_, err := scanRecord(row)
	require.Error(t, err)

	_, err = scanRecord(fakeRow{err: errors.New("scan failed")})
	require.EqualError(t, err, "scan failed")
}

func TestNullable(t *testing.T) {
	require.Nil(t, nullable(""))
	require.Equal(t, "decoding_error", nullable("decoding_error"))
}
