package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
)

func TestXLSXWriterRoundTrip(t *testing.T) {
	records := []crop.Record{
		{
			ID:        "rec-1",
			Features:  crop.FeatureVector{50, 50, 50, 25, 70, 6.5, 200},
			Crop:      "rice",
			LatencyMs: 120,
			CreatedAt: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        "rec-2",
			Features:  crop.FeatureVector{1, 2, 3, 4, 5, 6, 7},
			ErrorCode: "request_failed",
			CreatedAt: time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"ID", "Created At", "N", "P", "K", "temperature", "humidity", "pH", "rainfall", "Crop", "Error Code", "Latency (ms)"}, rows[0])
	require.Equal(t, []string{"rec-1", "2024-07-01T09:00:00Z", "50", "50", "50", "25", "70", "6.5", "200", "rice", "", "120"}, rows[1])
	require.Equal(t, "request_failed", rows[2][10])
}

func TestXLSXWriterMetadata(t *testing.T) {
	w := NewXLSXWriter()
	require.Equal(t, ".xlsx", w.Extension())
	require.Contains(t, w.ContentType(), "spreadsheetml")
}
