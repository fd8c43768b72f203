package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
)

func TestExportWritesHistory(t *testing.T) {
	source := &stubSource{records: []crop.Record{{ID: "a", Crop: "rice"}, {ID: "b", ErrorCode: "request_failed"}}}
	svc := newTestService(source, nil)

	var buf bytes.Buffer
	n, err := svc.Export(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "a,b", buf.String())
	require.Equal(t, defaultExportLimit, source.lastLimit)
}

func TestArchiveDisabledWithoutStorage(t *testing.T) {
	svc := newTestService(&stubSource{}, nil)
	_, err := svc.Archive(context.Background())
	require.True(t, apperrors.IsCode(err, CodeArchiveDisabled))
}

func TestArchiveUploadsUnderPrefix(t *testing.T) {
	storage := &stubStorage{}
	svc := newTestService(&stubSource{records: []crop.Record{{ID: "a"}}}, storage)

	obj, err := svc.Archive(context.Background())
	require.NoError(t, err)
	require.Equal(t, "exports/crop-history-20240701-090000.txt", obj.Key)
	require.Equal(t, 1, obj.Records)
	require.Equal(t, "text/plain", storage.contentType)
	require.Equal(t, "a", string(storage.data))
}

func TestArchiveStorageFailure(t *testing.T) {
	storage := &stubStorage{err: errors.New("bucket gone")}
	svc := newTestService(&stubSource{}, storage)
	_, err := svc.Archive(context.Background())
	require.True(t, apperrors.IsCode(err, CodeArchiveFailed))
}

func newTestService(source HistorySource, storage ObjectStorage) *service {
	svc := NewService(Config{KeyPrefix: "/exports/"}, source, csvishWriter{}, storage, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

type stubSource struct {
	records   []crop.Record
	lastLimit int
}

func (s *stubSource) History(ctx context.Context, limit int) ([]crop.Record, error) {
	s.lastLimit = limit
	return s.records, nil
}

type csvishWriter struct{}

func (csvishWriter) Write(w io.Writer, records []crop.Record) error {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	_, err := io.WriteString(w, strings.Join(ids, ","))
	return err
}

func (csvishWriter) ContentType() string { return "text/plain" }
func (csvishWriter) Extension() string   { return ".txt" }

type stubStorage struct {
	data        []byte
	contentType string
	err         error
}

func (s *stubStorage) Put(ctx context.Context, key string, data []byte, contentType string) (StoredObject, error) {
	if s.err != nil {
		return StoredObject{}, s.err
	}
	s.data = data
	s.contentType = contentType
	return StoredObject{Key: key, Size: int64(len(data))}, nil
}
