package archive

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "minio.local:9000", sanitizeEndpoint("http://minio.local:9000/"))
	require.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint(" https://acct.r2.cloudflarestorage.com/bucket/path "))
	require.Equal(t, "s3.amazonaws.com", sanitizeEndpoint("s3.amazonaws.com"))
	require.Equal(t, "", sanitizeEndpoint(""))
}

func TestUseSSL(t *testing.T) {
	require.False(t, useSSL("http://localhost:9000"))
	require.True(t, useSSL("https://s3.amazonaws.com"))
	require.True(t, useSSL("s3.amazonaws.com"))
}

func TestNewS3StorageBuildsClient(t *testing.T) {
	storage, err := NewS3Storage("http://localhost:9000", "key", "secret", "crop-archive", "us-east-1", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.Equal(t, "crop-archive", storage.bucket)
}

func TestS3StoragePutStopsWhenBucketCheckFails(t *testing.T) {
	s3 := newFakeS3(t, http.StatusForbidden, http.StatusOK)
	storage, logs := s3.storage(t)

	_, err := storage.Put(context.Background(), "history/a.xlsx", []byte("data"), "application/octet-stream")
	require.Error(t, err)
	require.Contains(t, err.Error(), "check bucket crop-archive")
	require.Equal(t, []string{"HEAD /crop-archive"}, s3.requests())
	require.NotContains(t, logs.String(), "archive bucket created")
}

func TestS3StoragePutToleratesBucketOwnedByCaller(t *testing.T) {
	s3 := newFakeS3(t, http.StatusNotFound, http.StatusConflict)
	storage, logs := s3.storage(t)

	obj, err := storage.Put(context.Background(), "history/a.xlsx", []byte("data"), "application/octet-stream")
	require.NoError(t, err)
	require.Equal(t, "history/a.xlsx", obj.Key)
	require.Equal(t, "abc123", obj.ETag)
	require.Equal(t, []string{"HEAD /crop-archive", "PUT /crop-archive", "PUT /crop-archive/history/a.xlsx"}, s3.requests())
	require.NotContains(t, logs.String(), "archive bucket created")
}

func TestS3StoragePutCreatesMissingBucket(t *testing.T) {
	s3 := newFakeS3(t, http.StatusNotFound, http.StatusOK)
	storage, logs := s3.storage(t)

	_, err := storage.Put(context.Background(), "history/a.xlsx", []byte("data"), "application/octet-stream")
	require.NoError(t, err)
	require.Contains(t, logs.String(), "archive bucket created")
}

func TestS3StoragePutSkipsCreateForExistingBucket(t *testing.T) {
	s3 := newFakeS3(t, http.StatusOK, http.StatusInternalServerError)
	storage, logs := s3.storage(t)

	_, err := storage.Put(context.Background(), "history/a.xlsx", []byte("data"), "application/octet-stream")
	require.NoError(t, err)
	require.Equal(t, []string{"HEAD /crop-archive", "PUT /crop-archive/history/a.xlsx"}, s3.requests())
	require.NotContains(t, logs.String(), "archive bucket created")
}

// fakeS3 answers bucket HEAD and PUT with fixed statuses and accepts every
// object upload.
type fakeS3 struct {
	server *httptest.Server

	mu   sync.Mutex
	seen []string
}

func newFakeS3(t *testing.T, headStatus, createStatus int) *fakeS3 {
	t.Helper()
	f := &fakeS3{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		f.mu.Lock()
		f.seen = append(f.seen, r.Method+" "+r.URL.Path)
		f.mu.Unlock()

		bucketOnly := !strings.Contains(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case r.Method == http.MethodHead && bucketOnly:
			w.WriteHeader(headStatus)
		case r.Method == http.MethodPut && bucketOnly:
			if createStatus == http.StatusConflict {
				w.Header().Set("Content-Type", "application/xml")
				w.WriteHeader(http.StatusConflict)
				_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>BucketAlreadyOwnedByYou</Code><Message>already owned</Message><BucketName>crop-archive</BucketName></Error>`)
				return
			}
			w.WriteHeader(createStatus)
		case r.Method == http.MethodPut:
			w.Header().Set("ETag", `"abc123"`)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotImplemented)
		}
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeS3) storage(t *testing.T) (*S3Storage, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	storage, err := NewS3Storage(f.server.URL, "key", "secret", "crop-archive", "us-east-1", slog.New(slog.NewTextHandler(logs, nil)))
	require.NoError(t, err)
	return storage, logs
}

func (f *fakeS3) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}
