package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
	"github.com/yanqian/crop-advisor/pkg/util"
)

const defaultExportLimit = 1000

// Error codes surfaced by the report domain.
const (
	CodeExportFailed    = "export_failed"
	CodeArchiveDisabled = "archive_disabled"
	CodeArchiveFailed   = "archive_failed"
)

// HistorySource yields audit records, newest first.
type HistorySource interface {
	History(ctx context.Context, limit int) ([]crop.Record, error)
}

// HistoryWriter encodes records into a document.
type HistoryWriter interface {
	Write(w io.Writer, records []crop.Record) error
	ContentType() string
	Extension() string
}

// ObjectStorage persists archived documents.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (StoredObject, error)
}

// StoredObject describes an uploaded archive.
type StoredObject struct {
	Key     string `json:"key"`
	Size    int64  `json:"size"`
	ETag    string `json:"etag,omitempty"`
	Records int    `json:"records"`
}

// Config controls export sizes and archive naming.
type Config struct {
	ExportLimit int
	KeyPrefix   string
}

// Service renders and archives prediction history.
type Service interface {
	Export(ctx context.Context, w io.Writer) (int, error)
	Archive(ctx context.Context) (StoredObject, error)
	ContentType() string
	FileName() string
}

type service struct {
	cfg     Config
	source  HistorySource
	writer  HistoryWriter
	storage ObjectStorage
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires the report domain. storage may be nil when archiving is disabled.
func NewService(cfg Config, source HistorySource, writer HistoryWriter, storage ObjectStorage, logger *slog.Logger) Service {
	if cfg.ExportLimit <= 0 {
		cfg.ExportLimit = defaultExportLimit
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	return &service{
		cfg:     cfg,
		source:  source,
		writer:  writer,
		storage: storage,
		logger:  logger.With("component", "report.service"),
		now:     util.NowUTC,
	}
}

func (s *service) Export(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.source.History(ctx, s.cfg.ExportLimit)
	if err != nil {
		return 0, err
	}
	if err := s.writer.Write(w, records); err != nil {
		return 0, apperrors.Wrap(CodeExportFailed, "failed to encode history", err)
	}
	return len(records), nil
}

func (s *service) Archive(ctx context.Context) (StoredObject, error) {
	if s.storage == nil {
		return StoredObject{}, apperrors.Wrap(CodeArchiveDisabled, "history archiving is not configured", nil)
	}
	var buf bytes.Buffer
	count, err := s.Export(ctx, &buf)
	if err != nil {
		return StoredObject{}, err
	}
	key := s.archiveKey()
	obj, err := s.storage.Put(ctx, key, buf.Bytes(), s.writer.ContentType())
	if err != nil {
		return StoredObject{}, apperrors.Wrap(CodeArchiveFailed, "failed to upload history archive", err)
	}
	obj.Records = count
	s.logger.Info("history archived", "key", obj.Key, "records", count, "size", obj.Size)
	return obj, nil
}

func (s *service) ContentType() string {
	return s.writer.ContentType()
}

func (s *service) FileName() string {
	return fmt.Sprintf("crop-history-%s%s", s.now().Format("20060102-150405"), s.writer.Extension())
}

func (s *service) archiveKey() string {
	name := s.FileName()
	if s.cfg.KeyPrefix == "" {
		return name
	}
	return s.cfg.KeyPrefix + "/" + name
}
