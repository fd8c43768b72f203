package crop

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
	"github.com/yanqian/crop-advisor/pkg/metrics"
	"github.com/yanqian/crop-advisor/pkg/util"
)

const (
	defaultHistoryLimit = 50
	defaultPopularLimit = 5
)

// Service exposes crop recommendation capabilities.
type Service interface {
	Recommend(ctx context.Context, req Request) (Response, error)
	Fields() []FieldSpec
	Crops() []Crop
	Popular(ctx context.Context, limit int) ([]CropCount, error)
	History(ctx context.Context, limit int) ([]Record, error)
}

type service struct {
	cfg       Config
	predictor Predictor
	history   HistoryRepository
	stats     StatsStore
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires up the recommendation domain.
func NewService(cfg Config, predictor Predictor, history HistoryRepository, stats StatsStore, logger *slog.Logger) Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	if cfg.PopularLimit <= 0 {
		cfg.PopularLimit = defaultPopularLimit
	}
	return &service{
		cfg:       cfg,
		predictor: predictor,
		history:   history,
		stats:     stats,
		logger:    logger.With("component", "crop.service"),
		now:       util.NowUTC,
		newID:     uuid.NewString,
	}
}

func (s *service) Recommend(ctx context.Context, req Request) (Response, error) {
	form := ValidateForm(req.Values)
	features, err := form.FeatureVector()
	if err != nil {
		return Response{}, apperrors.Wrap(CodeInvalidInput, "one or more fields are invalid", err)
	}

	start := time.Now()
	predicted, err := s.predictor.Predict(ctx, features)
	timing := metrics.Since(start)
	if err != nil {
		if apperrors.CodeOf(err) == "" {
			err = apperrors.Wrap(CodeTransport, "prediction service unavailable", err)
		}
		s.logger.Warn("prediction failed", "code", apperrors.CodeOf(err), "latency_ms", timing.UpstreamMs, "error", err)
		s.record(ctx, Record{Features: features, ErrorCode: apperrors.CodeOf(err), LatencyMs: timing.UpstreamMs})
		return Response{}, err
	}

	recordID := s.record(ctx, Record{Features: features, Crop: predicted.String(), LatencyMs: timing.UpstreamMs})
	if s.stats != nil {
		if err := s.stats.Increment(ctx, predicted); err != nil {
			s.logger.Error("crop stats update failed", "crop", predicted.String(), "error", err)
		}
	}
	s.logger.Info("crop recommended", "crop", predicted.String(), "index", predicted.Index(), "latency_ms", timing.UpstreamMs)

	return Response{
		Crop:     predicted,
		Index:    predicted.Index(),
		Features: features,
		RecordID: recordID,
		Timing:   timing,
	}, nil
}

// record appends an audit entry. Storage failures are logged and never surfaced.
func (s *service) record(ctx context.Context, rec Record) string {
	if s.history == nil {
		return ""
	}
	rec.ID = s.newID()
	rec.CreatedAt = s.now()
	if err := s.history.Append(ctx, rec); err != nil {
		s.logger.Error("history append failed", "record_id", rec.ID, "error", err)
		return ""
	}
	return rec.ID
}

func (s *service) Fields() []FieldSpec {
	return Fields()
}

func (s *service) Crops() []Crop {
	return Crops()
}

func (s *service) Popular(ctx context.Context, limit int) ([]CropCount, error) {
	if s.stats == nil {
		return nil, nil
	}
	if limit <= 0 || limit > LabelCount {
		limit = s.cfg.PopularLimit
	}
	items, err := s.stats.Top(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("stats_error", "failed to load crop popularity", err)
	}
	return items, nil
}

func (s *service) History(ctx context.Context, limit int) ([]Record, error) {
	if s.history == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	records, err := s.history.Latest(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("history_error", "failed to load history", err)
	}
	return records, nil
}
