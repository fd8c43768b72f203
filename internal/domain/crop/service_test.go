package crop

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
)

func TestServiceRecommendSuccess(t *testing.T) {
	predictor := &stubPredictor{crop: Coffee}
	history := &stubHistory{}
	stats := &stubStats{}
	svc := newTestService(predictor, history, stats)

	resp, err := svc.Recommend(context.Background(), Request{Values: validValues()})
	require.NoError(t, err)
	require.Equal(t, Coffee, resp.Crop)
	require.Equal(t, 21, resp.Index)
	require.Equal(t, FeatureVector{50, 50, 50, 25, 70, 6.5, 200}, resp.Features)
	require.Equal(t, "rec-1", resp.RecordID)

	require.Equal(t, 1, predictor.calls)
	require.Equal(t, resp.Features, predictor.last)
	require.Len(t, history.records, 1)
	require.Equal(t, "coffee", history.records[0].Crop)
	require.True(t, history.records[0].Succeeded())
	require.Equal(t, []Crop{Coffee}, stats.incremented)
}

func TestServiceRecommendValidationBlocksPredictor(t *testing.T) {
	predictor := &stubPredictor{crop: Rice}
	history := &stubHistory{}
	svc := newTestService(predictor, history, &stubStats{})

	values := validValues()
	values[KeyHumidity] = "150"
	_, err := svc.Recommend(context.Background(), Request{Values: values})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, ReasonMax, vErr.Form.Field(KeyHumidity).Reason)
	require.Zero(t, predictor.calls)
	require.Empty(t, history.records)
}

func TestServiceRecommendPropagatesUpstreamCode(t *testing.T) {
	predictor := &stubPredictor{err: apperrors.Wrap(CodeRequestFailed, "recommendation failed", errors.New("status 503"))}
	history := &stubHistory{}
	stats := &stubStats{}
	svc := newTestService(predictor, history, stats)

	_, err := svc.Recommend(context.Background(), Request{Values: validValues()})
	require.True(t, apperrors.IsCode(err, CodeRequestFailed))
	require.Len(t, history.records, 1)
	require.Equal(t, CodeRequestFailed, history.records[0].ErrorCode)
	require.False(t, history.records[0].Succeeded())
	require.Empty(t, stats.incremented)
}

func TestServiceRecommendWrapsUncodedErrors(t *testing.T) {
	svc := newTestService(&stubPredictor{err: context.DeadlineExceeded}, &stubHistory{}, &stubStats{})

	_, err := svc.Recommend(context.Background(), Request{Values: validValues()})
	require.True(t, apperrors.IsCode(err, CodeTransport))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestServiceHistoryFailureIsNotSurfaced(t *testing.T) {
	svc := newTestService(&stubPredictor{crop: Maize}, &stubHistory{err: errors.New("db down")}, &stubStats{err: errors.New("cache down")})

	resp, err := svc.Recommend(context.Background(), Request{Values: validValues()})
	require.NoError(t, err)
	require.Equal(t, Maize, resp.Crop)
	require.Empty(t, resp.RecordID)
}

func TestServicePopularAndHistoryLimits(t *testing.T) {
	stats := &stubStats{top: []CropCount{{Crop: Rice, Count: 3}}}
	history := &stubHistory{}
	svc := newTestService(&stubPredictor{}, history, stats)

	items, err := svc.Popular(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, []CropCount{{Crop: Rice, Count: 3}}, items)
	require.Equal(t, defaultPopularLimit, stats.lastLimit)

	_, err = svc.History(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, defaultHistoryLimit, history.lastLimit)

	_, err = svc.History(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 7, history.lastLimit)
}

func newTestService(predictor Predictor, history HistoryRepository, stats StatsStore) *service {
	svc := NewService(Config{}, predictor, history, stats, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) }
	seq := 0
	svc.newID = func() string {
		seq++
		return "rec-" + string(rune('0'+seq))
	}
	return svc
}

type stubPredictor struct {
	crop  Crop
	err   error
	calls int
	last  FeatureVector
}

func (s *stubPredictor) Predict(ctx context.Context, features FeatureVector) (Crop, error) {
	s.calls++
	s.last = features
	if s.err != nil {
		return 0, s.err
	}
	return s.crop, nil
}

type stubHistory struct {
	records   []Record
	err       error
	lastLimit int
}

func (s *stubHistory) Append(ctx context.Context, record Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *stubHistory) Latest(ctx context.Context, limit int) ([]Record, error) {
	s.lastLimit = limit
	return s.records, s.err
}

type stubStats struct {
	incremented []Crop
	top         []CropCount
	err         error
	lastLimit   int
}

func (s *stubStats) Increment(ctx context.Context, c Crop) error {
	if s.err != nil {
		return s.err
	}
	s.incremented = append(s.incremented, c)
	return nil
}

func (s *stubStats) Top(ctx context.Context, limit int) ([]CropCount, error) {
	s.lastLimit = limit
	return s.top, s.err
}
