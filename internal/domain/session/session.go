package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
)

// ErrClosed is returned when a submission targets a dropped session.
var ErrClosed = errors.New("session closed")

// Recommender resolves a validated form into a crop.
type Recommender interface {
	Recommend(ctx context.Context, req crop.Request) (crop.Response, error)
}

// ResultKind tags the single result slot of a session.
type ResultKind int

const (
	ResultEmpty ResultKind = iota
	ResultCrop
	ResultError
)

// Result is the recommendation outcome currently on display.
type Result struct {
	Kind    ResultKind
	Crop    string
	Message string
}

// CropResult builds a success result.
func CropResult(name string) Result {
	return Result{Kind: ResultCrop, Crop: name}
}

// ErrorResult builds a failure result.
func ErrorResult(message string) Result {
	return Result{Kind: ResultError, Message: message}
}

// FieldView is one rendered input.
type FieldView struct {
	Spec  crop.FieldSpec
	Value string
	Error string
}

// View is an immutable snapshot handed to presenters.
type View struct {
	ID      string
	Fields  []FieldView
	Result  Result
	Pending bool
}

// Session owns the form values and result slot of one page load.
type Session struct {
	id     string
	svc    Recommender
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	values   crop.FormValues
	form     crop.FormState
	result   Result
	issued   uint64
	inFlight int
	closed   bool
	lastSeen time.Time
}

// New creates an empty session.
func New(id string, svc Recommender, logger *slog.Logger) *Session {
	return newSession(id, svc, logger, time.Now)
}

func newSession(id string, svc Recommender, logger *slog.Logger, now func() time.Time) *Session {
	return &Session{
		id:       id,
		svc:      svc,
		logger:   logger.With("component", "session", "session_id", id),
		now:      now,
		values:   crop.FormValues{},
		lastSeen: now(),
	}
}

// ID returns the opaque session identifier.
func (s *Session) ID() string {
	return s.id
}

// Submit validates values and, when they pass, requests a recommendation.
// Only the response to the most recently issued request updates the result;
// responses arriving after Close are dropped.
func (s *Session) Submit(ctx context.Context, values crop.FormValues) (View, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return View{}, ErrClosed
	}
	s.lastSeen = s.now()
	s.values = copyValues(values)
	s.form = crop.ValidateForm(s.values)
	if !s.form.Valid() {
		view := s.viewLocked()
		s.mu.Unlock()
		return view, nil
	}
	s.issued++
	seq := s.issued
	s.inFlight++
	s.mu.Unlock()

	resp, err := s.svc.Recommend(ctx, crop.Request{Values: copyValues(values)})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	s.lastSeen = s.now()
	if s.closed {
		s.logger.Debug("response after close dropped", "seq", seq)
		return View{}, ErrClosed
	}
	if seq != s.issued {
		s.logger.Debug("stale response discarded", "seq", seq, "latest", s.issued)
		return s.viewLocked(), nil
	}
	s.apply(resp, err)
	return s.viewLocked(), nil
}

func (s *Session) apply(resp crop.Response, err error) {
	if err == nil {
		s.result = CropResult(resp.Crop.String())
		return
	}
	var vErr *crop.ValidationError
	if errors.As(err, &vErr) {
		s.form = vErr.Form
		return
	}
	s.logger.Warn("recommendation failed", "code", apperrors.CodeOf(err), "error", err)
	s.result = ErrorResult(err.Error())
}

// View returns the current snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	fields := make([]FieldView, 0, crop.FeatureCount)
	for _, spec := range crop.Fields() {
		state := s.form.Field(spec.Key)
		fields = append(fields, FieldView{
			Spec:  spec,
			Value: s.values[spec.Key],
			Error: state.Message,
		})
	}
	return View{
		ID:      s.id,
		Fields:  fields,
		Result:  s.result,
		Pending: s.inFlight > 0,
	}
}

// Close drops the session; pending responses become no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight > 0 {
		return 0
	}
	return now.Sub(s.lastSeen)
}

func copyValues(values crop.FormValues) crop.FormValues {
	out := make(crop.FormValues, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
