package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
	"github.com/yanqian/crop-advisor/internal/domain/session"
)

const (
	sessionCookie    = "crop_session"
	pageTemplate     = "index.html.tmpl"
	throttledMessage = "too many requests, try again shortly"
)

// PageHandler serves the server-rendered form.
type PageHandler struct {
	registry  *session.Registry
	presenter *Presenter
	limiter   *RateLimiter
	logger    *slog.Logger
}

// NewPageHandler constructs the form handler.
func NewPageHandler(registry *session.Registry, presenter *Presenter, limiter *RateLimiter, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		registry:  registry,
		presenter: presenter,
		limiter:   limiter,
		logger:    logger.With("component", "http.page"),
	}
}

// Show renders an empty form. A reload discards the caller's previous session.
func (h *PageHandler) Show(c *gin.Context) {
	s := h.registry.Replace(sessionID(c))
	h.render(c, http.StatusOK, s, s.View())
}

// Submit validates the posted form and renders the outcome.
func (h *PageHandler) Submit(c *gin.Context) {
	s := h.registry.Resume(sessionID(c))

	values := make(crop.FormValues, crop.FeatureCount)
	for _, key := range crop.Keys() {
		values[key] = c.PostForm(string(key))
	}

	if ip := c.ClientIP(); !h.limiter.Allow(ip) {
		h.logger.Warn("rate limit exceeded", "ip", ip, "session_id", s.ID())
		h.render(c, http.StatusTooManyRequests, s, throttledView(s.View(), values))
		return
	}

	view, err := s.Submit(c.Request.Context(), values)
	if errors.Is(err, session.ErrClosed) {
		h.logger.Info("submission outlived its session", "session_id", s.ID())
		s = h.registry.Replace(s.ID())
		view = s.View()
	}
	h.render(c, http.StatusOK, s, view)
}

func (h *PageHandler) render(c *gin.Context, status int, s *session.Session, view session.View) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, s.ID(), 0, "/", "", c.Request.TLS != nil, true)
	c.Header("Cache-Control", "no-store")
	c.HTML(status, pageTemplate, h.presenter.Page(view))
}

// throttledView echoes the posted values with an error panel, leaving the
// session itself untouched.
func throttledView(view session.View, values crop.FormValues) session.View {
	fields := make([]session.FieldView, len(view.Fields))
	for i, f := range view.Fields {
		fields[i] = session.FieldView{Spec: f.Spec, Value: values[f.Spec.Key]}
	}
	view.Fields = fields
	view.Result = session.ErrorResult(throttledMessage)
	return view
}

func sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	return c.PostForm("session")
}
