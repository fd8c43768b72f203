package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
	"github.com/yanqian/crop-advisor/internal/domain/report"
	apperrors "github.com/yanqian/crop-advisor/pkg/errors"
	"github.com/yanqian/crop-advisor/pkg/util"
)

const maxHistoryLimit = 500

// Handler wires the JSON API to domain services.
type Handler struct {
	cropSvc   crop.Service
	reportSvc report.Service
	logger    *slog.Logger
}

// NewHandler constructs the API handler.
func NewHandler(cropSvc crop.Service, reportSvc report.Service, logger *slog.Logger) *Handler {
	return &Handler{
		cropSvc:   cropSvc,
		reportSvc: reportSvc,
		logger:    logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Fields lists the form schema.
func (h *Handler) Fields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": h.cropSvc.Fields()})
}

// Crops lists every label the model can return, in index order.
func (h *Handler) Crops(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"crops": h.cropSvc.Crops()})
}

// Recommend accepts numbers or numeric strings keyed by field.
func (h *Handler) Recommend(c *gin.Context) {
	values, err := decodeFormValues(c.Request)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.cropSvc.Recommend(c.Request.Context(), crop.Request{Values: values})
	if err != nil {
		abortWithError(c, recommendError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Popular returns the most frequently recommended crops.
func (h *Handler) Popular(c *gin.Context) {
	limit := util.ParseLimit(c.Query("limit"), 0, crop.LabelCount)
	items, err := h.cropSvc.Popular(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, codeOr(err, "stats_error"), errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"crops": items})
}

// History returns the latest prediction records.
func (h *Handler) History(c *gin.Context) {
	limit := util.ParseLimit(c.Query("limit"), 0, maxHistoryLimit)
	records, err := h.cropSvc.History(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, codeOr(err, "history_error"), errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// ExportHistory streams the history as a downloadable document.
func (h *Handler) ExportHistory(c *gin.Context) {
	var buf bytes.Buffer
	count, err := h.reportSvc.Export(c.Request.Context(), &buf)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, codeOr(err, report.CodeExportFailed), errMessage(err), err))
		return
	}
	if claims, ok := getClaims(c); ok {
		h.logger.Info("history exported", "subject", claims.Subject, "records", count)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.reportSvc.FileName()))
	c.Header("X-Record-Count", strconv.Itoa(count))
	c.Data(http.StatusOK, h.reportSvc.ContentType(), buf.Bytes())
}

// ArchiveHistory uploads the history document to object storage.
func (h *Handler) ArchiveHistory(c *gin.Context) {
	obj, err := h.reportSvc.Archive(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case apperrors.IsCode(err, report.CodeArchiveDisabled):
			status = http.StatusServiceUnavailable
		case apperrors.IsCode(err, report.CodeArchiveFailed):
			status = http.StatusBadGateway
		}
		abortWithError(c, NewHTTPError(status, codeOr(err, report.CodeArchiveFailed), errMessage(err), err))
		return
	}
	if claims, ok := getClaims(c); ok {
		h.logger.Info("history archived", "subject", claims.Subject, "key", obj.Key, "records", obj.Records)
	}
	c.JSON(http.StatusCreated, obj)
}

func recommendError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	switch {
	case code == crop.CodeInvalidInput:
		httpErr := NewHTTPError(http.StatusBadRequest, code, "one or more fields are invalid", err)
		var vErr *crop.ValidationError
		if errors.As(err, &vErr) {
			fields := make(map[string]string)
			for key, msg := range vErr.Form.Errors() {
				fields[string(key)] = msg
			}
			httpErr.WithFields(fields)
		}
		return httpErr
	case crop.IsUpstreamCode(code):
		return NewHTTPError(http.StatusBadGateway, code, errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "recommend_failed", errMessage(err), err)
	}
}

// decodeFormValues maps a JSON object onto form values. Numbers keep their
// literal text so validation sees exactly what the caller sent.
func decodeFormValues(r *http.Request) (crop.FormValues, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	values := make(crop.FormValues, len(raw))
	for name, v := range raw {
		spec, ok := crop.LookupField(crop.Key(name))
		if !ok {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		switch typed := v.(type) {
		case json.Number:
			values[spec.Key] = typed.String()
		case string:
			values[spec.Key] = typed
		case nil:
			values[spec.Key] = ""
		default:
			return nil, fmt.Errorf("field %q must be a number", name)
		}
	}
	return values, nil
}

func codeOr(err error, fallback string) string {
	if code := apperrors.CodeOf(err); code != "" {
		return code
	}
	return fallback
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
