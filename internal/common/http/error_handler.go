package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/dcastellanos/userboard/internal/common/errors"
	"github.com/dcastellanos/userboard/internal/common/logger"
	"github.com/dcastellanos/userboard/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := TraceIDFromContext(ctx)

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr, traceID)
		return
	}

	logFields := logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}
	if traceID != "" {
		logFields["trace_id"] = traceID
		w.Header().Set("X-Trace-ID", traceID)
	}

	h.log.WithFields(ctx, logFields).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		r.URL.Path,
		r.Method,
	).Inc()

	WriteError(w, http.StatusInternalServerError, "internal server error")
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, err commonerrors.DomainError, traceID string) {
	status := err.HTTPStatus()

	logFields := logger.Fields{
		"error_code": err.Code(),
		"category":   string(err.Category()),
		"status":     status,
		"action":     "domain_error",
	}
	if traceID != "" {
		logFields["trace_id"] = traceID
		w.Header().Set("X-Trace-ID", traceID)
	}

	if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(r.Context(), logFields).Debugf("domain error: %s", err.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(err.Category()),
		err.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		r.URL.Path,
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, err.Code(), err.Message(), traceID)
}

func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	handler := NewErrorHandler(log)
	handler.HandleError(w, r, err)
}
