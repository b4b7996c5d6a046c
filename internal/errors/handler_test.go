package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divstreak/internal/dividend"
	"divstreak/internal/shared/testutil"
)

func TestNewErrorHandler(t *testing.T) {
	for _, includeStack := range []bool{true, false} {
		t.Run(fmt.Sprintf("includeStack=%v", includeStack), func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)

			handler := NewErrorHandler(logger, includeStack)

			assert.NotNil(t, handler)
			assert.Equal(t, includeStack, handler.includeStack)
			assert.NotNil(t, handler.logger)
		})
	}
}

func requestWithID(method, target, id string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
	return r.WithContext(ctx)
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantTitle  string
	}{
		{
			name:       "deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantTitle:  "Request Timeout",
		},
		{
			name:       "wrapped cancellation",
			err:        fmt.Errorf("load: %w", context.Canceled),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantTitle:  "Request Timeout",
		},
		{
			name:       "missing columns",
			err:        fmt.Errorf("compute: %w", &dividend.MissingColumnsError{Missing: []string{"code", "dps_regular_adj"}}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeMissingColumns,
			wantTitle:  "Missing Required Columns",
		},
		{
			name:       "invalid request",
			err:        ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantTitle:  "Bad Request",
		},
		{
			name:       "rate limit",
			err:        ErrRateLimitExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
			wantTitle:  "Too Many Requests",
		},
		{
			name:       "entity not found",
			err:        NewNotFoundError("entity 9999"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantTitle:  "Resource Not Found",
		},
		{
			name:       "source failure",
			err:        NewSourceError("csv:x.csv", fmt.Errorf("open x.csv: no such file")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeSource,
			wantTitle:  "Data Source Unavailable",
		},
		{
			name:       "config error",
			err:        NewConfigError("bad", nil),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			w := httptest.NewRecorder()
			r := requestWithID(http.MethodGet, "/api/dividends/ranking", "req-1")

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "json")

			body := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantTitle, body["title"])
			assert.Equal(t, "/api/dividends/ranking", body["instance"])
			assert.Equal(t, "req-1", body["trace_id"])
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	logger, handlerLog := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, w.Body.Len())
	assert.Equal(t, 0, handlerLog.Count())
}

func TestErrorHandler_MissingColumnsExtension(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.HandleError(w, requestWithID(http.MethodGet, "/", "r"), &dividend.MissingColumnsError{Missing: []string{"fiscal_year"}})

	body := decodeProblem(t, w)
	assert.Equal(t, []any{"fiscal_year"}, body["missing_columns"])
	assert.Equal(t, "missing required columns: fiscal_year", body["detail"])
}

func TestErrorHandler_ValidationDetails(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.HandleError(w, requestWithID(http.MethodGet, "/", "r"), ErrValidation("limit", "limit must be at most 10000"))

	body := decodeProblem(t, w)
	assert.Equal(t, CodeValidationFailed, body["error_code"])
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "limit", errs[0].(map[string]any)["field"])
}

func TestErrorHandler_LogLevel(t *testing.T) {
	logger, handlerLog := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	handler.HandleError(httptest.NewRecorder(), requestWithID(http.MethodGet, "/", "a"), ErrNotFound)
	handler.HandleError(httptest.NewRecorder(), requestWithID(http.MethodGet, "/", "b"), fmt.Errorf("boom"))

	assert.Len(t, handlerLog.GetRecordsByLevel(slog.LevelWarn), 1)
	assert.Len(t, handlerLog.GetRecordsByLevel(slog.LevelError), 1)
	testutil.AssertLogAttr(t, handlerLog, "component", "error_handler")
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	handler.HandleError(w, requestWithID(http.MethodGet, "/", "r"), fmt.Errorf("boom"))

	body := decodeProblem(t, w)
	assert.Contains(t, body, "stack")
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, handlerLog := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	handler.HandlePanic(w, requestWithID(http.MethodGet, "/api/x", "p-1"), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, "kaboom", body["panic"])
	assert.Equal(t, "p-1", body["trace_id"])
	assert.True(t, handlerLog.ContainsMessage("panic recovered"))
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.NotFound(w, requestWithID(http.MethodGet, "/nope", "n"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, w)["type"])

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, requestWithID(http.MethodDelete, "/api/health", "m"))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, "Method DELETE is not allowed for this endpoint", body["detail"])
}
