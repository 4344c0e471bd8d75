package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{BadRequest("x"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{RateLimit("x"), http.StatusTooManyRequests},
		{ServiceUnavailableWrap(nil, "x"), http.StatusServiceUnavailable},
		{New("TEAPOT", "x"), http.StatusInternalServerError},
		{Internal("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			if tt.err.StatusCode != tt.want {
				t.Errorf("StatusCode = %d, want %d", tt.err.StatusCode, tt.want)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := ServiceUnavailableWrap(cause, "Analytics service is unavailable")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if got := err.Error(); got != "SERVICE_UNAVAILABLE: Analytics service is unavailable (caused by: dial tcp: refused)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("app error with fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, logger, ValidationFields("Please correct the highlighted fields", map[string]string{"email": "Please enter a valid email address"}), "req-9")

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d", w.Code)
		}
		var resp struct {
			Success bool `json:"success"`
			Error   struct {
				Code      string            `json:"code"`
				Fields    map[string]string `json:"fields"`
				RequestID string            `json:"request_id"`
			} `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Success || resp.Error.Code != "VALIDATION_ERROR" || resp.Error.RequestID != "req-9" || resp.Error.Fields["email"] == "" {
			t.Errorf("response = %+v", resp)
		}
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, logger, stderrors.New("boom"), "")
		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})

	t.Run("shared error keeps no request id", func(t *testing.T) {
		shared := Unauthorized("Please sign in")
		WriteError(httptest.NewRecorder(), logger, shared, "req-1")
		if shared.RequestID != "" {
			t.Errorf("RequestID = %q, want the shared error untouched", shared.RequestID)
		}
	})
}

func TestFrom(t *testing.T) {
	appErr := NotFound("report template not found")
	if got := From(fmt.Errorf("quick generate: %w", appErr)); got != appErr {
		t.Errorf("From() = %v, want the wrapped AppError", got)
	}

	cause := stderrors.New("boom")
	got := From(cause)
	if got.Code != CodeInternal || !stderrors.Is(got, cause) {
		t.Errorf("From(plain) = %+v, want internal wrapping the cause", got)
	}
}

func TestWriteSuccessWithHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessWithHeaders(w, []string{"a"}, map[string]string{"Cache-Control": "no-store"})

	if w.Header().Get("Cache-Control") != "no-store" || w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("headers = %v", w.Header())
	}
	var resp struct {
		Data    []string `json:"data"`
		Success bool     `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || !resp.Success || len(resp.Data) != 1 {
		t.Errorf("response = %+v, %v", resp, err)
	}
}
