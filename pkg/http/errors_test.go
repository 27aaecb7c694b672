package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteError(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteError(recorder, http.StatusTeapot, "something happened")

	if recorder.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := strings.TrimSpace(recorder.Body.String()); body != `{"error":"something happened"}` {
		t.Errorf("body = %s", body)
	}
}

func TestCommonErrorWriters(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, string)
		status int
	}{
		{"BadRequest", WriteBadRequest, http.StatusBadRequest},
		{"TooManyRequests", WriteTooManyRequests, http.StatusTooManyRequests},
		{"InternalError", WriteInternalError, http.StatusInternalServerError},
		{"BadGateway", WriteBadGateway, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			tt.write(recorder, "msg")
			if recorder.Code != tt.status {
				t.Errorf("status = %d, want %d", recorder.Code, tt.status)
			}
		})
	}
}
