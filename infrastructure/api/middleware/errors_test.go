package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/curatehq/curate/application/service"
	"github.com/curatehq/curate/infrastructure/api/jsonapi"
)

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"source not found", service.ErrSourceNotFound, http.StatusUnprocessableEntity},
		{"embedding unavailable", service.ErrEmbeddingUnavailable, http.StatusServiceUnavailable},
		{"store unavailable", service.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"client closed", service.ErrClientClosed, http.StatusServiceUnavailable},
		{"unknown", errors.New("disk exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
			w := httptest.NewRecorder()
			WriteError(w, req, tc.err, nil)

			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var doc jsonapi.Document
			if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
				t.Fatalf("decode error document: %v", err)
			}
			if len(doc.Errors) != 1 {
				t.Fatalf("errors = %d, want 1", len(doc.Errors))
			}
		})
	}
}

func TestWriteError_WrappedErrorsStillMap(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/items/x", nil)
	w := httptest.NewRecorder()
	WriteError(w, req, fmt.Errorf("delete item: %w", service.ErrForbidden), nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestWriteError_InternalDetailNotLeaked(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	w := httptest.NewRecorder()
	WriteError(w, req, errors.New("pq: connection refused at 10.0.0.3"), nil)

	if strings.Contains(w.Body.String(), "10.0.0.3") {
		t.Error("internal error detail leaked to the response body")
	}
}

func TestWriteJSON_NilPayload(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusNoContent, nil)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}
