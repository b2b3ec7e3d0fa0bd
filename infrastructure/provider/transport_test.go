package provider

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newCountingServer(count *atomic.Int32, status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func postThrough(t *testing.T, transport *CachingTransport, url, body string) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := transport.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestCachingTransport_CachesRepeatRequests(t *testing.T) {
	var count atomic.Int32
	srv := newCountingServer(&count, http.StatusOK, `{"result":"ok"}`)
	defer srv.Close()

	transport := NewCachingTransport(t.TempDir(), srv.Client().Transport)

	first := postThrough(t, transport, srv.URL+"/v1/embeddings", `{"input":"hello"}`)
	second := postThrough(t, transport, srv.URL+"/v1/embeddings", `{"input":"hello"}`)

	if first != `{"result":"ok"}` || second != `{"result":"ok"}` {
		t.Errorf("unexpected bodies: %q, %q", first, second)
	}
	if count.Load() != 1 {
		t.Errorf("expected 1 upstream call, got %d", count.Load())
	}
}

func TestCachingTransport_DistinctBodiesMiss(t *testing.T) {
	var count atomic.Int32
	srv := newCountingServer(&count, http.StatusOK, `{"result":"ok"}`)
	defer srv.Close()

	transport := NewCachingTransport(t.TempDir(), srv.Client().Transport)

	postThrough(t, transport, srv.URL+"/v1/embeddings", `{"input":"hello"}`)
	postThrough(t, transport, srv.URL+"/v1/embeddings", `{"input":"world"}`)

	if count.Load() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", count.Load())
	}
}

func TestCachingTransport_DoesNotCacheErrors(t *testing.T) {
	var count atomic.Int32
	srv := newCountingServer(&count, http.StatusInternalServerError, `{"error":"boom"}`)
	defer srv.Close()

	transport := NewCachingTransport(t.TempDir(), srv.Client().Transport)

	postThrough(t, transport, srv.URL+"/v1/embeddings", `{"input":"hello"}`)
	postThrough(t, transport, srv.URL+"/v1/embeddings", `{"input":"hello"}`)

	if count.Load() != 2 {
		t.Errorf("expected 2 upstream calls, got %d", count.Load())
	}
}
