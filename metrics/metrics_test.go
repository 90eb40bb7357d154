package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestWrapCountsByRouteAndCode(t *testing.T) {
	r := New()

	ok := r.Wrap("video", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "{}")
	}))
	missing := r.Wrap("video", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	silent := r.Wrap("healthz", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	for _, h := range []http.Handler{ok, ok, missing, silent} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	body := scrape(t, r)
	assert.Contains(t, body, `gateway_requests_total{code="200",route="video"} 2`)
	assert.Contains(t, body, `gateway_requests_total{code="404",route="video"} 1`)
	assert.Contains(t, body, `gateway_requests_total{code="200",route="healthz"} 1`)
	assert.Contains(t, body, `gateway_request_duration_seconds_count{route="video"} 3`)
}

func TestWrapPassesResponseThrough(t *testing.T) {
	r := New()
	h := r.Wrap("search", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK) // ignored
		_, _ = io.WriteString(w, "short and stout")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
	assert.Contains(t, scrape(t, r), `gateway_requests_total{code="418",route="search"} 1`)
}

func TestObserveRelay(t *testing.T) {
	r := New()
	r.ObserveRelay("streamed", 1024)
	r.ObserveRelay("streamed", 10)
	r.ObserveRelay("not_found", 0)

	body := scrape(t, r)
	assert.Contains(t, body, "gateway_relay_bytes_total 1034")
	assert.Contains(t, body, `gateway_relay_outcomes_total{outcome="streamed"} 2`)
	assert.Contains(t, body, `gateway_relay_outcomes_total{outcome="not_found"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveRelay("streamed", 7)

	assert.Contains(t, scrape(t, a), "gateway_relay_bytes_total 7")
	assert.Contains(t, scrape(t, b), "gateway_relay_bytes_total 0")
}
