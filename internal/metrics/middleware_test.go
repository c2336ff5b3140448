package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/mappings/{name}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	r.Post("/queries/compile", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	return r
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	h := newRouter()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/mappings/{name}", "200"))

	for _, name := range []string{"my_doc", "other_doc"} {
		req := httptest.NewRequest("GET", "/mappings/"+name, http.NoBody)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/mappings/{name}", "200"))
	if after-before != 2 {
		t.Errorf("requests_total delta = %v, want 2", after-before)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds observations")
	}
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	h := newRouter()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/queries/compile", "400"))

	req := httptest.NewRequest("POST", "/queries/compile", http.NoBody)
	h.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/queries/compile", "400"))
	if after-before != 1 {
		t.Errorf("requests_total delta = %v, want 1", after-before)
	}
}

func TestMiddleware_OutsideRouter(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "204"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x", http.NoBody))

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "204"))
	if after-before != 1 {
		t.Errorf("requests_total delta = %v, want 1", after-before)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()
}
