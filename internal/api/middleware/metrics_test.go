package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/media-tracker/internal/api/middleware"
	"github.com/dom/media-tracker/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Metrics)
	r.Get("/api/track/movie/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/track/movie/{id}", "400")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/track/movie/"+id, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
}
