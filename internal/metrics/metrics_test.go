package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/employees/17", nil)
	recorder := httptest.NewRecorder()
	m.Middleware(next).ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/employees/{id}", "404")))
}

func TestRoutePattern(t *testing.T) {
	assert.Equal(t, "/employees", routePattern("/employees"))
	assert.Equal(t, "/employees/{id}", routePattern("/employees/17"))
	assert.Equal(t, "/employees/{id}/address", routePattern("/employees/17/address"))
	assert.Equal(t, "/healthcheck", routePattern("/healthcheck"))
}
