package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_ResolutionsTotal(t *testing.T) {
	before := getCounterVecValue(ResolutionsTotal, "resolved")
	ResolutionsTotal.WithLabelValues("resolved").Inc()
	after := getCounterVecValue(ResolutionsTotal, "resolved")

	if after != before+1 {
		t.Errorf("Expected resolved counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_ProviderAttemptsTotal(t *testing.T) {
	before := getCounterVecValue(ProviderAttemptsTotal, "flixhq", "vidcloud", ResultEmpty)
	ProviderAttemptsTotal.WithLabelValues("flixhq", "vidcloud", ResultEmpty).Inc()
	after := getCounterVecValue(ProviderAttemptsTotal, "flixhq", "vidcloud", ResultEmpty)

	if after != before+1 {
		t.Errorf("Expected provider attempts to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_UpstreamRequestDuration(t *testing.T) {
	UpstreamRequestDuration.WithLabelValues("test-upstream").Observe(0.3)

	o, err := UpstreamRequestDuration.GetMetricWithLabelValues("test-upstream")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var m dto.Metric
	if err := o.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.GetHistogram().GetSampleCount() < 1 {
		t.Errorf("Expected at least one observation, got %d", m.GetHistogram().GetSampleCount())
	}
}

func TestMetrics_NewHTTPServer(t *testing.T) {
	srv := NewHTTPServer("localhost", 9090)

	if srv.Addr != "localhost:9090" {
		t.Errorf("Expected address 'localhost:9090', got '%s'", srv.Addr)
	}

	if srv.Handler == nil {
		t.Error("Expected handler to be set")
	}
}

func TestMetrics_NewHTTPServer_DefaultPort(t *testing.T) {
	srv := NewHTTPServer("0.0.0.0", 0)

	if srv.Addr != "0.0.0.0:9090" {
		t.Errorf("Expected address '0.0.0.0:9090', got '%s'", srv.Addr)
	}
}

func TestMetrics_InstrumentHandler(t *testing.T) {
	h := InstrumentHandler("test_route", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := getCounterVecValue(httpRequestsTotal, "test_route", "get", "418")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	after := getCounterVecValue(httpRequestsTotal, "test_route", "get", "418")

	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected wrapped handler status 418, got %d", rec.Code)
	}
	if after != before+1 {
		t.Errorf("Expected request counter to increment by 1, got diff %.0f", after-before)
	}
}
