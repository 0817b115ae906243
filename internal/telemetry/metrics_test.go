package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveEdit("google", 200, 12.5)
	m.RateLimited()
	m.AddUploadBytes(1024)
}

func TestMetrics_Exposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveEdit("google", 200, 1500)
	m.ObserveEdit("fal", 500, 250)
	m.RateLimited()
	m.AddUploadBytes(2048)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`frameforge_edit_requests_total{provider="google",status="200"} 1`,
		`frameforge_edit_requests_total{provider="fal",status="500"} 1`,
		`frameforge_rate_limit_hits_total 1`,
		`frameforge_upload_bytes_total 2048`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
