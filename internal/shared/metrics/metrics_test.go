package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/healthz":                   "/healthz",
		"/documents":                 "/documents",
		"/documents/analyze":         "/documents/analyze",
		"/documents/storage/stats":   "/documents/storage/stats",
		"/documents/supported-types": "/documents/supported-types",
		"/documents/2f0fce1a-9677-4b51-9a3c-1d2f5a14c001":         "/documents/{document_id}",
		"/documents/2f0fce1a-9677-4b51-9a3c-1d2f5a14c001/actions": "/documents/{document_id}/actions",
	}
	for in, want := range cases {
		if got := normalizePath(in); got != want {
			t.Fatalf("normalizePath(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestMiddlewareRecordsAndServesMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")

	r := gin.New()
	r.Use(m.Middleware("test"))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "docanalyzer_http_requests_total") {
		t.Fatalf("expected request counter in exposition, got:\n%s", body)
	}
}
