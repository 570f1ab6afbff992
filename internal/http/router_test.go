package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	api "github.com/rogerio-castellano/steel-quoter/internal/http"
	rl "github.com/rogerio-castellano/steel-quoter/internal/http/rate_limiter"
)

func TestHealthz(t *testing.T) {
	r := api.NewRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), `"ok"`) {
		t.Errorf("Expected ok status, got %s", res.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := api.NewRouter()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/pricing/shapes", nil))

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("Expected 200 OK, got %d", res.Code)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `quoter_http_requests_total{method="GET",route="/api/pricing/shapes",status="200"}`) {
		t.Errorf("Expected request counter for pricing shapes route")
	}
}

func TestRateLimit(t *testing.T) {
	api.SetRateLimit(1, 2)
	t.Cleanup(func() {
		api.SetRateLimit(0, 0)
		rl.CleanupAllVisitors()
	})
	r := api.NewRouter()

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/pricing/shapes", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)
		codes = append(codes, res.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("Expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected 429 on third request, got %d", codes[2])
	}

	// health checks are not limited
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Errorf("Expected healthz to bypass the limiter, got %d", res.Code)
	}
}

func rateLimitedCodes(r http.Handler, forwardedFor ...string) []int {
	codes := make([]int, 0, len(forwardedFor))
	for _, ip := range forwardedFor {
		req := httptest.NewRequest(http.MethodGet, "/api/pricing/shapes", nil)
		req.RemoteAddr = "192.0.2.20:5555"
		req.Header.Set("X-Forwarded-For", ip)
		res := httptest.NewRecorder()
		r.ServeHTTP(res, req)
		codes = append(codes, res.Code)
	}
	return codes
}

func TestRateLimit_IgnoresForwardedForByDefault(t *testing.T) {
	api.SetRateLimit(1, 2)
	t.Cleanup(func() {
		api.SetRateLimit(0, 0)
		rl.CleanupAllVisitors()
	})
	r := api.NewRouter()

	codes := rateLimitedCodes(r, "198.51.100.1", "198.51.100.2", "198.51.100.3")
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected rotating X-Forwarded-For to share one bucket, got %v", codes)
	}
}

func TestRateLimit_TrustProxy(t *testing.T) {
	api.SetRateLimit(1, 2)
	api.SetTrustProxy(true)
	t.Cleanup(func() {
		api.SetRateLimit(0, 0)
		api.SetTrustProxy(false)
		rl.CleanupAllVisitors()
	})
	r := api.NewRouter()

	codes := rateLimitedCodes(r, "198.51.100.1", "198.51.100.2", "198.51.100.3")
	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("Expected request %d from a distinct forwarded client to pass, got %d", i, code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	api.SetAllowedOrigins([]string{"https://quotes.example.com"})
	t.Cleanup(func() { api.SetAllowedOrigins([]string{"http://localhost:5173"}) })
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/quotes", nil)
	req.Header.Set("Origin", "https://quotes.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	if got := res.Header().Get("Access-Control-Allow-Origin"); got != "https://quotes.example.com" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/quotes", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	res = httptest.NewRecorder()
	r.ServeHTTP(res, req)
	if got := res.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no allow-origin header for unknown origin, got %q", got)
	}
}

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	api.SetRequestLogger(logger)
	t.Cleanup(func() { api.SetRequestLogger(nil) })
	r := api.NewRouter()

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/pricing/nope", nil))

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("Expected a log entry")
	}
	if entry.Level != logrus.WarnLevel {
		t.Errorf("Expected warn level for 404, got %s", entry.Level)
	}
	if entry.Data["status"] != http.StatusNotFound {
		t.Errorf("Expected status 404 in log fields, got %v", entry.Data["status"])
	}
	if entry.Data["request_id"] == "" {
		t.Error("Expected request id in log fields")
	}
}
