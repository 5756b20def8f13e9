package rpc

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"counter-contract/go-backend/internal/platform/ratelimiter"

	"github.com/prometheus/client_golang/prometheus"
)

const healthBody = `{"jsonrpc":"2.0","id":1,"method":"health_check"}`

func TestRPCRequiresConfiguredToken(t *testing.T) {
	s := newTestServer(t, Options{RPCToken: "secret-token"})
	if rec := rpcCall(t, s, healthBody, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := rpcCall(t, s, healthBody, "wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}
	if rec := rpcCall(t, s, healthBody, "secret-token"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewBufferString(healthBody))
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	s.HandleRPC(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected bearer token to be accepted, got %d", rec.Code)
	}
}

func TestExtractRPCTokenPrefersCustomHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/rpc", nil)
	req.Header.Set(rpcTokenHeader, "header-token")
	req.Header.Set("Authorization", "Bearer bearer-token")
	s := &Server{}
	if got := s.extractRPCToken(req); got != "header-token" {
		t.Fatalf("expected header token, got %q", got)
	}
	req.Header.Del(rpcTokenHeader)
	if got := s.extractRPCToken(req); got != "bearer-token" {
		t.Fatalf("expected bearer token, got %q", got)
	}
	req.Header.Set("Authorization", "Basic abc")
	if got := s.extractRPCToken(req); got != "" {
		t.Fatalf("expected no token for basic auth, got %q", got)
	}
}

func TestRPCRejectsNonPost(t *testing.T) {
	s := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodGet, "/rpc", nil)
	rec := httptest.NewRecorder()
	s.HandleRPC(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRPCClientRateLimit(t *testing.T) {
	s := newTestServer(t, Options{ClientLimiter: ratelimiter.New(0.001, 2, time.Minute)})
	for i := 0; i < 2; i++ {
		if rec := rpcCall(t, s, healthBody, ""); rec.Code != http.StatusOK {
			t.Fatalf("expected call %d to pass, got %d", i, rec.Code)
		}
	}
	if rec := rpcCall(t, s, healthBody, ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRPCRateLimitKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/rpc", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	if got := rpcRateLimitKey(req, ""); got != "ip:10.0.0.7" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := rpcRateLimitKey(req, "tok"); got != "token:tok" {
		t.Fatalf("unexpected key %q", got)
	}
	req.RemoteAddr = "garbage"
	if got := rpcRateLimitKey(req, ""); got != "ip:garbage" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestMetricsRouteIsTokenProtected(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "counter_host_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()
	s := newTestServer(t, Options{RPCToken: "tok", Gatherer: reg})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req.Header.Set(rpcTokenHeader, "tok")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "counter_host_test_total 1") {
		t.Fatalf("unexpected metrics response %d: %s", rec.Code, rec.Body.String())
	}
}
