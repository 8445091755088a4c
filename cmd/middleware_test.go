package main

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"travelFront/internal/repositories"
)

func TestIPLimiterPerAddress(t *testing.T) {
	l := newIPLimiter(rate.Limit(1), 2)
	now := time.Now()

	if !l.allow("10.0.0.1", now) || !l.allow("10.0.0.1", now) {
		t.Fatalf("expected burst of 2 to pass")
	}
	if l.allow("10.0.0.1", now) {
		t.Fatalf("expected third request to be limited")
	}
	if !l.allow("10.0.0.2", now) {
		t.Fatalf("expected another address to have its own bucket")
	}
	if !l.allow("10.0.0.1", now.Add(time.Second)) {
		t.Fatalf("expected a token after one second")
	}

	if n := l.sweep(now.Add(limiterIdle + 2*time.Second)); n != 2 {
		t.Fatalf("expected 2 idle visitors swept, got %d", n)
	}
}

func TestClientIP(t *testing.T) {
	trusted, err := parseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.10"})
	if err != nil {
		t.Fatalf("parse trusted proxies: %v", err)
	}

	tests := []struct {
		name   string
		remote string
		fwd    string
		want   string
	}{
		{"direct peer", "198.51.100.4:5555", "", "198.51.100.4"},
		{"spoofed header from untrusted peer", "198.51.100.4:5555", "203.0.113.7", "198.51.100.4"},
		{"trusted proxy", "192.0.2.10:443", "203.0.113.7", "203.0.113.7"},
		{"client prepends a fake hop", "10.1.2.3:443", "1.1.1.1, 203.0.113.7, 10.0.0.5", "203.0.113.7"},
		{"only trusted hops", "10.1.2.3:443", "10.0.0.5", "10.0.0.5"},
		{"trusted proxy without header", "192.0.2.10:443", "", "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.fwd != "" {
				r.Header.Set("X-Forwarded-For", tt.fwd)
			}
			if got := clientIP(r, trusted); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseTrustedProxiesRejectsGarbage(t *testing.T) {
	if _, err := parseTrustedProxies([]string{"proxy.local"}); err == nil {
		t.Fatalf("expected an error for a host name")
	}
	if _, err := parseTrustedProxies([]string{"10.0.0.0/33"}); err == nil {
		t.Fatalf("expected an error for a bad CIDR")
	}
}

func TestLimitRateIgnoresUntrustedForwardedFor(t *testing.T) {
	app := &application{
		infoLog:  log.New(io.Discard, "", 0),
		errorLog: log.New(io.Discard, "", 0),
		limiter:  newIPLimiter(rate.Limit(1), 1),
	}
	h := app.limitRate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 2)
	for _, fwd := range []string{"203.0.113.1", "203.0.113.2"} {
		r := httptest.NewRequest(http.MethodGet, "/api/suggestions?query=mo", nil)
		r.RemoteAddr = "198.51.100.4:5555"
		r.Header.Set("X-Forwarded-For", fwd)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected [200 429], got %v", codes)
	}
}

func TestLimitRateRejects(t *testing.T) {
	app := &application{
		infoLog:  log.New(io.Discard, "", 0),
		errorLog: log.New(io.Discard, "", 0),
		limiter:  newIPLimiter(rate.Limit(1), 1),
	}
	h := app.limitRate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/suggestions?query=mo", nil))
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected [200 429], got %v", codes)
	}
}

func TestRecoverPanic(t *testing.T) {
	app := &application{
		infoLog:  log.New(io.Discard, "", 0),
		errorLog: log.New(io.Discard, "", 0),
	}
	h := app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if rr.Header().Get("Connection") != "close" {
		t.Fatalf("expected Connection: close")
	}
}

func TestSweeperFor(t *testing.T) {
	if sweeperFor(repositories.NewMemoryStore()) == nil {
		t.Fatalf("expected a sweeper for the memory store")
	}
	if sweeperFor(repositories.NewS3Store(nil, "bucket", "")) == nil {
		t.Fatalf("expected a sweeper for the s3 store")
	}
	if sweeperFor(repositories.NewRedisStore(nil, "")) != nil {
		t.Fatalf("expected redis to expire entries itself")
	}
}
