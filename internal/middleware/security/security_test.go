package security

import (
	"bytes"
	"crypto/tls"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDetector_Reason(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		userAgent  string
		suspicious bool
	}{
		{"normal analytics call", http.MethodPost, "/analytics", "artha-client/1.0", false},
		{"curl is fine", http.MethodGet, "/wisdom?context=general", "curl/8.0", false},
		{"path traversal", http.MethodGet, "/expenses/../../etc/passwd", "", true},
		{"dotenv probe", http.MethodGet, "/.env", "", true},
		{"sql in query", http.MethodGet, "/wisdom?context=1%20union%20select", "", true},
		{"scanner agent", http.MethodGet, "/healthz", "sqlmap/1.7", true},
		{"trace method", "TRACE", "/", "", true},
	}

	d := NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://localhost"+tt.target, nil)
			req.Header.Set("User-Agent", tt.userAgent)
			reason := d.Reason(req)
			if (reason != "") != tt.suspicious {
				t.Errorf("Reason() = %q, suspicious want %v", reason, tt.suspicious)
			}
		})
	}
}

func TestDetector_MiddlewareLogsAndPasses(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	d := NewDetector()

	called := false
	h := d.Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wp-admin", nil))

	if !called {
		t.Fatal("suspicious request must still reach the handler")
	}
	if !strings.Contains(buf.String(), "Suspicious request") {
		t.Errorf("expected warning log, got %q", buf.String())
	}
	if got := d.GetMetrics().SuspiciousRequests; got != 1 {
		t.Errorf("SuspiciousRequests = %d, want 1", got)
	}
}

func TestDetector_ExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"direct public peer", "203.0.113.5:4000", "198.51.100.1", "", "203.0.113.5"},
		{"trusted proxy xff", "10.0.0.2:4000", "198.51.100.1, 10.0.0.2", "", "198.51.100.1"},
		{"trusted proxy real ip", "127.0.0.1:4000", "", "198.51.100.7", "198.51.100.7"},
		{"bad xff falls back", "192.168.1.1:80", "not-an-ip", "", "192.168.1.1"},
		{"no port", "203.0.113.9", "", "", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := d.ExtractClientIP(req); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddTrustedProxy(t *testing.T) {
	d := NewDetector()
	if err := d.AddTrustedProxy("nope"); err == nil {
		t.Error("expected error for invalid CIDR")
	}
	if err := d.AddTrustedProxy("203.0.113.0/24"); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.10:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.2")
	if got := d.ExtractClientIP(req); got != "198.51.100.2" {
		t.Errorf("ExtractClientIP() = %q", got)
	}
}

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("nosniff missing")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("Cache-Control missing")
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "https://localhost/", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !strings.HasPrefix(rec.Header().Get("Strict-Transport-Security"), "max-age=31536000") {
		t.Errorf("HSTS = %q", rec.Header().Get("Strict-Transport-Security"))
	}
}
