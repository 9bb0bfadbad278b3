package security

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
)

var suspiciousPatterns = []string{
	"../", "..\\", ".env", "wp-admin", "phpmyadmin",
	"admin.php", "config.php", ".git", ".ssh",
	"eval(", "javascript:", "<script", "union select",
	"etc/passwd", "cmd.exe",
}

var scannerAgents = []string{
	"sqlmap", "nmap", "nikto", "gobuster", "dirb", "masscan", "zgrab",
}

// DetectionMetrics tracks security detection events
type DetectionMetrics struct {
	SuspiciousRequests int64
	InvalidIPAttempts  int64
}

// Detector flags requests that look like probing and resolves client IPs
// behind trusted proxies.
type Detector struct {
	suspicious int64
	invalidIPs int64

	mu             sync.RWMutex
	trustedProxies []*net.IPNet
}

// NewDetector returns a detector trusting loopback and private ranges.
func NewDetector() *Detector {
	return &Detector{
		trustedProxies: []*net.IPNet{
			mustCIDR("127.0.0.0/8"),
			mustCIDR("10.0.0.0/8"),
			mustCIDR("172.16.0.0/12"),
			mustCIDR("192.168.0.0/16"),
			mustCIDR("::1/128"),
		},
	}
}

func mustCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// Reason returns why r looks suspicious, or "" when it does not.
func (d *Detector) Reason(r *http.Request) string {
	path := strings.ToLower(r.URL.Path)
	query := r.URL.RawQuery
	if unescaped, err := url.QueryUnescape(query); err == nil {
		query = unescaped
	}
	query = strings.ToLower(query)
	for _, p := range suspiciousPatterns {
		if strings.Contains(path, p) {
			return "path pattern " + p
		}
		if strings.Contains(query, p) {
			return "query pattern " + p
		}
	}

	ua := strings.ToLower(r.Header.Get("User-Agent"))
	for _, agent := range scannerAgents {
		if strings.Contains(ua, agent) {
			return "scanner user agent " + agent
		}
	}

	switch r.Method {
	case "TRACE", "TRACK", "DEBUG", "CONNECT":
		return "method " + r.Method
	}

	if len(r.URL.String()) > 2048 {
		return "url too long"
	}
	if strings.Count(r.Header.Get("X-Forwarded-For"), ",") > 5 {
		return "too many forwarding hops"
	}
	return ""
}

// Middleware logs suspicious requests. It never blocks them.
func (d *Detector) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if reason := d.Reason(r); reason != "" {
				atomic.AddInt64(&d.suspicious, 1)
				logger.WarnContext(r.Context(), "Suspicious request",
					"reason", reason,
					"method", r.Method,
					"path", r.URL.Path,
					"client_ip", d.ExtractClientIP(r))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractClientIP returns the caller's IP. Forwarding headers are honoured
// only when the direct peer is a trusted proxy.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsed := net.ParseIP(directIP)
	if parsed == nil {
		atomic.AddInt64(&d.invalidIPs, 1)
		return directIP
	}
	if !d.isTrustedProxy(parsed) {
		return directIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
		atomic.AddInt64(&d.invalidIPs, 1)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
		atomic.AddInt64(&d.invalidIPs, 1)
	}
	return directIP
}

func (d *Detector) isTrustedProxy(ip net.IP) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, network := range d.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// GetMetrics returns current security metrics
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		SuspiciousRequests: atomic.LoadInt64(&d.suspicious),
		InvalidIPAttempts:  atomic.LoadInt64(&d.invalidIPs),
	}
}

// AddTrustedProxy adds a trusted proxy network
func (d *Detector) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	d.mu.Lock()
	d.trustedProxies = append(d.trustedProxies, network)
	d.mu.Unlock()
	return nil
}
