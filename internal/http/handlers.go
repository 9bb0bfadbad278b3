package http

import (
	"net/http"

	"artha/internal/cache"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := s.storeContext(r)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", "error", err)
			writeDetail(w, http.StatusServiceUnavailable, "record store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type metricsResponse struct {
	Requests           int64  `json:"requests"`
	AvgResponseMicros  int64  `json:"avg_response_us"`
	Panics             int64  `json:"panics"`
	RateLimitAllowed   int64  `json:"rate_limit_allowed"`
	RateLimitRejected  int64  `json:"rate_limit_rejected"`
	RateLimitClients   int64  `json:"rate_limit_clients"`
	SuspiciousRequests int64  `json:"suspicious_requests"`
	CacheHits          uint64 `json:"cache_hits"`
	CacheMisses        uint64 `json:"cache_misses"`
	CacheSize          int    `json:"cache_size"`
}

type cacheStatser interface {
	CacheStats() cache.Stats
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tm := s.tracer.GetMetrics()
	rm := s.limiter.GetMetrics()
	sm := s.detector.GetMetrics()
	resp := metricsResponse{
		Requests:           tm.TotalRequests,
		AvgResponseMicros:  tm.AverageResponseTime,
		Panics:             tm.Panics,
		RateLimitAllowed:   rm.Allowed,
		RateLimitRejected:  rm.Rejected,
		RateLimitClients:   rm.ClientCount,
		SuspiciousRequests: sm.SuspiciousRequests,
	}
	if cs, ok := s.analytics.(cacheStatser); ok {
		st := cs.CacheStats()
		resp.CacheHits, resp.CacheMisses, resp.CacheSize = st.Hits, st.Misses, st.Size
	}
	writeJSON(w, http.StatusOK, resp)
}
