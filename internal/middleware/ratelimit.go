package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"gaiaterm/internal/services"
	"gaiaterm/pkg/oracle"
)

// RateLimit applies a fixed-window per-IP limit backed by the cache.
// When the cache is unreachable the request is allowed through.
func RateLimit(cache services.Cache, limit int, window time.Duration, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		count, err := cache.Incr(r.Context(), "ratelimit:turn:"+ip, window)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if count > int64(limit) {
			logger.Warn("Rate limit exceeded", "ip", ip, "count", count)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(oracle.ErrorResponse{
				Error:   "Too many requests.",
				Details: "The narrative core needs a moment. Try again shortly.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP resolves the caller address, preferring the first hop of
// X-Forwarded-For.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
