package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/pointage-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/ratelimit"
)

// RateLimit counts requests per client IP. It expects chi's RealIP middleware
// to have normalised RemoteAddr. A limiter failure lets the request through.
func RateLimit(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				slog.Error("Rate limiter unavailable", "client_ip", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
				slog.Warn("Rate limit exceeded", "client_ip", key, "path", r.URL.Path)
				response.TooManyRequests(w, "Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
