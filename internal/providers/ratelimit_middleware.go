package providers

import "net/http"

// RateLimitMiddleware applies the broad API tier to every request before
// it reaches a controller. Tier-specific ceilings (survey, auth, rgpd)
// are enforced inside the controllers on top of this one.
func RateLimitMiddleware(limiter RateLimiterInterface, metrics MetricsProviderInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := limiter.Allow(TierAPI, GetClientIP(r))
		if !decision.Allowed {
			metrics.IncRateLimited(TierAPI)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":"` + decision.Message + `"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClientIP extracts the client address: first X-Forwarded-For hop,
// then X-Real-IP, then RemoteAddr without the port.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' || xff[i] == ' ' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
