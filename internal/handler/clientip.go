package handler

import (
	"net"
	"net/http"
	"strings"
)

// getClientIP extracts the caller's address from the request. With
// trustProxy set it honours X-Forwarded-For (first hop) and X-Real-IP from a
// reverse proxy; otherwise only RemoteAddr is used.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// Check X-Forwarded-For first (may contain multiple IPs)
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// Take the first IP (original client)
			if idx := strings.Index(xff, ","); idx >= 0 {
				if first := strings.TrimSpace(xff[:idx]); first != "" {
					return first
				}
			} else if ip := strings.TrimSpace(xff); ip != "" {
				return ip
			}
		}

		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	// Fall back to RemoteAddr (may include port)
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NetworkKeyFunc returns the function used to key requests by caller network
func NetworkKeyFunc(trustProxy bool) func(*http.Request) string {
	return func(r *http.Request) string {
		return getClientIP(r, trustProxy)
	}
}
