package audit

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the originating client address of a request.
// Proxy headers win over RemoteAddr, with X-Forwarded-For yielding the
// first hop in its chain.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if chain := r.Header.Get("X-Forwarded-For"); chain != "" {
		first, _, _ := strings.Cut(chain, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
