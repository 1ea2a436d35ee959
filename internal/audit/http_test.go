package audit

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{name: "forwarded chain wins", forwarded: "203.0.113.7, 10.0.0.1", realIP: "198.51.100.2", remoteAddr: "10.0.0.9:443", want: "203.0.113.7"},
		{name: "real ip fallback", realIP: "198.51.100.2", remoteAddr: "10.0.0.9:443", want: "198.51.100.2"},
		{name: "remote addr host", remoteAddr: "10.0.0.9:443", want: "10.0.0.9"},
		{name: "remote addr without port", remoteAddr: "10.0.0.9", want: "10.0.0.9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := ClientIP(r); got != tc.want {
				t.Fatalf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}

	if got := ClientIP(nil); got != "" {
		t.Fatalf("ClientIP(nil) = %q, want empty", got)
	}
}
