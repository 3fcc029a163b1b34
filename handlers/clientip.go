package handlers

import (
	"net"
	"net/http"
	"strings"
)

// ClientIPResolver extracts the client address recorded on audit rows.
type ClientIPResolver func(r *http.Request) string

// ClientIP is the resolver in effect. Deployments behind a different
// proxy topology swap this at startup.
var ClientIP ClientIPResolver = ForwardedForResolver

// ForwardedForResolver prefers the first X-Forwarded-For entry and
// falls back to the connection address.
func ForwardedForResolver(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
