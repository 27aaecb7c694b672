package http

import (
	"net/http"
	"strings"
)

// FallbackClientID identifies requests that carry no forwarded-for
// header (direct traffic, local development, health probes).
const FallbackClientID = "local"

// ClientID derives the ledger key for a request: the first address in
// X-Forwarded-For, or FallbackClientID when the header is absent.
//
// The value is taken as-is. It is an abuse-mitigation key, not a
// verified identity; a client in control of its own headers can spoof it
// in topologies without a trusted proxy in front.
func ClientID(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return FallbackClientID
	}

	// The header may list proxy hops: "client, proxy1, proxy2"
	if i := strings.IndexByte(xff, ','); i >= 0 {
		xff = xff[:i]
	}

	return strings.TrimSpace(xff)
}
