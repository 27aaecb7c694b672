package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/osanchez/portfolio-gateway/internal/models"
	"github.com/osanchez/portfolio-gateway/internal/upstream"
	pkghttp "github.com/osanchez/portfolio-gateway/pkg/http"
)

// ContactGateInterface defines the throttle applied to contact submissions
type ContactGateInterface interface {
	Allow(clientID string) error
}

// Forwarder defines the slice of the upstream client the proxy needs
type Forwarder interface {
	Get(ctx context.Context, path, rawQuery, authorization string) (*upstream.Response, error)
	Post(ctx context.Context, path, authorization, contentType string, body io.Reader) (*upstream.Response, error)
	Delete(ctx context.Context, path, authorization string) (*upstream.Response, error)
}

// ProxyHandler relays requests under /api/proxy/* to the upstream API.
// Only POSTs to the configured contact paths pass through the contact
// gate; every other path is forwarded unconditionally.
type ProxyHandler struct {
	forwarder    Forwarder
	contactGate  ContactGateInterface
	contactPaths map[string]struct{}
}

// NewProxyHandler creates a ProxyHandler gating the given contact paths
func NewProxyHandler(forwarder Forwarder, contactGate ContactGateInterface, contactPaths []string) *ProxyHandler {
	paths := make(map[string]struct{}, len(contactPaths))
	for _, p := range contactPaths {
		paths[strings.Trim(p, "/")] = struct{}{}
	}
	return &ProxyHandler{
		forwarder:    forwarder,
		contactGate:  contactGate,
		contactPaths: paths,
	}
}

// Get forwards a read request with its query string
func (h *ProxyHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.forwarder.Get(r.Context(), proxyPath(r), r.URL.RawQuery, r.Header.Get("Authorization"))
	if err != nil {
		pkghttp.WriteBadGateway(w, "Upstream request failed")
		return
	}
	relay(w, resp)
}

// Post forwards a write request, throttling contact submissions first.
// The gate decision happens before the body is read: a throttled client
// costs no parsing and no upstream traffic.
func (h *ProxyHandler) Post(w http.ResponseWriter, r *http.Request) {
	path := proxyPath(r)

	if _, gated := h.contactPaths[path]; gated {
		if err := h.contactGate.Allow(pkghttp.ClientID(r)); err != nil {
			var rle *models.RateLimitedError
			if errors.As(err, &rle) {
				writeRateLimited(w, rle)
				return
			}
			pkghttp.WriteInternalError(w, "Internal error")
			return
		}
	}

	contentType := r.Header.Get("Content-Type")
	var body io.Reader
	if strings.Contains(contentType, "multipart/form-data") {
		// Stream multipart as-is so the boundary survives
		body = r.Body
	} else {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			pkghttp.WriteBadRequest(w, "Invalid request body")
			return
		}
		jsonBody, err := upstream.JSONBody(raw)
		if err != nil {
			pkghttp.WriteBadRequest(w, "Invalid request body")
			return
		}
		body = bytes.NewReader(jsonBody)
	}

	resp, err := h.forwarder.Post(r.Context(), path, r.Header.Get("Authorization"), contentType, body)
	if err != nil {
		pkghttp.WriteBadGateway(w, "Upstream request failed")
		return
	}
	relay(w, resp)
}

// Delete forwards a delete request
func (h *ProxyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resp, err := h.forwarder.Delete(r.Context(), proxyPath(r), r.Header.Get("Authorization"))
	if err != nil {
		pkghttp.WriteBadGateway(w, "Upstream request failed")
		return
	}
	relay(w, resp)
}

// proxyPath extracts the wildcard remainder, normalized without
// surrounding slashes so it matches the contact path set exactly
func proxyPath(r *http.Request) string {
	return strings.Trim(chi.URLParam(r, "*"), "/")
}
