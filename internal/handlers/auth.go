package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/osanchez/portfolio-gateway/internal/models"
	"github.com/osanchez/portfolio-gateway/internal/upstream"
	pkghttp "github.com/osanchez/portfolio-gateway/pkg/http"
)

// LoginGateInterface defines the gate the handler sits behind
type LoginGateInterface interface {
	Login(ctx context.Context, clientID string, body []byte) (*upstream.Response, error)
}

// AuthHandler handles the gated login endpoint
type AuthHandler struct {
	gate LoginGateInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(gate LoginGateInterface) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// LoginRequest represents the request body for login. The credentials are
// opaque to the gate and forwarded as-is; validation only guards against
// obviously malformed submissions.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login gates a login attempt and relays the upstream verdict
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	var req LoginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	resp, err := h.gate.Login(r.Context(), pkghttp.ClientID(r), body)
	if err != nil {
		var rle *models.RateLimitedError
		if errors.As(err, &rle) {
			writeRateLimited(w, rle)
			return
		}
		pkghttp.WriteInternalError(w, "Error interno del proxy de autenticación")
		return
	}

	relay(w, resp)
}
