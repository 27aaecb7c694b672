package handlers

import (
	"net/http"
	"strconv"

	"github.com/osanchez/portfolio-gateway/internal/models"
	"github.com/osanchez/portfolio-gateway/internal/upstream"
	pkghttp "github.com/osanchez/portfolio-gateway/pkg/http"
)

// relay writes an upstream response to the caller verbatim: same status
// code, same body, upstream's content type (JSON when it sent none).
func relay(w http.ResponseWriter, resp *upstream.Response) {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// writeRateLimited reports a gate rejection as 429, with Retry-After when
// the gate has a ban timer
func writeRateLimited(w http.ResponseWriter, rle *models.RateLimitedError) {
	if rle.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(rle.RetryAfter.Seconds())))
	}
	pkghttp.WriteTooManyRequests(w, rle.Message)
}
