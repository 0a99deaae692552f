// Package recaptcha verifies client-submitted proof tokens against the
// external bot-verification service. Any failure of the outbound call
// (timeout, transport error, malformed response) counts as "not verified".
package recaptcha

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// VerifyURL is the siteverify endpoint of the external service.
const VerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks a client-submitted proof token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) bool
}

// Client calls the siteverify endpoint with a bounded timeout.
type Client struct {
	secret     string
	endpoint   string
	httpClient *http.Client
}

// New returns a client that verifies tokens with the given secret. The
// timeout bounds the whole outbound call.
func New(secret string, timeout time.Duration) *Client {
	return &Client{
		secret:     secret,
		endpoint:   VerifyURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type verifyResponse struct {
	Success bool `json:"success"`
}

// Verify submits the token for verification. It returns true only when the
// service responds in time and reports success; a single failure is final,
// the call is never retried.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) bool {
	form := url.Values{
		"secret":   {c.secret},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("recaptcha verification call failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("recaptcha verification rejected", "status", resp.StatusCode)
		return false
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Warn("recaptcha verification response malformed", "error", err)
		return false
	}
	return result.Success
}
