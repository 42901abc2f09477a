package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SignatureHeader carries the HMAC-SHA256 of the body when a secret is configured.
const SignatureHeader = "X-Poller-Signature"

// Webhook posts events as JSON to an HTTP endpoint, e.g. an Argo Events webhook EventSource.
type Webhook struct {
	endpoint string
	secret   string
	client   *http.Client
	log      *slog.Logger
}

// NewWebhook returns a Notifier for endpoint. secret is optional.
func NewWebhook(endpoint, secret string, timeout time.Duration) (*Webhook, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errors.New("webhook endpoint is empty")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Webhook{
		endpoint: trimmed,
		secret:   secret,
		client:   &http.Client{Timeout: timeout},
		log:      slog.Default(),
	}, nil
}

// Emit implements Notifier. Any non-2xx status is a DeliveryError.
func (w *Webhook) Emit(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return &DeliveryError{Endpoint: w.endpoint, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Endpoint: w.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if w.secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+Sign(w.secret, body))
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return &DeliveryError{Endpoint: w.endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &DeliveryError{Endpoint: w.endpoint, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}
	w.log.Debug("webhook delivered", "endpoint", w.endpoint, "status", resp.StatusCode)
	return nil
}

// Sign returns the hex HMAC-SHA256 of body keyed by secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
