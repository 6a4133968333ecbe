// Package webhook delivers signed job results to the caller-supplied URL.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vodforge/logger"
	"vodforge/models"
)

// SignatureHeader carries the hex HMAC-SHA256 of the exact payload bytes.
const SignatureHeader = "X-Vodforge-Signature"

const deliveryTimeout = 30 * time.Second

// Error reports a failed result delivery.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("webhook %s: %v", e.URL, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Sign computes the hex HMAC-SHA256 of payload under secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Deliver serializes the result, signs the serialized bytes, and POSTs them.
// A transport error or non-2xx response is a delivery failure.
func Deliver(ctx context.Context, url, secret string, result models.JobResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return &Error{URL: url, Err: fmt.Errorf("marshal result: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Vodforge/1.0")
	req.Header.Set(SignatureHeader, Sign(payload, secret))

	client := &http.Client{Timeout: deliveryTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{URL: url, Err: fmt.Errorf("non-2xx status: %d", resp.StatusCode)}
	}

	logger.Infof("Delivered %s webhook for media %s", result.Status, result.MediaID)
	return nil
}
