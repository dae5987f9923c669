package alert

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Webhook POSTs alerts to an HTTP endpoint. The request shape follows ntfy:
// the body is the message text and the title travels in a header, so a
// topic URL such as https://ntfy.sh/my-rest-timer works as-is.
type Webhook struct {
	url        string
	attempts   int
	backoff    time.Duration
	httpClient *http.Client
}

// NewWebhook creates a webhook alerter. attempts < 1 is treated as 1.
func NewWebhook(url string, timeout time.Duration, attempts int) *Webhook {
	return &Webhook{
		url:        url,
		attempts:   max(attempts, 1),
		backoff:    500 * time.Millisecond,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Alert sends the alert, retrying with exponential backoff.
func (w *Webhook) Alert(ctx context.Context, a Alert) error {
	var lastErr error
	for attempt := range w.attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("webhook alert: %w", ctx.Err())
			case <-time.After(w.backoff << uint(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, strings.NewReader(a.Body))
		if err != nil {
			return fmt.Errorf("webhook alert: create request: %w", err)
		}
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
		req.Header.Set("Title", a.Title)
		req.Header.Set("Tags", "stopwatch")
		req.Header.Set("Priority", "high")

		resp, err := w.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return fmt.Errorf("webhook alert after %d attempts: %w", w.attempts, lastErr)
}
