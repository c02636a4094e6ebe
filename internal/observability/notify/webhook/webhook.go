// Package webhook delivers interview notifications to an HTTP webhook.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/notify"
)

// Config captures the webhook endpoint behaviour we need.
type Config struct {
	URL        string
	AuthToken  string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client posts interview notifications to a configured webhook endpoint.
type Client struct {
	url        string
	authToken  string
	retryLimit int
	client     *http.Client
}

var _ notify.Sink = (*Client)(nil)

// NewClient builds a webhook client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, errors.New("webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		url:        endpoint,
		authToken:  strings.TrimSpace(cfg.AuthToken),
		retryLimit: retries,
		client:     hc,
	}, nil
}

// SendInterviewScheduled posts the notification, retrying transient failures
// with linear backoff.
func (c *Client) SendInterviewScheduled(ctx context.Context, payload notify.InterviewScheduledPayload) error {
	body, err := json.Marshal(formatMessage(payload))
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		err = c.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < attempts-1 {
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return lastErr
}

func formatMessage(payload notify.InterviewScheduledPayload) map[string]any {
	event := "interview_scheduled"
	if payload.IsReschedule {
		event = "interview_rescheduled"
	}

	timestamp := payload.OccurredAt
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	msg := map[string]any{
		"event":          event,
		"application_id": payload.ApplicationID,
		"candidate_id":   payload.CandidateID,
		"job_id":         payload.JobID,
		"interview_date": payload.InterviewDate,
		"interview_time": payload.InterviewTime,
		"interview_mode": payload.InterviewMode,
		"occurred_at":    timestamp.UTC().Format(time.RFC3339),
	}
	if payload.InterviewVenue != "" {
		msg["venue"] = payload.InterviewVenue
	}
	if payload.InterviewLink != "" {
		msg["link"] = payload.InterviewLink
	}
	if payload.RescheduleReason != "" {
		msg["reschedule_reason"] = payload.RescheduleReason
	}
	return msg
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp)
	}

	return drainSuccess(resp)
}

func drainSuccess(resp *http.Response) error {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("drain webhook response body: %w", err),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("drain webhook response body: %w", err)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}
	return nil
}

func (c *Client) handleErrorResponse(resp *http.Response) error {
	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("read webhook error response: %w", readErr),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("read webhook error response: %w", readErr)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return fmt.Errorf("webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
}
