package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when webhook url missing")
	}
}

func TestFormatMessageIncludesFields(t *testing.T) {
	msg := formatMessage(notify.InterviewScheduledPayload{
		ApplicationID: "app-1",
		CandidateID:   "cand-1",
		JobID:         "job-1",
		InterviewDate: "2025-04-01",
		InterviewTime: "10:00",
		InterviewMode: "video",
		InterviewLink: "https://meet.example/x",
		OccurredAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	if msg["event"] != "interview_scheduled" {
		t.Fatalf("expected interview_scheduled event, got %v", msg["event"])
	}
	if msg["application_id"] != "app-1" {
		t.Fatalf("expected application id, got %v", msg["application_id"])
	}
	if msg["link"] != "https://meet.example/x" {
		t.Fatalf("expected link, got %v", msg["link"])
	}
	if _, ok := msg["venue"]; ok {
		t.Fatal("venue should be omitted when empty")
	}
	if msg["occurred_at"] != "2025-03-01T12:00:00Z" {
		t.Fatalf("unexpected occurred_at: %v", msg["occurred_at"])
	}
}

func TestFormatMessageReschedule(t *testing.T) {
	msg := formatMessage(notify.InterviewScheduledPayload{
		ApplicationID:    "app-1",
		InterviewMode:    "in-person",
		InterviewVenue:   "HQ, Floor 4",
		IsReschedule:     true,
		RescheduleReason: "panel conflict",
	})

	if msg["event"] != "interview_rescheduled" {
		t.Fatalf("expected interview_rescheduled event, got %v", msg["event"])
	}
	if msg["venue"] != "HQ, Floor 4" {
		t.Fatalf("expected venue, got %v", msg["venue"])
	}
	if msg["reschedule_reason"] != "panel conflict" {
		t.Fatalf("expected reschedule reason, got %v", msg["reschedule_reason"])
	}
}

func TestSendInterviewScheduled(t *testing.T) {
	var received atomic.Int32
	var gotAuth atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		gotAuth.Store(r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var msg map[string]any
		if err := json.Unmarshal(body, &msg); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if msg["event"] != "interview_scheduled" {
			t.Errorf("unexpected event: %v", msg["event"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		URL:       server.URL,
		AuthToken: "secret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = client.SendInterviewScheduled(context.Background(), notify.InterviewScheduledPayload{
		ApplicationID: "app-1",
	})
	if err != nil {
		t.Fatalf("send error: %v", err)
	}

	if received.Load() != 1 {
		t.Fatalf("expected 1 request, got %d", received.Load())
	}
	if gotAuth.Load() != "Bearer secret" {
		t.Fatalf("expected bearer token header, got %v", gotAuth.Load())
	}
}

func TestSendInterviewScheduledRetries(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		URL:        server.URL,
		RetryLimit: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = client.SendInterviewScheduled(context.Background(), notify.InterviewScheduledPayload{})
	if err != nil {
		t.Fatalf("send error after retries: %v", err)
	}
	if attempts.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestSendInterviewScheduledExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		URL:        server.URL,
		RetryLimit: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = client.SendInterviewScheduled(context.Background(), notify.InterviewScheduledPayload{})
	if err == nil {
		t.Fatal("expected error when all attempts fail")
	}
}
