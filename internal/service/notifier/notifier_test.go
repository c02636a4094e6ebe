package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/notify"
)

func TestServiceNotifyInterviewScheduled(t *testing.T) {
	ctx := context.Background()

	var received []notify.InterviewScheduledPayload
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{
				Name: "capture",
				Sink: notify.SinkFunc(func(ctx context.Context, payload notify.InterviewScheduledPayload) error {
					received = append(received, payload)
					return nil
				}),
			},
		},
	})

	svc.NotifyInterviewScheduled(ctx, notify.InterviewScheduledPayload{
		ApplicationID: "app-1",
		CandidateID:   "cand-1",
		InterviewDate: "2025-04-01",
		InterviewTime: "10:00",
	})

	if len(received) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(received))
	}
	if received[0].ApplicationID != "app-1" {
		t.Fatalf("unexpected payload: %+v", received[0])
	}
}

func TestServiceFansOutToAllSinks(t *testing.T) {
	var first, second int
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{
				Name: "first",
				Sink: notify.SinkFunc(func(ctx context.Context, payload notify.InterviewScheduledPayload) error {
					first++
					return nil
				}),
			},
			{
				Name: "second",
				Sink: notify.SinkFunc(func(ctx context.Context, payload notify.InterviewScheduledPayload) error {
					second++
					return errors.New("boom")
				}),
			},
		},
	})

	svc.NotifyInterviewScheduled(context.Background(), notify.InterviewScheduledPayload{ApplicationID: "app-1"})

	if first != 1 || second != 1 {
		t.Fatalf("expected both sinks called once, got first=%d second=%d", first, second)
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(Options{})
	if svc.Enabled() {
		t.Fatal("expected Enabled() to be false when no sinks registered")
	}
}

func TestServiceSkipsNilSinks(t *testing.T) {
	svc := NewService(Options{
		Sinks: []SinkRegistration{
			{Name: "nil", Sink: nil},
		},
	})
	if svc.Enabled() {
		t.Fatal("expected nil sinks to be dropped")
	}
	// Must not panic with no sinks.
	svc.NotifyInterviewScheduled(context.Background(), notify.InterviewScheduledPayload{})
}
