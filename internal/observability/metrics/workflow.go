// Package metrics provides standardised emission helpers for the application
// workflow.
package metrics

import (
	"time"

	obserrors "github.com/WhisperedCloud/Job-portal-sub000/internal/observability/errors"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// TransitionMetric captures a single application status transition attempt.
type TransitionMetric struct {
	Event    string
	From     string
	To       string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitTransition emits counters and timings for a workflow transition.
func EmitTransition(sink statsd.Sink, in TransitionMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"event":  in.Event,
		"from":   in.From,
		"to":     in.To,
		"result": in.Result,
	}
	addErrorClass(tags, in.Result, in.Err)

	sink.Count("workflow.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("workflow.transition_duration", in.Duration, CloneTags(tags))
	}
}

// SweepMetric captures the outcome of one missed-interview sweep pass.
type SweepMetric struct {
	Marked   int64
	Result   string
	Duration time.Duration
	Err      error
}

// EmitSweep emits counters and timings for a detector sweep.
func EmitSweep(sink statsd.Sink, in SweepMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"result": in.Result,
	}
	addErrorClass(tags, in.Result, in.Err)

	sink.Count("sweep.runs", 1, tags)
	if in.Marked > 0 {
		sink.Count("sweep.marked_missed", in.Marked, CloneTags(tags))
	}
	if in.Duration > 0 {
		sink.Timing("sweep.duration", in.Duration, CloneTags(tags))
	}
}

func addErrorClass(tags map[string]string, result string, err error) {
	if err == nil || result != ResultError {
		return
	}
	if class := obserrors.Classify(err); class != "" {
		tags["error_class"] = class
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
