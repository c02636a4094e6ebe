package model

import "fmt"

// TransitionEvent names an action that moves an application between states.
type TransitionEvent string

const (
	// EventReview moves a fresh application into recruiter review.
	EventReview TransitionEvent = "review"
	// EventSchedule schedules the first interview.
	EventSchedule TransitionEvent = "schedule"
	// EventReschedule replaces an existing interview slot.
	EventReschedule TransitionEvent = "reschedule"
	// EventMiss is the time-triggered missed-interview transition.
	EventMiss TransitionEvent = "miss"
	// EventReject records a terminal rejection.
	EventReject TransitionEvent = "reject"
	// EventHire records a terminal hire.
	EventHire TransitionEvent = "hire"
)

// Valid returns true if the TransitionEvent is valid.
func (e TransitionEvent) Valid() bool {
	switch e {
	case EventReview, EventSchedule, EventReschedule, EventMiss, EventReject, EventHire:
		return true
	}
	return false
}

// InvalidTransitionError reports an event that is not legal from the
// application's current status.
type InvalidTransitionError struct {
	From  ApplicationStatus
	Event TransitionEvent
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: event %q from status %q", e.Event, e.From)
}

// transitions is the single source of truth for the workflow. Every call
// site (recruiter actions, the scheduling path and the missed-interview
// sweep) resolves its target state here.
var transitions = map[ApplicationStatus]map[TransitionEvent]ApplicationStatus{
	StatusApplied: {
		EventReview: StatusUnderReview,
		EventReject: StatusRejected,
	},
	StatusUnderReview: {
		EventSchedule: StatusInterviewScheduled,
		EventReject:   StatusRejected,
		EventHire:     StatusHired,
	},
	StatusInterviewScheduled: {
		EventMiss:       StatusMissedInterview,
		EventReschedule: StatusInterviewScheduled,
		EventReject:     StatusRejected,
		EventHire:       StatusHired,
	},
	StatusMissedInterview: {
		EventReschedule: StatusInterviewScheduled,
		EventReject:     StatusRejected,
		EventHire:       StatusHired,
	},
}

// NextStatus resolves the target status for an event applied to the
// current status. Returns InvalidTransitionError when the event is not
// legal from that state; terminal states allow no events at all.
func NextStatus(current ApplicationStatus, event TransitionEvent) (ApplicationStatus, error) {
	next, ok := transitions[current][event]
	if !ok {
		return "", &InvalidTransitionError{From: current, Event: event}
	}
	return next, nil
}

// CanTransition reports whether any event moves an application from one
// status directly to another.
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ScheduleEventFor picks the schedule-path event for the current status:
// a first schedule from under_review, a reschedule from
// interview_scheduled or missed_interview. Other states cannot schedule.
func ScheduleEventFor(current ApplicationStatus) (TransitionEvent, error) {
	switch current {
	case StatusUnderReview:
		return EventSchedule, nil
	case StatusInterviewScheduled, StatusMissedInterview:
		return EventReschedule, nil
	default:
		return "", &InvalidTransitionError{From: current, Event: EventSchedule}
	}
}
