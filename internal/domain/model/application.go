// Package model defines the core data types and structures used throughout the job portal.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus represents the workflow state of an application.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type ApplicationStatus string

// InterviewMode represents how an interview is conducted.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type InterviewMode string

const (
	// StatusApplied indicates a freshly submitted application.
	StatusApplied ApplicationStatus = "applied"
	// StatusUnderReview indicates a recruiter has started reviewing the application.
	StatusUnderReview ApplicationStatus = "under_review"
	// StatusInterviewScheduled indicates an interview has been scheduled.
	StatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	// StatusMissedInterview indicates a scheduled interview whose time elapsed
	// without any other transition.
	StatusMissedInterview ApplicationStatus = "missed_interview"
	// StatusRejected is a terminal state.
	StatusRejected ApplicationStatus = "rejected"
	// StatusHired is a terminal state.
	StatusHired ApplicationStatus = "hired"

	// ModeVideo is a video-call interview; requires a meeting link.
	ModeVideo InterviewMode = "video"
	// ModeInPerson is an on-site interview; requires a venue.
	ModeInPerson InterviewMode = "in-person"
	// ModePhone is a phone interview; no extra fields required.
	ModePhone InterviewMode = "phone"
)

// InterviewTimeLayout is the wire and storage format for interview_time.
const InterviewTimeLayout = "15:04"

// InterviewDateLayout is the wire and storage format for interview_date.
const InterviewDateLayout = "2006-01-02"

// ErrNoInterview is returned when an operation needs interview fields
// that have never been populated.
var ErrNoInterview = errors.New("application has no interview scheduled")

// Valid returns true if the ApplicationStatus is valid.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusUnderReview, StatusInterviewScheduled,
		StatusMissedInterview, StatusRejected, StatusHired:
		return true
	}
	return false
}

// Terminal returns true for states with no outgoing transitions.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusRejected || s == StatusHired
}

// UnmarshalText implements encoding.TextUnmarshaler for ApplicationStatus.
func (s *ApplicationStatus) UnmarshalText(text []byte) error {
	v := ApplicationStatus(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid ApplicationStatus: %q", string(text))
	}
	*s = v
	return nil
}

// Valid returns true if the InterviewMode is valid.
func (m InterviewMode) Valid() bool {
	return m == ModeVideo || m == ModeInPerson || m == ModePhone
}

// UnmarshalText implements encoding.TextUnmarshaler for InterviewMode.
func (m *InterviewMode) UnmarshalText(text []byte) error {
	v := InterviewMode(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid InterviewMode: %q", string(text))
	}
	*m = v
	return nil
}

// Application represents one candidate's submission for one job, carrying
// status and interview details. Interview fields are nil until the first
// schedule action and are overwritten wholesale on every reschedule.
type Application struct {
	ID          string            `json:"id"           db:"id"`
	CandidateID string            `json:"candidate_id" db:"candidate_id"`
	JobID       string            `json:"job_id"       db:"job_id"`
	Status      ApplicationStatus `json:"status"       db:"status"`

	InterviewDate        *time.Time     `json:"interview_date,omitempty"         db:"interview_date"`
	InterviewTime        *string        `json:"interview_time,omitempty"         db:"interview_time"`
	InterviewMode        *InterviewMode `json:"interview_mode,omitempty"         db:"interview_mode"`
	InterviewVenue       *string        `json:"interview_venue,omitempty"        db:"interview_venue"`
	InterviewLink        *string        `json:"interview_link,omitempty"         db:"interview_link"`
	InterviewNotes       *string        `json:"interview_notes,omitempty"        db:"interview_notes"`
	InterviewScheduledAt *time.Time     `json:"interview_scheduled_at,omitempty" db:"interview_scheduled_at"`
	RescheduledCount     int            `json:"interview_rescheduled_count"      db:"interview_rescheduled_count"`
	RescheduleReason     *string        `json:"reschedule_reason,omitempty"      db:"reschedule_reason"`

	AppliedAt time.Time `json:"applied_at" db:"applied_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasInterview reports whether interview date and time have ever been set.
func (a *Application) HasInterview() bool {
	return a.InterviewDate != nil && a.InterviewTime != nil
}

// InterviewStartAt combines interview_date and interview_time into a single
// naive local instant. The portal treats all interview times as one shared
// local zone; no per-user timezone conversion happens anywhere.
func (a *Application) InterviewStartAt() (time.Time, error) {
	if !a.HasInterview() {
		return time.Time{}, ErrNoInterview
	}
	tod, err := time.Parse(InterviewTimeLayout, *a.InterviewTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse interview time %q: %w", *a.InterviewTime, err)
	}
	d := *a.InterviewDate
	return time.Date(d.Year(), d.Month(), d.Day(), tod.Hour(), tod.Minute(), 0, 0, d.Location()), nil
}

// CreateApplicationRequest represents a candidate applying to a job.
type CreateApplicationRequest struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id"`
}

// Validate validates the CreateApplicationRequest fields.
func (r *CreateApplicationRequest) Validate() error {
	if _, err := uuid.Parse(r.CandidateID); err != nil {
		return errors.New("candidate id must be a valid UUID")
	}
	if _, err := uuid.Parse(r.JobID); err != nil {
		return errors.New("job id must be a valid UUID")
	}
	return nil
}

// ScheduleInterviewRequest carries the fields of a schedule or reschedule
// action. Date and Time use InterviewDateLayout / InterviewTimeLayout.
type ScheduleInterviewRequest struct {
	Date             string        `json:"date"`
	Time             string        `json:"time"`
	Mode             InterviewMode `json:"mode"`
	Venue            *string       `json:"venue,omitempty"`
	Link             *string       `json:"link,omitempty"`
	Notes            *string       `json:"notes,omitempty"`
	RescheduleReason *string       `json:"reschedule_reason,omitempty"`
}

// ValidationError is a field-scoped validation failure from Validate.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the schedule request against today's date. The date must
// parse, must not be strictly in the past (date-only comparison), the time
// must parse, and the mode-specific field must be present: venue for
// in-person, link for video. Phone interviews need nothing extra.
func (r *ScheduleInterviewRequest) Validate(today time.Time) error {
	if strings.TrimSpace(r.Date) == "" {
		return &ValidationError{Field: "date", Message: "interview date is required"}
	}
	if strings.TrimSpace(r.Time) == "" {
		return &ValidationError{Field: "time", Message: "interview time is required"}
	}
	d, err := time.Parse(InterviewDateLayout, r.Date)
	if err != nil {
		return &ValidationError{Field: "date", Message: "interview date must be YYYY-MM-DD"}
	}
	if _, err := time.Parse(InterviewTimeLayout, r.Time); err != nil {
		return &ValidationError{Field: "time", Message: "interview time must be HH:MM"}
	}
	ty, tm, td := today.Date()
	if d.Before(time.Date(ty, tm, td, 0, 0, 0, 0, d.Location())) {
		return &ValidationError{Field: "date", Message: "interview date cannot be in the past"}
	}
	if !r.Mode.Valid() {
		return &ValidationError{Field: "mode", Message: "interview mode must be video, in-person or phone"}
	}
	switch r.Mode {
	case ModeInPerson:
		if r.Venue == nil || strings.TrimSpace(*r.Venue) == "" {
			return &ValidationError{Field: "venue", Message: "venue is required for in-person interviews"}
		}
	case ModeVideo:
		if r.Link == nil || strings.TrimSpace(*r.Link) == "" {
			return &ValidationError{Field: "link", Message: "meeting link is required for video interviews"}
		}
	case ModePhone:
		// no extra fields
	}
	return nil
}

// DateValue returns the parsed interview date. Call Validate first.
func (r *ScheduleInterviewRequest) DateValue() (time.Time, error) {
	return time.Parse(InterviewDateLayout, r.Date)
}

// DecisionRequest records a terminal recruiter decision.
type DecisionRequest struct {
	Status ApplicationStatus `json:"status"`
}

// Validate ensures the decision targets a terminal state.
func (r *DecisionRequest) Validate() error {
	if r.Status != StatusHired && r.Status != StatusRejected {
		return &ValidationError{Field: "status", Message: "decision must be hired or rejected"}
	}
	return nil
}

// ApplicationStats represents counts of applications per workflow state.
type ApplicationStats struct {
	Applied            int `json:"applied"`
	UnderReview        int `json:"under_review"`
	InterviewScheduled int `json:"interview_scheduled"`
	MissedInterview    int `json:"missed_interview"`
	Rejected           int `json:"rejected"`
	Hired              int `json:"hired"`
}
