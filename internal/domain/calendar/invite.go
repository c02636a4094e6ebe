// Package calendar derives calendar-invite URLs from application interview
// fields. It holds no state; everything here is a pure transform.
package calendar

import (
	"fmt"
	"net/url"
	"time"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
)

// PhoneLocation is the fixed location placeholder for phone interviews.
const PhoneLocation = "Phone interview"

// DefaultDuration is the event length used for invites; the portal does
// not record an interview end time.
const DefaultDuration = time.Hour

const renderEndpoint = "https://calendar.google.com/calendar/render"

const stampLayout = "20060102T150405"

// InviteURL builds a Google Calendar template URL for the application's
// scheduled interview. The event starts at the interview's naive local
// instant and lasts DefaultDuration. Location depends on the interview
// mode: venue for in-person, meeting link for video, PhoneLocation for
// phone. Returns model.ErrNoInterview when no interview was ever
// scheduled.
func InviteURL(app *model.Application) (string, error) {
	start, err := app.InterviewStartAt()
	if err != nil {
		return "", err
	}
	if app.InterviewMode == nil {
		return "", model.ErrNoInterview
	}

	location := PhoneLocation
	switch *app.InterviewMode {
	case model.ModeInPerson:
		if app.InterviewVenue != nil {
			location = *app.InterviewVenue
		}
	case model.ModeVideo:
		if app.InterviewLink != nil {
			location = *app.InterviewLink
		}
	case model.ModePhone:
		// keep the placeholder
	}

	details := fmt.Sprintf("%s interview for application %s", *app.InterviewMode, app.ID)
	if app.InterviewNotes != nil && *app.InterviewNotes != "" {
		details += "\n\n" + *app.InterviewNotes
	}

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", "Job Interview")
	q.Set("dates", start.Format(stampLayout)+"/"+start.Add(DefaultDuration).Format(stampLayout))
	q.Set("details", details)
	q.Set("location", location)
	return renderEndpoint + "?" + q.Encode(), nil
}
