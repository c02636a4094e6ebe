package calendar

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
)

func strPtr(s string) *string { return &s }

func modePtr(m model.InterviewMode) *model.InterviewMode { return &m }

func timePtr(t time.Time) *time.Time { return &t }

func scheduledApp(mode model.InterviewMode) *model.Application {
	return &model.Application{
		ID:            "7f0d2f7e-0000-41d4-a716-446655440000",
		Status:        model.StatusInterviewScheduled,
		InterviewDate: timePtr(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)),
		InterviewTime: strPtr("14:00"),
		InterviewMode: modePtr(mode),
	}
}

func parseQuery(t *testing.T, invite string) url.Values {
	t.Helper()
	u, err := url.Parse(invite)
	require.NoError(t, err)
	return u.Query()
}

func TestInviteURL_InPersonUsesVenue(t *testing.T) {
	app := scheduledApp(model.ModeInPerson)
	app.InterviewVenue = strPtr("HQ, Floor 4")

	invite, err := InviteURL(app)
	require.NoError(t, err)

	q := parseQuery(t, invite)
	assert.Equal(t, "HQ, Floor 4", q.Get("location"))
	assert.Equal(t, "20250310T140000/20250310T150000", q.Get("dates"))
	assert.Equal(t, "TEMPLATE", q.Get("action"))
}

func TestInviteURL_VideoUsesLink(t *testing.T) {
	app := scheduledApp(model.ModeVideo)
	app.InterviewLink = strPtr("https://meet.example/x")

	invite, err := InviteURL(app)
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example/x", parseQuery(t, invite).Get("location"))
}

func TestInviteURL_PhoneUsesPlaceholder(t *testing.T) {
	invite, err := InviteURL(scheduledApp(model.ModePhone))
	require.NoError(t, err)
	assert.Equal(t, PhoneLocation, parseQuery(t, invite).Get("location"))
}

func TestInviteURL_NotesIncludedInDetails(t *testing.T) {
	app := scheduledApp(model.ModePhone)
	app.InterviewNotes = strPtr("Bring references")

	invite, err := InviteURL(app)
	require.NoError(t, err)
	assert.Contains(t, parseQuery(t, invite).Get("details"), "Bring references")
}

func TestInviteURL_NoInterview(t *testing.T) {
	_, err := InviteURL(&model.Application{Status: model.StatusApplied})
	assert.ErrorIs(t, err, model.ErrNoInterview)
}
