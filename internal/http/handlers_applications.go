// Package httpx provides HTTP handlers and utilities for the job portal API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/domain/model"
	"github.com/WhisperedCloud/Job-portal-sub000/internal/service"
)

// ApplicationHandlers provides HTTP handlers for application workflow operations.
type ApplicationHandlers struct {
	Svc *service.ApplicationService
}

// Apply handles HTTP requests to submit a new application.
func (h *ApplicationHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	var req model.CreateApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Apply(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, app)
}

// GetByID handles HTTP requests to fetch a single application.
func (h *ApplicationHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	app, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// ListByCandidate handles HTTP requests to list a candidate's applications, newest first.
func (h *ApplicationHandlers) ListByCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("candidateID")
	if candidateID == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("candidate id is required")},
		)
		return
	}

	apps, err := h.Svc.ListByCandidate(r.Context(), candidateID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"count":        len(apps),
	})
}

// Review handles HTTP requests to move an application into review.
func (h *ApplicationHandlers) Review(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	app, err := h.Svc.Review(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// Decide handles HTTP requests to record a hire or reject decision.
func (h *ApplicationHandlers) Decide(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	var req model.DecisionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Decide(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// Stats handles HTTP requests for per-status application counts.
func (h *ApplicationHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// SchedulerHandlers provides HTTP handlers for interview scheduling operations.
type SchedulerHandlers struct {
	Svc *service.SchedulerService
}

// Schedule handles HTTP requests to schedule or reschedule an interview.
func (h *SchedulerHandlers) Schedule(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	var req model.ScheduleInterviewRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.ScheduleInterview(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// CalendarInvite handles HTTP requests for a calendar invite link for a scheduled interview.
func (h *SchedulerHandlers) CalendarInvite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	url, err := h.Svc.CalendarInvite(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
