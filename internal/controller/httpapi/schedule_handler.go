package httpapi

import (
	"net/http"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) listSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.availability.ListSchedules(r.Context(), currentUser(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, newScheduleResponses(schedules))
}

func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	schedule, err := s.availability.CreateSchedule(r.Context(), currentUser(r), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, newScheduleResponse(schedule))
}

func (s *Server) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		s.respondError(w, r, apperr.Validation("malformed schedule id"))
		return
	}

	if err := s.availability.DeleteSchedule(r.Context(), currentUser(r), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, nil)
}
