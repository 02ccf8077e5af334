package httpapi

import (
	"net/http"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) listProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := s.users.ListProviders(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, newProviderResponses(providers))
}

func (s *Server) selectProvider(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		s.respondError(w, r, apperr.Validation("malformed provider id"))
		return
	}

	if err := s.users.SelectProvider(r.Context(), currentUser(r), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, nil)
}

func (s *Server) listProviderSchedules(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		s.respondError(w, r, apperr.Validation("malformed provider id"))
		return
	}

	schedules, err := s.availability.ListSchedulesOf(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, newScheduleResponses(schedules))
}
