package httpapi

import (
	"net/http"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) listRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.requests.MyRequests(r.Context(), currentUser(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, newRequestResponses(requests))
}

func (s *Server) countRequests(w http.ResponseWriter, r *http.Request) {
	count, err := s.requests.PendingRequestCount(r.Context(), currentUser(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, countResponse{Count: count})
}

func (s *Server) createRequest(w http.ResponseWriter, r *http.Request) {
	var req createRequestRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	request, err := s.requests.CreateRequest(r.Context(), currentUser(r), req.StartTime)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, newRequestResponse(request))
}

func (s *Server) acceptRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		s.respondError(w, r, apperr.Validation("malformed request id"))
		return
	}

	appointment, err := s.requests.AcceptRequest(r.Context(), currentUser(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, newAppointmentResponse(appointment))
}

func (s *Server) declineRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		s.respondError(w, r, apperr.Validation("malformed request id"))
		return
	}

	if err := s.requests.DeclineRequest(r.Context(), currentUser(r), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, nil)
}
