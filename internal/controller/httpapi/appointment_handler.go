package httpapi

import (
	"net/http"
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) availableBlocks(w http.ResponseWriter, r *http.Request) {
	var req availableBlocksRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	// Formats already validated by the datetime tag.
	startDate, _ := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	endDate, _ := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)

	blocks, err := s.slots.AvailableBlocks(r.Context(), currentUser(r), startDate, endDate)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, newBlockResponses(blocks))
}

func (s *Server) bookAppointment(w http.ResponseWriter, r *http.Request) {
	var req bookAppointmentRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	appointment, err := s.bookings.Book(r.Context(), currentUser(r), req.StartTime)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, newAppointmentResponse(appointment))
}

func (s *Server) listAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := s.bookings.MyAppointments(r.Context(), currentUser(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, newAppointmentResponses(appointments))
}

func (s *Server) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		s.respondError(w, r, apperr.Validation("malformed appointment id"))
		return
	}

	if err := s.bookings.Cancel(r.Context(), currentUser(r), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, nil)
}

func (s *Server) endAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		s.respondError(w, r, apperr.Validation("malformed appointment id"))
		return
	}

	if err := s.bookings.End(r.Context(), currentUser(r), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, nil)
}

func (s *Server) sessionToken(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		s.respondError(w, r, apperr.Validation("malformed appointment id"))
		return
	}

	sessionID, token, err := s.video.JoinToken(r.Context(), currentUser(r), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, sessionTokenResponse{SessionID: sessionID, Token: token})
}
