package model

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentRequest is a patient's proposed appointment time awaiting the
// provider's decision. Accepting converts it into an Appointment and deletes
// it in the same transaction; declining deletes it.
type AppointmentRequest struct {
	ID         int64     `json:"-"`
	UUID       uuid.UUID `json:"uuid"`
	PatientID  int64     `json:"-"`
	ProviderID int64     `json:"-"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`

	Patient  *User `json:"patient,omitempty"`
	Provider *User `json:"provider,omitempty"`
}

// HasParticipant checks whether the user is on either side of the request.
func (r *AppointmentRequest) HasParticipant(userID int64) bool {
	return r.PatientID == userID || r.ProviderID == userID
}
