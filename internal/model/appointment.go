package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is a confirmed time contract between one patient and one
// provider. StartTime never changes after creation; Canceled and
// ExplicitlyEnded only ever go from false to true.
type Appointment struct {
	ID              int64     `json:"-"`
	UUID            uuid.UUID `json:"uuid"`
	PatientID       int64     `json:"-"`
	ProviderID      int64     `json:"-"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	VideoSessionID  *string   `json:"-"` // assigned lazily on first join
	Canceled        bool      `json:"-"`
	ExplicitlyEnded bool      `json:"explicitly_ended"`
	CreatedAt       time.Time `json:"created_at"`

	// Filled for listings, not stored on the row itself.
	Patient  *User `json:"patient,omitempty"`
	Provider *User `json:"provider,omitempty"`
}

// HasParticipant checks whether the user is on either side of the appointment.
func (a *Appointment) HasParticipant(userID int64) bool {
	return a.PatientID == userID || a.ProviderID == userID
}
