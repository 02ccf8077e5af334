package httpapi

import (
	"time"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/carelinkhq/telecare/internal/calendar"
	"github.com/carelinkhq/telecare/internal/model"
	"github.com/carelinkhq/telecare/internal/service"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type createScheduleRequest struct {
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime  string `json:"start_time" validate:"required"`
	EndTime    string `json:"end_time" validate:"required"`
	DaysOfWeek int    `json:"days_of_week" validate:"required,min=1,max=127"`
}

func (req createScheduleRequest) toInput() (service.CreateScheduleInput, error) {
	input := service.CreateScheduleInput{
		DaysOfWeek: calendar.DayOfWeek(req.DaysOfWeek),
	}

	var err error
	if input.StartTime, err = calendar.ParseTimeOfDay(req.StartTime); err != nil {
		return input, err
	}
	if input.EndTime, err = calendar.ParseTimeOfDay(req.EndTime); err != nil {
		return input, err
	}

	if req.StartDate != "" {
		startDate, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
		if err != nil {
			return input, apperr.Validation("start_date must be formatted as YYYY-MM-DD")
		}
		input.StartDate = startDate
	}

	if req.EndDate != "" {
		endDate, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
		if err != nil {
			return input, apperr.Validation("end_date must be formatted as YYYY-MM-DD")
		}
		input.EndDate = &endDate
	}

	return input, nil
}

type scheduleResponse struct {
	ID         uuid.UUID `json:"id"`
	StartDate  string    `json:"start_date"`
	EndDate    *string   `json:"end_date,omitempty"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	DaysOfWeek int       `json:"days_of_week"`
}

func newScheduleResponse(schedule *model.AvailabilitySchedule) scheduleResponse {
	resp := scheduleResponse{
		ID:         schedule.UUID,
		StartDate:  schedule.StartDate.Format(dateLayout),
		StartTime:  schedule.StartTime.String(),
		EndTime:    schedule.EndTime.String(),
		DaysOfWeek: int(schedule.DaysOfWeek),
	}

	if schedule.EndDate != nil {
		endDate := schedule.EndDate.Format(dateLayout)
		resp.EndDate = &endDate
	}

	return resp
}

func newScheduleResponses(schedules []*model.AvailabilitySchedule) []scheduleResponse {
	out := make([]scheduleResponse, 0, len(schedules))
	for _, schedule := range schedules {
		out = append(out, newScheduleResponse(schedule))
	}
	return out
}

type availableBlocksRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type blockResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func newBlockResponses(blocks []model.Block) []blockResponse {
	out := make([]blockResponse, 0, len(blocks))
	for _, block := range blocks {
		out = append(out, blockResponse{StartTime: block.StartTime, EndTime: block.EndTime})
	}
	return out
}

type bookAppointmentRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
}

type appointmentResponse struct {
	ID           uuid.UUID `json:"id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	PatientName  string    `json:"patient_name,omitempty"`
	ProviderName string    `json:"provider_name,omitempty"`
}

func newAppointmentResponse(appointment *model.Appointment) appointmentResponse {
	resp := appointmentResponse{
		ID:        appointment.UUID,
		StartTime: appointment.StartTime,
		EndTime:   appointment.EndTime,
	}

	if appointment.Patient != nil {
		resp.PatientName = appointment.Patient.FullName()
	}
	if appointment.Provider != nil {
		resp.ProviderName = appointment.Provider.FullName()
	}

	return resp
}

func newAppointmentResponses(appointments []*model.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(appointments))
	for _, appointment := range appointments {
		out = append(out, newAppointmentResponse(appointment))
	}
	return out
}

type createRequestRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
}

type requestResponse struct {
	ID           uuid.UUID `json:"id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	PatientName  string    `json:"patient_name,omitempty"`
	ProviderName string    `json:"provider_name,omitempty"`
}

func newRequestResponse(request *model.AppointmentRequest) requestResponse {
	resp := requestResponse{
		ID:        request.UUID,
		StartTime: request.StartTime,
		EndTime:   request.EndTime,
	}

	if request.Patient != nil {
		resp.PatientName = request.Patient.FullName()
	}
	if request.Provider != nil {
		resp.ProviderName = request.Provider.FullName()
	}

	return resp
}

func newRequestResponses(requests []*model.AppointmentRequest) []requestResponse {
	out := make([]requestResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, newRequestResponse(request))
	}
	return out
}

type providerResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func newProviderResponses(providers []*model.User) []providerResponse {
	out := make([]providerResponse, 0, len(providers))
	for _, provider := range providers {
		out = append(out, providerResponse{
			ID:    provider.UUID,
			Name:  provider.FullName(),
			Email: provider.Email,
		})
	}
	return out
}

type sessionTokenResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

type countResponse struct {
	Count int `json:"count"`
}
