package approve_appointment

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	decideAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/decide_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

// Request payload операции approveAppointment.
// appointment_status несет решение администратора: Approved или Declined.
type Request struct {
	AppointmentID     *int64  `json:"appointment_id"`
	ApprovedBy        *string `json:"approved_by"`
	AppointmentStatus *string `json:"appointment_status"`
	StudentEmail      *string `json:"student_email"`
	StudentID         *string `json:"student_id"`
}

// Validate собирает список отсутствующих обязательных полей
func (r *Request) Validate() error {
	var check validate.Checker
	check.Require("appointment_id", r.AppointmentID != nil)
	check.Require("approved_by", r.ApprovedBy != nil)
	check.Require("appointment_status", r.AppointmentStatus != nil)
	check.Require("student_email", r.StudentEmail != nil)
	check.Require("student_id", r.StudentID != nil)
	return check.Err()
}

// ToUseCaseRequest конвертирует payload в модель use case
func (r *Request) ToUseCaseRequest() *decideAppointment.Request {
	return &decideAppointment.Request{
		AppointmentID: *r.AppointmentID,
		Decision:      *r.AppointmentStatus,
		ApprovedBy:    *r.ApprovedBy,
		StudentEmail:  r.StudentEmail,
		StudentID:     r.StudentID,
	}
}

// Response payload ответа операции approveAppointment
type Response struct {
	ID              int64  `json:"appointment_id"`
	UserID          string `json:"user_id"`
	AppointmentDate string `json:"appointment_date"`
	TimeFrame       string `json:"time_frame"`
	Status          string `json:"appointment_status"`
	ApprovedBy      string `json:"approved_by"`
	SlotReleased    bool   `json:"slot_released"`
}

// FromUseCaseResponse конвертирует ответ use case в payload ответа
func FromUseCaseResponse(resp *decideAppointment.Response) *Response {
	return &Response{
		ID:              resp.ID,
		UserID:          resp.UserID,
		AppointmentDate: resp.AppointmentDate.Format(domain.DateFormat),
		TimeFrame:       resp.TimeFrame,
		Status:          resp.Status,
		ApprovedBy:      resp.ApprovedBy,
		SlotReleased:    resp.SlotReleased,
	}
}
