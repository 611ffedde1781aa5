package insert_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	submitAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/submit_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

// Request payload операции insertAppointment
type Request struct {
	TransactionTypeID *int64  `json:"transaction_type_id"`
	UserID            *string `json:"user_id"`
	AppointmentDate   *string `json:"appointment_date"`
	TimeFrame         *string `json:"time_frame"`
	SchoolYear        *string `json:"school_year"`
	Semester          *string `json:"semester"`

	// Опциональные поля
	College      *string `json:"college"`
	StudentEmail *string `json:"student_email"`
	StudentID    *string `json:"student_id"`
}

// Validate собирает список отсутствующих обязательных полей
func (r *Request) Validate() error {
	var check validate.Checker
	check.Require("transaction_type_id", r.TransactionTypeID != nil)
	check.Require("user_id", r.UserID != nil)
	check.Require("appointment_date", r.AppointmentDate != nil)
	check.Require("time_frame", r.TimeFrame != nil)
	check.Require("school_year", r.SchoolYear != nil)
	check.Require("semester", r.Semester != nil)
	return check.Err()
}

// ToUseCaseRequest конвертирует payload в модель use case с парсингом даты
func (r *Request) ToUseCaseRequest() (*submitAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, *r.AppointmentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid appointment_date: %v", err)
	}

	return &submitAppointment.Request{
		UserID:            *r.UserID,
		TransactionTypeID: *r.TransactionTypeID,
		College:           r.College,
		Date:              date,
		TimeFrame:         *r.TimeFrame,
		Semester:          *r.Semester,
		SchoolYear:        *r.SchoolYear,
		StudentEmail:      r.StudentEmail,
		StudentID:         r.StudentID,
	}, nil
}

// Response payload ответа операции insertAppointment
type Response struct {
	ID                int64   `json:"appointment_id"`
	UserID            string  `json:"user_id"`
	TransactionTypeID int64   `json:"transaction_type_id"`
	College           *string `json:"college,omitempty"`
	AppointmentDate   string  `json:"appointment_date"`
	TimeFrame         string  `json:"time_frame"`
	Semester          string  `json:"semester"`
	SchoolYear        string  `json:"school_year"`
	Status            string  `json:"appointment_status"`
	TimeWindowID      int64   `json:"time_window_id"`
	TotalSlotsLeft    int     `json:"total_slots_left"`
}

// FromUseCaseResponse конвертирует ответ use case в payload ответа
func FromUseCaseResponse(resp *submitAppointment.Response) *Response {
	return &Response{
		ID:                resp.ID,
		UserID:            resp.UserID,
		TransactionTypeID: resp.TransactionTypeID,
		College:           resp.College,
		AppointmentDate:   resp.AppointmentDate.Format(domain.DateFormat),
		TimeFrame:         resp.TimeFrame,
		Semester:          resp.Semester,
		SchoolYear:        resp.SchoolYear,
		Status:            resp.Status,
		TimeWindowID:      resp.TimeWindowID,
		TotalSlotsLeft:    resp.TotalSlotsLeft,
	}
}
