package get_appointment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

// ID фильтр идентификатора: принимает число или строку с числом,
// пустая строка означает отсутствие фильтра
type ID struct {
	Value *int64
}

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id value %q", s)
	}
	id.Value = &v
	return nil
}

// Request payload операции getAppointment.
// Все семь ключей обязательны по контракту; пустые значения работают
// как wildcard и расширяют выборку.
type Request struct {
	AppointmentID     *ID     `json:"appointment_id"`
	AppointmentStatus *string `json:"appointment_status"`
	TransactionTypeID *ID     `json:"transaction_type_id"`
	UserID            *string `json:"user_id"`
	AppointmentDate   *string `json:"appointment_date"`
	SchoolYear        *string `json:"school_year"`
	Semester          *string `json:"semester"`
}

// Validate собирает список отсутствующих обязательных полей
func (r *Request) Validate() error {
	var check validate.Checker
	check.Require("appointment_id", r.AppointmentID != nil)
	check.Require("appointment_status", r.AppointmentStatus != nil)
	check.Require("transaction_type_id", r.TransactionTypeID != nil)
	check.Require("user_id", r.UserID != nil)
	check.Require("appointment_date", r.AppointmentDate != nil)
	check.Require("school_year", r.SchoolYear != nil)
	check.Require("semester", r.Semester != nil)
	return check.Err()
}

// ToServiceRequest конвертирует payload в модель сервиса;
// пустые значения становятся nil-фильтрами
func (r *Request) ToServiceRequest() (*apptModels.QueryRequest, error) {
	req := &apptModels.QueryRequest{
		AppointmentID:     r.AppointmentID.Value,
		TransactionTypeID: r.TransactionTypeID.Value,
		Status:            nonEmpty(r.AppointmentStatus),
		UserID:            nonEmpty(r.UserID),
		SchoolYear:        nonEmpty(r.SchoolYear),
		Semester:          nonEmpty(r.Semester),
	}

	if date := nonEmpty(r.AppointmentDate); date != nil {
		parsed, err := time.Parse(domain.DateFormat, *date)
		if err != nil {
			return nil, fmt.Errorf("invalid appointment_date: %v", err)
		}
		req.AppointmentDate = &parsed
	}

	return req, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
