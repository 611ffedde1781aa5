package insert_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availModels "github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

// TimeWindowPayload дневная запись в payload запроса
type TimeWindowPayload struct {
	AvailabilityDate *string `json:"availability_date"`
	CapacityPerDay   *int    `json:"capacity_per_day"`
	AvailabilityType *string `json:"availability_type"`
}

// Request payload операции insertAvailability.
// Обязательные поля объявлены указателями для точного списка отсутствующих ключей.
type Request struct {
	TransactionTypeID *int64              `json:"transaction_type_id"`
	College           *string             `json:"college"` // null = окно для всех колледжей
	Semester          *string             `json:"semester"`
	SchoolYear        *string             `json:"school_year"`
	StartDate         *string             `json:"start_date"`
	EndDate           *string             `json:"end_date"`
	CreatedBy         *string             `json:"created_by"`
	CreatedAt         *string             `json:"created_at"`
	TimeWindows       []TimeWindowPayload `json:"time_windows"`
}

// Validate собирает список отсутствующих обязательных полей
func (r *Request) Validate() error {
	var check validate.Checker
	check.Require("transaction_type_id", r.TransactionTypeID != nil)
	check.Require("semester", r.Semester != nil)
	check.Require("school_year", r.SchoolYear != nil)
	check.Require("start_date", r.StartDate != nil)
	check.Require("end_date", r.EndDate != nil)
	check.Require("created_by", r.CreatedBy != nil)
	check.Require("created_at", r.CreatedAt != nil)
	check.Require("time_windows", len(r.TimeWindows) > 0)

	for i, tw := range r.TimeWindows {
		check.Require(fmt.Sprintf("time_windows[%d].availability_date", i), tw.AvailabilityDate != nil)
		check.Require(fmt.Sprintf("time_windows[%d].capacity_per_day", i), tw.CapacityPerDay != nil)
		check.Require(fmt.Sprintf("time_windows[%d].availability_type", i), tw.AvailabilityType != nil)
	}

	return check.Err()
}

// ToServiceRequest конвертирует payload в модель сервиса с парсингом дат
func (r *Request) ToServiceRequest() (*availModels.CreateRequest, error) {
	startDate, err := time.Parse(domain.DateFormat, *r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %v", err)
	}

	endDate, err := time.Parse(domain.DateFormat, *r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %v", err)
	}

	createdAt, err := parseTimestamp(*r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %v", err)
	}

	windows := make([]availModels.TimeWindowInput, 0, len(r.TimeWindows))
	for i, tw := range r.TimeWindows {
		date, err := time.Parse(domain.DateFormat, *tw.AvailabilityDate)
		if err != nil {
			return nil, fmt.Errorf("invalid time_windows[%d].availability_date: %v", i, err)
		}
		windows = append(windows, availModels.TimeWindowInput{
			AvailabilityDate: date,
			CapacityPerDay:   *tw.CapacityPerDay,
			AvailabilityType: *tw.AvailabilityType,
		})
	}

	return &availModels.CreateRequest{
		TransactionTypeID: *r.TransactionTypeID,
		College:           r.College,
		Semester:          *r.Semester,
		SchoolYear:        *r.SchoolYear,
		StartDate:         startDate,
		EndDate:           endDate,
		CreatedBy:         *r.CreatedBy,
		CreatedAt:         createdAt,
		TimeWindows:       windows,
	}, nil
}

// parseTimestamp принимает RFC3339 или формат журнала аудита
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(domain.TimestampFormat, s)
}
