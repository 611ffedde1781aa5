package update_availability

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

// Request payload операции updateAvailability
type Request struct {
	AvailabilityID    *int64              `json:"availability_id"`
	TransactionTypeID *int64              `json:"transaction_type_id"`
	College           *string             `json:"college"` // null = окно для всех колледжей
	Semester          *string             `json:"semester"`
	SchoolYear        *string             `json:"school_year"`
	StartDate         *string             `json:"start_date"`
	EndDate           *string             `json:"end_date"`
	UserID            *string             `json:"user_id"`
	TimeWindows       []TimeWindowPayload `json:"time_windows"`
}

// Validate собирает список отсутствующих обязательных полей
func (r *Request) Validate() error {
	var check validate.Checker
	check.Require("availability_id", r.AvailabilityID != nil)
	check.Require("transaction_type_id", r.TransactionTypeID != nil)
	check.Require("semester", r.Semester != nil)
	check.Require("school_year", r.SchoolYear != nil)
	check.Require("start_date", r.StartDate != nil)
	check.Require("end_date", r.EndDate != nil)
	check.Require("user_id", r.UserID != nil)
	check.Require("time_windows", len(r.TimeWindows) > 0)

	for i, tw := range r.TimeWindows {
		check.Require(fmt.Sprintf("time_windows[%d].availability_date", i), tw.AvailabilityDate != nil)
		check.Require(fmt.Sprintf("time_windows[%d].capacity_per_day", i), tw.CapacityPerDay != nil)
		check.Require(fmt.Sprintf("time_windows[%d].availability_type", i), tw.AvailabilityType != nil)
	}

	return check.Err()
}

// ToServiceRequest конвертирует payload в модель сервиса с парсингом дат
func (r *Request) ToServiceRequest() (*availModels.UpdateRequest, error) {
	startDate, err := time.Parse(domain.DateFormat, *r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %v", err)
	}

	endDate, err := time.Parse(domain.DateFormat, *r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %v", err)
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

	return &availModels.UpdateRequest{
		AvailabilityID:    *r.AvailabilityID,
		TransactionTypeID: *r.TransactionTypeID,
		College:           r.College,
		Semester:          *r.Semester,
		SchoolYear:        *r.SchoolYear,
		StartDate:         startDate,
		EndDate:           endDate,
		UserID:            *r.UserID,
		TimeWindows:       windows,
	}, nil
}
