package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// TimeWindowInput одна дневная запись в запросе создания/обновления окна
type TimeWindowInput struct {
	AvailabilityDate time.Time
	CapacityPerDay   int
	AvailabilityType string
}

// CreateRequest запрос на создание окна доступности
type CreateRequest struct {
	TransactionTypeID int64
	College           *string // nil = окно для всех колледжей
	Semester          string
	SchoolYear        string
	StartDate         time.Time
	EndDate           time.Time
	CreatedBy         string
	CreatedAt         time.Time
	TimeWindows       []TimeWindowInput
}

// UpdateRequest запрос на обновление окна доступности;
// дневные записи заменяются полностью
type UpdateRequest struct {
	AvailabilityID    int64
	TransactionTypeID int64
	College           *string
	Semester          string
	SchoolYear        string
	StartDate         time.Time
	EndDate           time.Time
	UserID            string
	TimeWindows       []TimeWindowInput
}

// QueryRequest фильтры выборки окон; nil-поля расширяют выборку
type QueryRequest struct {
	SearchKey  *string
	College    *string
	Semester   *string
	SchoolYear *string
}

// TimeWindowResponse дневная запись окна с живыми счетчиками слотов
type TimeWindowResponse struct {
	ID                  int64   `json:"time_window_id"`
	AvailabilityDate    string  `json:"availability_date"`
	CapacityPerDay      int     `json:"capacity_per_day"`
	AvailabilityType    string  `json:"availability_type"`
	TotalAMAppointments int     `json:"total_am_appointments"`
	TotalPMAppointments int     `json:"total_pm_appointments"`
	TotalSlotsLeft      int     `json:"total_slots_left"`
	College             *string `json:"college,omitempty"`
}

// AvailabilityResponse окно доступности с вложенными дневными записями
type AvailabilityResponse struct {
	ID                int64                `json:"availability_id"`
	TransactionTypeID int64                `json:"transaction_type_id"`
	College           *string              `json:"college,omitempty"`
	Semester          string               `json:"semester"`
	SchoolYear        string               `json:"school_year"`
	StartDate         string               `json:"start_date"`
	EndDate           string               `json:"end_date"`
	CreatedBy         string               `json:"created_by"`
	CreatedAt         time.Time            `json:"created_at"`
	TimeWindows       []TimeWindowResponse `json:"time_windows"`
}

// AvailabilityListResponse список окон доступности
type AvailabilityListResponse struct {
	Availabilities []AvailabilityResponse `json:"availabilities"`
}

// Методы конвертации

// ToDomainWindow собирает domain модель из запроса создания.
// Счетчики новых дневных записей нулевые, остаток равен емкости.
func (r *CreateRequest) ToDomainWindow() *domain.AvailabilityWindow {
	window := &domain.AvailabilityWindow{
		TransactionTypeID: r.TransactionTypeID,
		College:           r.College,
		Semester:          r.Semester,
		SchoolYear:        r.SchoolYear,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		CreatedBy:         r.CreatedBy,
		CreatedAt:         r.CreatedAt,
		TimeWindows:       make([]domain.TimeWindow, 0, len(r.TimeWindows)),
	}

	for _, tw := range r.TimeWindows {
		window.TimeWindows = append(window.TimeWindows, domain.TimeWindow{
			AvailabilityDate: tw.AvailabilityDate,
			CapacityPerDay:   tw.CapacityPerDay,
			AvailabilityType: domain.AvailabilityType(tw.AvailabilityType),
			TotalSlotsLeft:   tw.CapacityPerDay,
		})
	}

	return window
}

// ToDomainWindow собирает domain модель из запроса обновления
func (r *UpdateRequest) ToDomainWindow() *domain.AvailabilityWindow {
	create := CreateRequest{
		TransactionTypeID: r.TransactionTypeID,
		College:           r.College,
		Semester:          r.Semester,
		SchoolYear:        r.SchoolYear,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		TimeWindows:       r.TimeWindows,
	}
	window := create.ToDomainWindow()
	window.ID = r.AvailabilityID
	return window
}

// ToDomainFilter конвертирует запрос выборки в domain фильтр
func (r *QueryRequest) ToDomainFilter() domain.AvailabilityFilter {
	return domain.AvailabilityFilter{
		SearchKey:  r.SearchKey,
		College:    r.College,
		Semester:   r.Semester,
		SchoolYear: r.SchoolYear,
	}
}

// FromDomainWindow конвертирует domain модель в DTO
func FromDomainWindow(w *domain.AvailabilityWindow) *AvailabilityResponse {
	if w == nil {
		return nil
	}

	resp := &AvailabilityResponse{
		ID:                w.ID,
		TransactionTypeID: w.TransactionTypeID,
		College:           w.College,
		Semester:          w.Semester,
		SchoolYear:        w.SchoolYear,
		StartDate:         w.StartDate.Format(domain.DateFormat),
		EndDate:           w.EndDate.Format(domain.DateFormat),
		CreatedBy:         w.CreatedBy,
		CreatedAt:         w.CreatedAt,
		TimeWindows:       make([]TimeWindowResponse, 0, len(w.TimeWindows)),
	}

	for i := range w.TimeWindows {
		resp.TimeWindows = append(resp.TimeWindows, *FromDomainTimeWindow(&w.TimeWindows[i]))
	}

	return resp
}

// FromDomainTimeWindow конвертирует дневную запись в DTO
func FromDomainTimeWindow(tw *domain.TimeWindow) *TimeWindowResponse {
	if tw == nil {
		return nil
	}
	return &TimeWindowResponse{
		ID:                  tw.ID,
		AvailabilityDate:    tw.AvailabilityDate.Format(domain.DateFormat),
		CapacityPerDay:      tw.CapacityPerDay,
		AvailabilityType:    string(tw.AvailabilityType),
		TotalAMAppointments: tw.TotalAMAppointments,
		TotalPMAppointments: tw.TotalPMAppointments,
		TotalSlotsLeft:      tw.TotalSlotsLeft,
		College:             tw.College,
	}
}

// FromDomainWindowList конвертирует список окон в DTO
func FromDomainWindowList(windows []*domain.AvailabilityWindow) *AvailabilityListResponse {
	resp := &AvailabilityListResponse{
		Availabilities: make([]AvailabilityResponse, 0, len(windows)),
	}
	for _, w := range windows {
		resp.Availabilities = append(resp.Availabilities, *FromDomainWindow(w))
	}
	return resp
}
