package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// QueryRequest фильтры выборки записей на прием; nil-поля расширяют выборку
type QueryRequest struct {
	AppointmentID     *int64
	Status            *string
	TransactionTypeID *int64
	UserID            *string
	AppointmentDate   *time.Time
	SchoolYear        *string
	Semester          *string
}

// AppointmentResponse запись на прием
type AppointmentResponse struct {
	ID                int64     `json:"appointment_id"`
	TransactionTypeID int64     `json:"transaction_type_id"`
	UserID            string    `json:"user_id"`
	College           *string   `json:"college,omitempty"`
	AppointmentDate   string    `json:"appointment_date"`
	TimeFrame         string    `json:"time_frame"`
	Semester          string    `json:"semester"`
	SchoolYear        string    `json:"school_year"`
	Status            string    `json:"appointment_status"`
	ApprovedBy        *string   `json:"approved_by,omitempty"`
	StudentEmail      *string   `json:"student_email,omitempty"`
	StudentID         *string   `json:"student_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AppointmentListResponse список записей на прием
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// RemoveResponse результат удаления записи на прием
type RemoveResponse struct {
	AppointmentID int64  `json:"appointment_id"`
	SlotReleased  bool   `json:"slot_released"`
	Message       string `json:"message"`
}

// TimeWindowResponse дневная запись с живыми счетчиками слотов
type TimeWindowResponse struct {
	ID                  int64   `json:"time_window_id"`
	AvailabilityID      int64   `json:"availability_id"`
	TransactionTypeID   int64   `json:"transaction_type_id"`
	College             *string `json:"college,omitempty"`
	AvailabilityDate    string  `json:"availability_date"`
	CapacityPerDay      int     `json:"capacity_per_day"`
	AvailabilityType    string  `json:"availability_type"`
	TotalAMAppointments int     `json:"total_am_appointments"`
	TotalPMAppointments int     `json:"total_pm_appointments"`
	TotalSlotsLeft      int     `json:"total_slots_left"`
}

// TimeWindowListResponse дневные записи на дату
type TimeWindowListResponse struct {
	TimeWindows []TimeWindowResponse `json:"time_windows"`
}

// TotalSlotsResponse суммарный остаток слотов по типу транзакции
type TotalSlotsResponse struct {
	TransactionTypeID int64 `json:"transaction_type_id"`
	TotalSlotsLeft    int   `json:"total_slots_left"`
}

// TotalPendingsResponse число ожидающих решения записей по типу транзакции
type TotalPendingsResponse struct {
	TransactionTypeID int64 `json:"transaction_type_id"`
	TotalPendings     int   `json:"total_pendings"`
}

// Методы конвертации

// ToDomainFilter конвертирует запрос выборки в domain фильтр
func (r *QueryRequest) ToDomainFilter() domain.AppointmentFilter {
	filter := domain.AppointmentFilter{
		AppointmentID:     r.AppointmentID,
		TransactionTypeID: r.TransactionTypeID,
		UserID:            r.UserID,
		AppointmentDate:   r.AppointmentDate,
		SchoolYear:        r.SchoolYear,
		Semester:          r.Semester,
	}
	if r.Status != nil {
		status := domain.AppointmentStatus(*r.Status)
		filter.Status = &status
	}
	return filter
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}
	return &AppointmentResponse{
		ID:                a.ID,
		TransactionTypeID: a.TransactionTypeID,
		UserID:            a.UserID,
		College:           a.College,
		AppointmentDate:   a.AppointmentDate.Format(domain.DateFormat),
		TimeFrame:         string(a.TimeFrame),
		Semester:          a.Semester,
		SchoolYear:        a.SchoolYear,
		Status:            string(a.Status),
		ApprovedBy:        a.ApprovedBy,
		StudentEmail:      a.StudentEmail,
		StudentID:         a.StudentID,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список записей в DTO
func FromDomainAppointmentList(appts []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appts)),
	}
	for _, a := range appts {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
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
		AvailabilityID:      tw.AvailabilityID,
		TransactionTypeID:   tw.TransactionTypeID,
		College:             tw.College,
		AvailabilityDate:    tw.AvailabilityDate.Format(domain.DateFormat),
		CapacityPerDay:      tw.CapacityPerDay,
		AvailabilityType:    string(tw.AvailabilityType),
		TotalAMAppointments: tw.TotalAMAppointments,
		TotalPMAppointments: tw.TotalPMAppointments,
		TotalSlotsLeft:      tw.TotalSlotsLeft,
	}
}

// FromDomainTimeWindowList конвертирует дневные записи в DTO
func FromDomainTimeWindowList(windows []*domain.TimeWindow) *TimeWindowListResponse {
	resp := &TimeWindowListResponse{
		TimeWindows: make([]TimeWindowResponse, 0, len(windows)),
	}
	for _, tw := range windows {
		resp.TimeWindows = append(resp.TimeWindows, *FromDomainTimeWindow(tw))
	}
	return resp
}
