package domain

import "time"

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending  AppointmentStatus = "Pending"
	StatusApproved AppointmentStatus = "Approved"
	StatusDeclined AppointmentStatus = "Declined"
)

// TimeFrame represents the half-day window an appointment occupies
type TimeFrame string

const (
	TimeFrameAM TimeFrame = "AM"
	TimeFramePM TimeFrame = "PM"
)

// Appointment represents a single student's request for one half-day slot
type Appointment struct {
	ID                int64
	TransactionTypeID int64
	TimeWindowID      *int64 // day record whose slot the appointment reserved; nil once the window is deleted
	UserID            string
	College           *string // nil = student's college is not bound to a specific window scope
	AppointmentDate   time.Time
	TimeFrame         TimeFrame
	Semester          string
	SchoolYear        string
	Status            AppointmentStatus
	ApprovedBy        *string
	StudentEmail      *string
	StudentID         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true while the appointment holds a slot unit
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusApproved
}

// IsTerminal returns true once the appointment has been decided
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusApproved || a.Status == StatusDeclined
}

// CanBeDecided returns true if the appointment still awaits an admin decision
func (a *Appointment) CanBeDecided() bool {
	return a.Status == StatusPending
}

// HoldsSlot returns true if removing the appointment must release its slot unit
func (a *Appointment) HoldsSlot() bool {
	return a.Status == StatusPending || a.Status == StatusApproved
}

// ValidTimeFrame reports whether s names a known half-day window
func ValidTimeFrame(s string) bool {
	return TimeFrame(s) == TimeFrameAM || TimeFrame(s) == TimeFramePM
}

// ValidDecision reports whether s is a status an admin decision may set
func ValidDecision(s string) bool {
	return AppointmentStatus(s) == StatusApproved || AppointmentStatus(s) == StatusDeclined
}

// AppointmentFilter flexible filter for appointment queries.
// Nil fields match everything (the API maps empty-string wildcards to nil).
type AppointmentFilter struct {
	AppointmentID     *int64
	Status            *AppointmentStatus
	TransactionTypeID *int64
	UserID            *string
	AppointmentDate   *time.Time
	SchoolYear        *string
	Semester          *string
}
