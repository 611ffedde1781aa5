package domain

import "time"

// AvailabilityType defines which half-days of a time window accept bookings
type AvailabilityType string

const (
	AvailabilityFull   AvailabilityType = "full"
	AvailabilityHalfAM AvailabilityType = "half_am"
	AvailabilityHalfPM AvailabilityType = "half_pm"
)

// ValidAvailabilityType reports whether s names a known availability type
func ValidAvailabilityType(s string) bool {
	switch AvailabilityType(s) {
	case AvailabilityFull, AvailabilityHalfAM, AvailabilityHalfPM:
		return true
	}
	return false
}

// Permits returns true if the availability type accepts bookings in the given half-day
func (t AvailabilityType) Permits(frame TimeFrame) bool {
	switch t {
	case AvailabilityFull:
		return true
	case AvailabilityHalfAM:
		return frame == TimeFrameAM
	case AvailabilityHalfPM:
		return frame == TimeFramePM
	}
	return false
}

// AvailabilityWindow represents a published booking window for a
// (transaction type, college, semester, school year) scope
type AvailabilityWindow struct {
	ID                int64
	TransactionTypeID int64
	College           *string // nil = window serves all colleges
	Semester          string
	SchoolYear        string
	StartDate         time.Time
	EndDate           time.Time
	CreatedBy         string
	CreatedAt         time.Time

	TimeWindows []TimeWindow
}

// IsAllColleges returns true if the window is not restricted to a single college
func (w *AvailabilityWindow) IsAllColleges() bool {
	return w.College == nil
}

// TimeWindow one calendar day's booking configuration and live slot ledger.
// Capacity is split evenly between the AM and PM halves.
type TimeWindow struct {
	ID                  int64
	AvailabilityID      int64
	TransactionTypeID   int64
	College             *string
	AvailabilityDate    time.Time
	CapacityPerDay      int
	AvailabilityType    AvailabilityType
	TotalAMAppointments int
	TotalPMAppointments int
	TotalSlotsLeft      int
}

// HalfDayCapacity returns the slot capacity of one half-day
func (t *TimeWindow) HalfDayCapacity() int {
	return t.CapacityPerDay / 2
}

// HalfDayCount returns the booked counter for the given half-day
func (t *TimeWindow) HalfDayCount(frame TimeFrame) int {
	if frame == TimeFrameAM {
		return t.TotalAMAppointments
	}
	return t.TotalPMAppointments
}

// CanReserve returns true if one slot unit in the given half-day can still be taken
func (t *TimeWindow) CanReserve(frame TimeFrame) bool {
	if !t.AvailabilityType.Permits(frame) {
		return false
	}
	if t.TotalSlotsLeft <= 0 {
		return false
	}
	return t.HalfDayCount(frame) < t.HalfDayCapacity()
}

// IsFull returns true if no slot units remain in any permitted half-day
func (t *TimeWindow) IsFull() bool {
	return t.TotalSlotsLeft <= 0
}

// AvailabilityFilter filter for availability window queries.
// Nil fields widen the result set.
type AvailabilityFilter struct {
	SearchKey  *string // case-insensitive substring match on transaction type title
	College    *string
	Semester   *string
	SchoolYear *string
}
