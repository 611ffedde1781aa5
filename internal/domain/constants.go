package domain

// Time format constants
const (
	DateFormat      = "2006-01-02"          // YYYY-MM-DD
	TimestampFormat = "2006-01-02 15:04:05" // audit log timestamps
)

// Business validation constants
const (
	MinCapacityPerDay = 2
	MaxCapacityPerDay = 1000
	MaxWindowDays     = 366 // longest allowed start_date..end_date range
)

// ActiveStatuses статусы, при которых запись удерживает слот.
// Используется при проверке дубликатов и при блокировке удаления окон.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusApproved,
}
