package submit_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: user_id must not be empty", ErrInvalidInput)
	}

	if req.TransactionTypeID <= 0 {
		return fmt.Errorf("%w: transaction_type_id must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: appointment_date is required", ErrInvalidInput)
	}

	if isDateInPast(req.Date, now) {
		return ErrInvalidDate
	}

	if !domain.ValidTimeFrame(req.TimeFrame) {
		return fmt.Errorf("%w: time_frame must be AM or PM", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Semester) == "" {
		return fmt.Errorf("%w: semester must not be empty", ErrInvalidInput)
	}

	if strings.TrimSpace(req.SchoolYear) == "" {
		return fmt.Errorf("%w: school_year must not be empty", ErrInvalidInput)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
