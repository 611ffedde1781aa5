package decide_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	// или уже решена и больше не ожидает решения
	ErrAppointmentNotFound = errors.New("decide_appointment: appointment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("decide_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("decide_appointment: internal error")
)
