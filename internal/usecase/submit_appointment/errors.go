package submit_appointment

import "errors"

var (
	// ErrDuplicateActiveAppointment возвращается, когда у пользователя уже есть
	// запись в статусе Pending или Approved в той же области
	// (тип транзакции, семестр, учебный год)
	ErrDuplicateActiveAppointment = errors.New("submit_appointment: user already has an active appointment")

	// ErrWindowNotFound возвращается, когда на дату и область нет опубликованного окна
	ErrWindowNotFound = errors.New("submit_appointment: no time window for this date")

	// ErrTimeFrameNotAllowed возвращается, когда тип доступности окна
	// не разрешает выбранную половину дня
	ErrTimeFrameNotAllowed = errors.New("submit_appointment: time frame is not allowed by the window")

	// ErrSlotNotAvailable возвращается, когда слоты выбранной половины дня исчерпаны
	ErrSlotNotAvailable = errors.New("submit_appointment: slot is not available")

	// ErrInvalidDate возвращается при дате записи в прошлом
	ErrInvalidDate = errors.New("submit_appointment: invalid appointment date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_appointment: internal error")
)
