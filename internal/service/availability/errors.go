package availability

import "errors"

var (
	// ErrAvailabilityNotFound возвращается, когда окно доступности не найдено
	ErrAvailabilityNotFound = errors.New("availability not found")

	// ErrTransactionTypeNotFound возвращается, когда тип транзакции не найден
	ErrTransactionTypeNotFound = errors.New("transaction type not found")

	// ErrConflict возвращается, когда изменение окна несовместимо с уже
	// существующими записями на прием: удаление окна с активными записями
	// или уменьшение емкости ниже числа забронированных слотов
	ErrConflict = errors.New("availability conflicts with existing appointments")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability service: internal error")
)
