package timewindow

import "errors"

var (
	// ErrWindowNotFound возвращается, когда окно на дату/область не найдено
	ErrWindowNotFound = errors.New("timewindow.repository: time window not found")

	// ErrSlotNotAvailable возвращается, когда условное резервирование не прошло:
	// счетчик половины дня уже достиг capacity_per_day/2, слоты закончились
	// или тип доступности не разрешает эту половину дня
	ErrSlotNotAvailable = errors.New("timewindow.repository: slot not available")

	// ErrNothingToRelease возвращается при попытке освободить слот,
	// когда счетчик половины дня уже на нуле
	ErrNothingToRelease = errors.New("timewindow.repository: nothing to release")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timewindow.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timewindow.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timewindow.repository: failed to scan row")
)
