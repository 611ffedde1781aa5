package transactiontype

import "errors"

var (
	// ErrTypeNotFound возвращается, когда тип транзакции не найден
	ErrTypeNotFound = errors.New("transactiontype.repository: transaction type not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("transactiontype.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("transactiontype.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("transactiontype.repository: failed to scan row")
)
