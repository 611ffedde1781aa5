package insert_transaction_type

import (
	"context"

	refModels "github.com/m04kA/SMC-AppointmentService/internal/service/reference/models"
)

type ReferenceService interface {
	Create(ctx context.Context, req *refModels.CreateTransactionTypeRequest) (*refModels.TransactionTypeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
