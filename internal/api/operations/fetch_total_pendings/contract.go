package fetch_total_pendings

import (
	"context"

	apptModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	FetchTotalPendings(ctx context.Context, transactionTypeID int64) (*apptModels.TotalPendingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
