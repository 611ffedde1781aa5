package fetch_total_slots

import (
	"context"

	apptModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	FetchTotalSlots(ctx context.Context, transactionTypeID int64) (*apptModels.TotalSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
