package get_timewindow

import (
	"context"
	"time"

	apptModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetTimewindow(ctx context.Context, date time.Time) (*apptModels.TimeWindowListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
