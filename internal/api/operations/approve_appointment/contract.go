package approve_appointment

import (
	"context"

	decideAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/decide_appointment"
)

type DecideAppointmentUseCase interface {
	Execute(ctx context.Context, req *decideAppointment.Request) (*decideAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
