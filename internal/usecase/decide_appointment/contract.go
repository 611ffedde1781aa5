package decide_appointment

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на прием
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Decide(ctx context.Context, id int64, status domain.AppointmentStatus, approvedBy string, studentEmail, studentID *string) (*domain.Appointment, error)
}

// TimeWindowRepository интерфейс леджера слотов дневных записей
type TimeWindowRepository interface {
	Release(ctx context.Context, id int64, frame domain.TimeFrame) (*domain.TimeWindow, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс отправки уведомления студенту о принятом решении
type Notifier interface {
	AppointmentDecided(ctx context.Context, studentID string, appointmentID int64, status domain.AppointmentStatus, actor string)
}

// Auditor интерфейс журнала аудита
type Auditor interface {
	Audit(ctx context.Context, action, actor, details string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
