package submit_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на прием
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetActive(ctx context.Context, userID string, transactionTypeID int64, semester, schoolYear string) (*domain.Appointment, error)
}

// TimeWindowRepository интерфейс леджера слотов дневных записей
type TimeWindowRepository interface {
	GetForDateScope(ctx context.Context, date time.Time, transactionTypeID int64, college *string) (*domain.TimeWindow, error)
	Reserve(ctx context.Context, id int64, frame domain.TimeFrame) (*domain.TimeWindow, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Auditor интерфейс журнала аудита
type Auditor interface {
	Audit(ctx context.Context, action, actor, details string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
