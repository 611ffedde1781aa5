package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на прием
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetWithFilter(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	Delete(ctx context.Context, id int64) error
	CountPending(ctx context.Context, transactionTypeID int64) (int, error)
}

// TimeWindowRepository интерфейс леджера слотов дневных записей
type TimeWindowRepository interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.TimeWindow, error)
	Release(ctx context.Context, id int64, frame domain.TimeFrame) (*domain.TimeWindow, error)
	TotalSlotsLeft(ctx context.Context, transactionTypeID int64) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
