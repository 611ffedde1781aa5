package availability

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	Create(ctx context.Context, window *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error)
	Update(ctx context.Context, window *domain.AvailabilityWindow) (*domain.AvailabilityWindow, error)
	GetWithFilter(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailabilityWindow, error)
	Delete(ctx context.Context, id int64) error
	HasActiveAppointments(ctx context.Context, availabilityID int64) (bool, error)
}

// TransactionTypeRepository интерфейс каталога типов транзакций
type TransactionTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TransactionType, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Auditor интерфейс журнала аудита действий администратора
type Auditor interface {
	Audit(ctx context.Context, action, actor, details string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
