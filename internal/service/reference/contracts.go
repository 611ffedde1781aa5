package reference

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// TransactionTypeRepository интерфейс каталога типов транзакций
type TransactionTypeRepository interface {
	Create(ctx context.Context, tt *domain.TransactionType) (*domain.TransactionType, error)
	GetAll(ctx context.Context) ([]*domain.TransactionType, error)
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
