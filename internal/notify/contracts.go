package notify

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Pusher интерфейс живого канала доставки (websocket hub)
type Pusher interface {
	Publish(userID string, event string, data interface{}) bool
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Append(ctx context.Context, record *domain.AuditRecord) error
	GetRecent(ctx context.Context, limit uint64) ([]*domain.AuditRecord, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
