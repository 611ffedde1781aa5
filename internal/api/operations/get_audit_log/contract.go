package get_audit_log

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

type AuditLog interface {
	Recent(ctx context.Context, limit uint64) ([]*domain.AuditRecord, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
