// Package notify реализует диспетчер уведомлений: живой пуш в подключенную
// сессию пользователя плюс долговременная запись в журнал аудита.
//
// Пуш - это сигнал-удобство: не более одной попытки, без очереди для офлайн
// пользователей. Журнал аудита пишется независимо от результата доставки и
// является источником правды о том, что произошло.
package notify

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/ws"
)

// Dispatcher диспетчер уведомлений о переходах состояния записей
type Dispatcher struct {
	pusher    Pusher
	auditRepo AuditRepository
	logger    Logger
}

// NewDispatcher создает диспетчер
func NewDispatcher(pusher Pusher, auditRepo AuditRepository, logger Logger) *Dispatcher {
	return &Dispatcher{
		pusher:    pusher,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// AppointmentDecided уведомляет студента о решении по его записи и пишет
// запись в журнал аудита. Ошибки обоих шагов логируются и не возвращаются:
// зафиксированный переход состояния они откатить не должны.
func (d *Dispatcher) AppointmentDecided(ctx context.Context, studentID string, appointmentID int64, status domain.AppointmentStatus, actor string) {
	event := domain.NotificationEvent{
		Message: fmt.Sprintf("Your Appointment %d has been %s", appointmentID, status),
		Status:  string(status),
	}

	delivered := d.pusher.Publish(studentID, ws.EventAppointmentUpdate, map[string]string{
		"message": event.Message,
		"status":  event.Status,
	})
	if !delivered {
		d.logger.Info("notify: student=%s offline, appointmentUpdate not delivered", studentID)
	}

	d.Audit(ctx, "approveAppointment", actor,
		fmt.Sprintf("Appointment %d %s; push delivered=%t", appointmentID, status, delivered))
}

// Recent возвращает последние записи журнала аудита
func (d *Dispatcher) Recent(ctx context.Context, limit uint64) ([]*domain.AuditRecord, error) {
	return d.auditRepo.GetRecent(ctx, limit)
}

// Audit добавляет запись в журнал аудита; ошибка записи логируется и глотается
func (d *Dispatcher) Audit(ctx context.Context, action, actor, details string) {
	record := &domain.AuditRecord{
		Action:  action,
		Actor:   actor,
		Details: details,
	}
	if err := d.auditRepo.Append(ctx, record); err != nil {
		d.logger.Error("notify: audit append failed action=%s actor=%s: %v", action, actor, err)
	}
}
