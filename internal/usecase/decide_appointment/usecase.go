package decide_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	timewindowRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/timewindow"
)

// UseCase use case решения по записи на прием
type UseCase struct {
	appointmentRepo AppointmentRepository
	timewindowRepo  TimeWindowRepository
	txManager       TransactionManager
	notifier        Notifier
	auditor         Auditor
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	timewindowRepo TimeWindowRepository,
	txManager TransactionManager,
	notifier Notifier,
	auditor Auditor,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		timewindowRepo:  timewindowRepo,
		txManager:       txManager,
		notifier:        notifier,
		auditor:         auditor,
		logger:          logger,
	}
}

// Execute выполняет use case решения по записи.
// Переход и освобождение слота при отклонении идут в одной сериализуемой
// транзакции; уведомление отправляется после фиксации и не влияет на результат.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DecideAppointment: appointment=%d, decision=%s, by=%s", req.AppointmentID, req.Decision, req.ApprovedBy)

	// 1. Валидация входных данных. Неудачные попытки тоже попадают в журнал аудита
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("DecideAppointment: validation failed: %v", err)
		uc.auditor.Audit(ctx, "approveAppointment", req.ApprovedBy, fmt.Sprintf("failed: %v", err))
		return nil, err
	}

	decision := domain.AppointmentStatus(req.Decision)

	var decided *domain.Appointment
	var released bool

	// 2. Переход статуса и корректировка леджера в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Берем запись с блокировкой (FOR UPDATE)
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("DecideAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// Решенная запись для повторного решения не видна
		if !appt.CanBeDecided() {
			uc.logger.Warn("DecideAppointment: appointment id=%d is already %s", appt.ID, appt.Status)
			return ErrAppointmentNotFound
		}

		// 2.2. Отклонение возвращает слот той дневной записи, которая была
		// зарезервирована при создании. Поиск окна по дате и области здесь
		// не годится: он может найти другое окно той же области.
		if decision == domain.StatusDeclined {
			switch {
			case appt.TimeWindowID == nil:
				// окно было удалено после создания записи
				uc.logger.Warn("DecideAppointment: appointment id=%d has no time window on %s",
					appt.ID, appt.AppointmentDate.Format(domain.DateFormat))
			default:
				if _, relErr := uc.timewindowRepo.Release(txCtx, *appt.TimeWindowID, appt.TimeFrame); relErr != nil {
					if errors.Is(relErr, timewindowRepo.ErrNothingToRelease) || errors.Is(relErr, timewindowRepo.ErrWindowNotFound) {
						uc.logger.Warn("DecideAppointment: nothing to release for appointment id=%d, window id=%d: %v",
							appt.ID, *appt.TimeWindowID, relErr)
					} else {
						uc.logger.Error("DecideAppointment: failed to release slot: %v", relErr)
						return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, relErr)
					}
				} else {
					released = true
				}
			}
		}

		// 2.3. Переход статуса с предусловием Pending
		decided, err = uc.appointmentRepo.Decide(txCtx, req.AppointmentID, decision, req.ApprovedBy, req.StudentEmail, req.StudentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotPending) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("DecideAppointment: failed to decide appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to decide appointment: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		uc.auditor.Audit(ctx, "approveAppointment", req.ApprovedBy, fmt.Sprintf("failed: %v", err))
		return nil, err
	}

	// 3. Уведомление студента после фиксации; сбой доставки не откатывает решение
	uc.notifier.AppointmentDecided(ctx, decided.UserID, decided.ID, decided.Status, req.ApprovedBy)

	uc.logger.Info("DecideAppointment: appointment id=%d is now %s, slot_released=%t", decided.ID, decided.Status, released)

	return &Response{
		ID:                decided.ID,
		UserID:            decided.UserID,
		TransactionTypeID: decided.TransactionTypeID,
		AppointmentDate:   decided.AppointmentDate,
		TimeFrame:         string(decided.TimeFrame),
		Status:            string(decided.Status),
		ApprovedBy:        req.ApprovedBy,
		SlotReleased:      released,
		UpdatedAt:         decided.UpdatedAt,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointment_id must be positive", ErrInvalidInput)
	}

	if !domain.ValidDecision(req.Decision) {
		return fmt.Errorf("%w: appointment_status must be Approved or Declined", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ApprovedBy) == "" {
		return fmt.Errorf("%w: approved_by must not be empty", ErrInvalidInput)
	}

	return nil
}
