package submit_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	timewindowRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/timewindow"
)

// UseCase use case создания записи на прием
type UseCase struct {
	appointmentRepo AppointmentRepository
	timewindowRepo  TimeWindowRepository
	txManager       TransactionManager
	auditor         Auditor
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	timewindowRepo TimeWindowRepository,
	txManager TransactionManager,
	auditor Auditor,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		timewindowRepo:  timewindowRepo,
		txManager:       txManager,
		auditor:         auditor,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи на прием
// Использует сериализуемую транзакцию для предотвращения гонки данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitAppointment: user=%s, type=%d, date=%s, frame=%s, semester=%s, school_year=%s",
		req.UserID, req.TransactionTypeID, req.Date.Format(domain.DateFormat), req.TimeFrame, req.Semester, req.SchoolYear)

	// 1. Валидация входных данных. Неудачные попытки тоже попадают в журнал аудита
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("SubmitAppointment: validation failed: %v", err)
		uc.auditor.Audit(ctx, "insertAppointment", req.UserID, fmt.Sprintf("failed: %v", err))
		return nil, err
	}

	frame := domain.TimeFrame(req.TimeFrame)

	var created *domain.Appointment
	var window *domain.TimeWindow

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Проверяем, что у пользователя еще нет активной записи в этой области
		active, err := uc.appointmentRepo.GetActive(txCtx, req.UserID, req.TransactionTypeID, req.Semester, req.SchoolYear)
		if err != nil && !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Error("SubmitAppointment: failed to check active appointment for user=%s: %v", req.UserID, err)
			return fmt.Errorf("%w: failed to check active appointment: %v", ErrInternal, err)
		}
		if active != nil {
			uc.logger.Warn("SubmitAppointment: user=%s already has active appointment id=%d", req.UserID, active.ID)
			return ErrDuplicateActiveAppointment
		}

		// 2.2. Находим дневную запись на дату и область с блокировкой (FOR UPDATE)
		window, err = uc.timewindowRepo.GetForDateScope(txCtx, req.Date, req.TransactionTypeID, req.College)
		if err != nil {
			if errors.Is(err, timewindowRepo.ErrWindowNotFound) {
				uc.logger.Warn("SubmitAppointment: no time window for date=%s, type=%d",
					req.Date.Format(domain.DateFormat), req.TransactionTypeID)
				return ErrWindowNotFound
			}
			uc.logger.Error("SubmitAppointment: failed to get time window: %v", err)
			return fmt.Errorf("%w: failed to get time window: %v", ErrInternal, err)
		}

		// 2.3. Проверяем половину дня и остаток слотов до условного резервирования,
		// чтобы вернуть точную причину отказа
		if !window.AvailabilityType.Permits(frame) {
			uc.logger.Warn("SubmitAppointment: frame=%s not allowed by window id=%d (type=%s)",
				frame, window.ID, window.AvailabilityType)
			return ErrTimeFrameNotAllowed
		}
		if !window.CanReserve(frame) {
			uc.logger.Warn("SubmitAppointment: window id=%d has no slots for frame=%s (%d/%d, left=%d)",
				window.ID, frame, window.HalfDayCount(frame), window.HalfDayCapacity(), window.TotalSlotsLeft)
			return ErrSlotNotAvailable
		}

		// 2.4. Резервируем слот условным обновлением счетчиков
		window, err = uc.timewindowRepo.Reserve(txCtx, window.ID, frame)
		if err != nil {
			if errors.Is(err, timewindowRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("SubmitAppointment: reserve lost the race for window id=%d, frame=%s", window.ID, frame)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("SubmitAppointment: failed to reserve slot: %v", err)
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}

		// 2.5. Создаем запись в статусе Pending.
		// Ссылка на дневную запись фиксируется на записи: освобождение слота
		// при отклонении или удалении идет по ней, а не по повторному поиску окна.
		appt := &domain.Appointment{
			TransactionTypeID: req.TransactionTypeID,
			TimeWindowID:      &window.ID,
			UserID:            req.UserID,
			College:           req.College,
			AppointmentDate:   req.Date,
			TimeFrame:         frame,
			Semester:          req.Semester,
			SchoolYear:        req.SchoolYear,
			Status:            domain.StatusPending,
			StudentEmail:      req.StudentEmail,
			StudentID:         req.StudentID,
		}

		created, err = uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("SubmitAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		uc.auditor.Audit(ctx, "insertAppointment", req.UserID, fmt.Sprintf("failed: %v", err))
		return nil, err
	}

	uc.auditor.Audit(ctx, "insertAppointment", req.UserID,
		fmt.Sprintf("appointment_id=%d time_window_id=%d frame=%s", created.ID, window.ID, frame))

	uc.logger.Info("SubmitAppointment: created appointment id=%d, window id=%d, slots left=%d",
		created.ID, window.ID, window.TotalSlotsLeft)

	return &Response{
		ID:                created.ID,
		UserID:            created.UserID,
		TransactionTypeID: created.TransactionTypeID,
		College:           created.College,
		AppointmentDate:   created.AppointmentDate,
		TimeFrame:         string(created.TimeFrame),
		Semester:          created.Semester,
		SchoolYear:        created.SchoolYear,
		Status:            string(created.Status),
		TimeWindowID:      window.ID,
		TotalSlotsLeft:    window.TotalSlotsLeft,
		CreatedAt:         created.CreatedAt,
		UpdatedAt:         created.UpdatedAt,
	}, nil
}
