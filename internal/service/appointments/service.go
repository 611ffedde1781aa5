package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	timewindowRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/timewindow"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис чтения и удаления записей на прием
type Service struct {
	appointmentRepo AppointmentRepository
	timewindowRepo  TimeWindowRepository
	txManager       TransactionManager
	auditor         Auditor
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей на прием
func NewService(
	appointmentRepo AppointmentRepository,
	timewindowRepo TimeWindowRepository,
	txManager TransactionManager,
	auditor Auditor,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		timewindowRepo:  timewindowRepo,
		txManager:       txManager,
		auditor:         auditor,
		logger:          logger,
	}
}

// Get возвращает записи на прием по фильтрам запроса
func (s *Service) Get(ctx context.Context, req *models.QueryRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("Get: fetching appointments with filter")

	if req.Status != nil && !domain.ValidDecision(*req.Status) && domain.AppointmentStatus(*req.Status) != domain.StatusPending {
		s.logger.Warn("Get: unknown appointment_status=%s", *req.Status)
		return nil, fmt.Errorf("%w: unknown appointment_status %q", ErrInvalidInput, *req.Status)
	}

	appts, err := s.appointmentRepo.GetWithFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: found %d appointments", len(appts))
	return models.FromDomainAppointmentList(appts), nil
}

// Remove удаляет запись на прием. Для записей в статусе Pending или Approved
// слот дневной записи освобождается в той же транзакции.
func (s *Service) Remove(ctx context.Context, id int64, actor string) (*models.RemoveResponse, error) {
	s.logger.Info("Remove: deleting appointment id=%d", id)

	var released bool
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		appt, txErr := s.appointmentRepo.GetByID(ctx, id)
		if txErr != nil {
			return txErr
		}

		// Слот возвращается той дневной записи, которая была зарезервирована
		// при создании, а не найденной заново по дате и области
		if appt.HoldsSlot() {
			switch {
			case appt.TimeWindowID == nil:
				// окно было удалено после создания записи
				s.logger.Warn("Remove: appointment id=%d has no time window on %s", id, appt.AppointmentDate.Format(domain.DateFormat))
			default:
				if _, relErr := s.timewindowRepo.Release(ctx, *appt.TimeWindowID, appt.TimeFrame); relErr != nil {
					if errors.Is(relErr, timewindowRepo.ErrNothingToRelease) || errors.Is(relErr, timewindowRepo.ErrWindowNotFound) {
						// счетчик уже на нуле, запись все равно удаляем
						s.logger.Warn("Remove: nothing to release for appointment id=%d, window id=%d: %v", id, *appt.TimeWindowID, relErr)
					} else {
						return relErr
					}
				} else {
					released = true
				}
			}
		}

		return s.appointmentRepo.Delete(ctx, id)
	})
	if err != nil {
		s.auditor.Audit(ctx, "deleteAppointment", actor, fmt.Sprintf("failed: %v", err))
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Remove: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Remove: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Remove - repository error: %v", ErrInternal, err)
	}

	s.auditor.Audit(ctx, "deleteAppointment", actor,
		fmt.Sprintf("appointment_id=%d slot_released=%t", id, released))

	s.logger.Info("Remove: deleted appointment id=%d, slot_released=%t", id, released)
	return &models.RemoveResponse{
		AppointmentID: id,
		SlotReleased:  released,
		Message:       fmt.Sprintf("Appointment %d has been deleted", id),
	}, nil
}

// GetTimewindow возвращает дневные записи на указанную дату
func (s *Service) GetTimewindow(ctx context.Context, date time.Time) (*models.TimeWindowListResponse, error) {
	s.logger.Info("GetTimewindow: fetching time windows for date=%s", date.Format(domain.DateFormat))

	windows, err := s.timewindowRepo.GetByDate(ctx, date)
	if err != nil {
		s.logger.Error("GetTimewindow: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetTimewindow - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTimewindow: found %d time windows for date=%s", len(windows), date.Format(domain.DateFormat))
	return models.FromDomainTimeWindowList(windows), nil
}

// FetchTotalSlots возвращает суммарный остаток слотов по типу транзакции.
// Для типа без окон возвращается ноль.
func (s *Service) FetchTotalSlots(ctx context.Context, transactionTypeID int64) (*models.TotalSlotsResponse, error) {
	s.logger.Info("FetchTotalSlots: counting slots for type=%d", transactionTypeID)

	total, err := s.timewindowRepo.TotalSlotsLeft(ctx, transactionTypeID)
	if err != nil {
		s.logger.Error("FetchTotalSlots: repository error for type=%d: %v", transactionTypeID, err)
		return nil, fmt.Errorf("%w: FetchTotalSlots - repository error: %v", ErrInternal, err)
	}

	return &models.TotalSlotsResponse{
		TransactionTypeID: transactionTypeID,
		TotalSlotsLeft:    total,
	}, nil
}

// FetchTotalPendings возвращает число ожидающих решения записей по типу транзакции.
// Для типа без записей возвращается ноль.
func (s *Service) FetchTotalPendings(ctx context.Context, transactionTypeID int64) (*models.TotalPendingsResponse, error) {
	s.logger.Info("FetchTotalPendings: counting pending appointments for type=%d", transactionTypeID)

	total, err := s.appointmentRepo.CountPending(ctx, transactionTypeID)
	if err != nil {
		s.logger.Error("FetchTotalPendings: repository error for type=%d: %v", transactionTypeID, err)
		return nil, fmt.Errorf("%w: FetchTotalPendings - repository error: %v", ErrInternal, err)
	}

	return &models.TotalPendingsResponse{
		TransactionTypeID: transactionTypeID,
		TotalPendings:     total,
	}, nil
}
