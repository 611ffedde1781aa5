package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	typeRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/transactiontype"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
)

// Service сервис для работы с окнами доступности
type Service struct {
	availabilityRepo AvailabilityRepository
	typeRepo         TransactionTypeRepository
	txManager        TransactionManager
	auditor          Auditor
	logger           Logger
}

// NewService создает новый экземпляр сервиса окон доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	typeRepo TransactionTypeRepository,
	txManager TransactionManager,
	auditor Auditor,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		typeRepo:         typeRepo,
		txManager:        txManager,
		auditor:          auditor,
		logger:           logger,
	}
}

// Insert публикует новое окно доступности вместе с дневными записями.
// Счетчики слотов новых записей нулевые, остаток равен дневной емкости.
func (s *Service) Insert(ctx context.Context, req *models.CreateRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Insert: creating availability for type=%d, semester=%s, school_year=%s", req.TransactionTypeID, req.Semester, req.SchoolYear)

	// Журнал аудита фиксирует и неудавшиеся административные действия
	if err := s.validateWindow(req.StartDate, req.EndDate, req.TimeWindows); err != nil {
		s.logger.Warn("Insert: validation failed: %v", err)
		s.auditor.Audit(ctx, "insertAvailability", req.CreatedBy, fmt.Sprintf("failed: %v", err))
		return nil, err
	}

	if err := s.checkTransactionType(ctx, req.TransactionTypeID); err != nil {
		s.auditor.Audit(ctx, "insertAvailability", req.CreatedBy, fmt.Sprintf("failed: %v", err))
		return nil, err
	}

	var created *domain.AvailabilityWindow
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var txErr error
		created, txErr = s.availabilityRepo.Create(ctx, req.ToDomainWindow())
		return txErr
	})
	if err != nil {
		s.logger.Error("Insert: repository error for type=%d: %v", req.TransactionTypeID, err)
		s.auditor.Audit(ctx, "insertAvailability", req.CreatedBy, fmt.Sprintf("failed: %v", err))
		return nil, fmt.Errorf("%w: Insert - repository error: %v", ErrInternal, err)
	}

	s.auditor.Audit(ctx, "insertAvailability", req.CreatedBy,
		fmt.Sprintf("availability_id=%d transaction_type_id=%d days=%d", created.ID, created.TransactionTypeID, len(created.TimeWindows)))

	s.logger.Info("Insert: created availability id=%d with %d time windows", created.ID, len(created.TimeWindows))
	return models.FromDomainWindow(created), nil
}

// Update обновляет окно доступности, полностью заменяя набор дневных записей.
// Счетчики уже забронированных дней переносятся в новые записи по дате.
func (s *Service) Update(ctx context.Context, req *models.UpdateRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Update: updating availability id=%d", req.AvailabilityID)

	if err := s.validateWindow(req.StartDate, req.EndDate, req.TimeWindows); err != nil {
		s.logger.Warn("Update: validation failed for id=%d: %v", req.AvailabilityID, err)
		s.auditor.Audit(ctx, "updateAvailability", req.UserID, fmt.Sprintf("failed: %v", err))
		return nil, err
	}

	if err := s.checkTransactionType(ctx, req.TransactionTypeID); err != nil {
		s.auditor.Audit(ctx, "updateAvailability", req.UserID, fmt.Sprintf("failed: %v", err))
		return nil, err
	}

	var updated *domain.AvailabilityWindow
	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var txErr error
		updated, txErr = s.availabilityRepo.Update(ctx, req.ToDomainWindow())
		return txErr
	})
	if err != nil {
		s.auditor.Audit(ctx, "updateAvailability", req.UserID, fmt.Sprintf("failed: %v", err))
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Warn("Update: availability id=%d not found", req.AvailabilityID)
			return nil, ErrAvailabilityNotFound
		}
		if errors.Is(err, availabilityRepo.ErrCapacityConflict) {
			s.logger.Warn("Update: availability id=%d capacity conflict: %v", req.AvailabilityID, err)
			return nil, fmt.Errorf("%w: new capacity does not cover booked appointments", ErrConflict)
		}
		s.logger.Error("Update: repository error for id=%d: %v", req.AvailabilityID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.auditor.Audit(ctx, "updateAvailability", req.UserID,
		fmt.Sprintf("availability_id=%d days=%d", updated.ID, len(updated.TimeWindows)))

	s.logger.Info("Update: updated availability id=%d", updated.ID)
	return models.FromDomainWindow(updated), nil
}

// Get возвращает окна доступности по фильтрам запроса
func (s *Service) Get(ctx context.Context, req *models.QueryRequest) (*models.AvailabilityListResponse, error) {
	s.logger.Info("Get: fetching availabilities with filter: %s", describeFilter(req))

	windows, err := s.availabilityRepo.GetWithFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: found %d availabilities", len(windows))
	return models.FromDomainWindowList(windows), nil
}

// Delete удаляет окно доступности вместе с дневными записями.
// Окно, на записи которого ссылаются активные записи на прием, не удаляется.
func (s *Service) Delete(ctx context.Context, id int64, userID string) error {
	s.logger.Info("Delete: deleting availability id=%d", id)

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		busy, txErr := s.availabilityRepo.HasActiveAppointments(ctx, id)
		if txErr != nil {
			return txErr
		}
		if busy {
			return ErrConflict
		}
		return s.availabilityRepo.Delete(ctx, id)
	})
	if err != nil {
		s.auditor.Audit(ctx, "deleteAvailability", userID, fmt.Sprintf("failed: %v", err))
		if errors.Is(err, ErrConflict) {
			s.logger.Warn("Delete: availability id=%d has active appointments", id)
			return ErrConflict
		}
		if errors.Is(err, availabilityRepo.ErrAvailabilityNotFound) {
			s.logger.Warn("Delete: availability id=%d not found", id)
			return ErrAvailabilityNotFound
		}
		s.logger.Error("Delete: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.auditor.Audit(ctx, "deleteAvailability", userID, fmt.Sprintf("availability_id=%d", id))

	s.logger.Info("Delete: deleted availability id=%d", id)
	return nil
}

// checkTransactionType проверяет, что тип транзакции существует в каталоге
func (s *Service) checkTransactionType(ctx context.Context, id int64) error {
	if _, err := s.typeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, typeRepo.ErrTypeNotFound) {
			s.logger.Warn("checkTransactionType: transaction type id=%d not found", id)
			return ErrTransactionTypeNotFound
		}
		s.logger.Error("checkTransactionType: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: checkTransactionType - repository error: %v", ErrInternal, err)
	}
	return nil
}

// validateWindow проверяет диапазон дат и набор дневных записей окна
func (s *Service) validateWindow(startDate, endDate time.Time, windows []models.TimeWindowInput) error {
	if endDate.Before(startDate) {
		return fmt.Errorf("%w: end_date is before start_date", ErrInvalidInput)
	}
	if endDate.Sub(startDate) > time.Duration(domain.MaxWindowDays)*24*time.Hour {
		return fmt.Errorf("%w: date range exceeds %d days", ErrInvalidInput, domain.MaxWindowDays)
	}
	if len(windows) == 0 {
		return fmt.Errorf("%w: at least one time window is required", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(windows))
	for _, tw := range windows {
		day := tw.AvailabilityDate.Format(domain.DateFormat)
		if _, ok := seen[day]; ok {
			return fmt.Errorf("%w: duplicate time window for date %s", ErrInvalidInput, day)
		}
		seen[day] = struct{}{}

		if tw.AvailabilityDate.Before(startDate) || tw.AvailabilityDate.After(endDate) {
			return fmt.Errorf("%w: time window date %s is outside the availability range", ErrInvalidInput, day)
		}
		if tw.CapacityPerDay < domain.MinCapacityPerDay || tw.CapacityPerDay > domain.MaxCapacityPerDay {
			return fmt.Errorf("%w: capacity_per_day must be between %d and %d", ErrInvalidInput, domain.MinCapacityPerDay, domain.MaxCapacityPerDay)
		}
		if tw.CapacityPerDay%2 != 0 {
			return fmt.Errorf("%w: capacity_per_day must be even", ErrInvalidInput)
		}
		if !domain.ValidAvailabilityType(tw.AvailabilityType) {
			return fmt.Errorf("%w: unknown availability_type %q", ErrInvalidInput, tw.AvailabilityType)
		}
	}

	return nil
}

// describeFilter собирает краткое описание фильтров для лога
func describeFilter(req *models.QueryRequest) string {
	parts := make([]string, 0, 4)
	if req.SearchKey != nil {
		parts = append(parts, "searchkey="+*req.SearchKey)
	}
	if req.College != nil {
		parts = append(parts, "college="+*req.College)
	}
	if req.Semester != nil {
		parts = append(parts, "semester="+*req.Semester)
	}
	if req.SchoolYear != nil {
		parts = append(parts, "school_year="+*req.SchoolYear)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
