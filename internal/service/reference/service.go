package reference

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/service/reference/models"
)

// Service сервис каталога типов транзакций
type Service struct {
	typeRepo TransactionTypeRepository
	auditor  Auditor
	logger   Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(typeRepo TransactionTypeRepository, auditor Auditor, logger Logger) *Service {
	return &Service{
		typeRepo: typeRepo,
		auditor:  auditor,
		logger:   logger,
	}
}

// GetAll возвращает все типы транзакций каталога
func (s *Service) GetAll(ctx context.Context) (*models.TransactionTypeListResponse, error) {
	s.logger.Info("GetAll: fetching transaction types")

	types, err := s.typeRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("GetAll: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetAll - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAll: found %d transaction types", len(types))
	return models.FromDomainTransactionTypeList(types), nil
}

// Create добавляет новый тип транзакции в каталог
func (s *Service) Create(ctx context.Context, req *models.CreateTransactionTypeRequest) (*models.TransactionTypeResponse, error) {
	s.logger.Info("Create: creating transaction type title=%s", req.Title)

	if strings.TrimSpace(req.Title) == "" {
		s.logger.Warn("Create: empty transaction_title")
		s.auditor.Audit(ctx, "insertTransactionType", req.CreatedBy, "failed: transaction_title must not be empty")
		return nil, fmt.Errorf("%w: transaction_title must not be empty", ErrInvalidInput)
	}

	created, err := s.typeRepo.Create(ctx, req.ToDomain())
	if err != nil {
		s.logger.Error("Create: repository error for title=%s: %v", req.Title, err)
		s.auditor.Audit(ctx, "insertTransactionType", req.CreatedBy, fmt.Sprintf("failed: %v", err))
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.auditor.Audit(ctx, "insertTransactionType", req.CreatedBy,
		fmt.Sprintf("transaction_type_id=%d title=%s", created.ID, created.Title))

	s.logger.Info("Create: created transaction type id=%d", created.ID)
	return models.FromDomainTransactionType(created), nil
}
