package get_transaction_type

import (
	"context"
	"encoding/json"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
)

const msgPersistenceFailed = "failed to fetch transaction types"

type Handler struct {
	service ReferenceService
	logger  Logger
}

func NewHandler(service ReferenceService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle операция getTransactionType; payload не используется
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	result, err := h.service.GetAll(ctx)
	if err != nil {
		h.logger.Error("getTransactionType - failed: %v", err)
		return dispatch.FailPersistence(msgPersistenceFailed, payload)
	}

	h.logger.Info("getTransactionType - returned %d transaction types", len(result.TransactionTypes))
	return dispatch.OK(result)
}
