package fetch_total_pendings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload    = "malformed payload for fetchTotalPendings"
	msgPersistenceFailed = "failed to count pending appointments"
)

// Request payload операции fetchTotalPendings
type Request struct {
	TransactionTypeID *int64 `json:"transaction_type_id"`
}

// Validate собирает список отсутствующих обязательных полей
func (r *Request) Validate() error {
	var check validate.Checker
	check.Require("transaction_type_id", r.TransactionTypeID != nil)
	return check.Err()
}

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle операция fetchTotalPendings
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("fetchTotalPendings - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("fetchTotalPendings - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	result, err := h.service.FetchTotalPendings(ctx, *req.TransactionTypeID)
	if err != nil {
		h.logger.Error("fetchTotalPendings - failed: %v", err)
		return dispatch.FailPersistence(msgPersistenceFailed, payload)
	}

	h.logger.Info("fetchTotalPendings - type=%d has %d pending appointments", result.TransactionTypeID, result.TotalPendings)
	return dispatch.OK(result)
}
