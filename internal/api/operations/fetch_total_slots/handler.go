package fetch_total_slots

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload    = "malformed payload for fetchTotalSlots"
	msgPersistenceFailed = "failed to count remaining slots"
)

// Request payload операции fetchTotalSlots
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

// Handle операция fetchTotalSlots
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("fetchTotalSlots - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("fetchTotalSlots - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	result, err := h.service.FetchTotalSlots(ctx, *req.TransactionTypeID)
	if err != nil {
		h.logger.Error("fetchTotalSlots - failed: %v", err)
		return dispatch.FailPersistence(msgPersistenceFailed, payload)
	}

	h.logger.Info("fetchTotalSlots - type=%d has %d slots left", result.TransactionTypeID, result.TotalSlotsLeft)
	return dispatch.OK(result)
}
