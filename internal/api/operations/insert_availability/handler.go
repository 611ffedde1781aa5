package insert_availability

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	availability "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload      = "malformed payload for insertAvailability"
	msgTypeNotFound        = "transaction type not found"
	msgAvailabilityCreated = "availability has been created"
	msgPersistenceFailed   = "failed to persist availability"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle операция insertAvailability
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("insertAvailability - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("insertAvailability - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	svcReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("insertAvailability - failed to parse payload: %v", err)
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	result, err := h.service.Insert(ctx, svcReq)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("insertAvailability - validation failed: %v", err)
			return dispatch.Fail(dispatch.KindValidation, err.Error())

		case errors.Is(err, availability.ErrTransactionTypeNotFound):
			h.logger.Warn("insertAvailability - transaction type id=%d not found", *req.TransactionTypeID)
			return dispatch.Fail(dispatch.KindNotFound, msgTypeNotFound)

		default:
			h.logger.Error("insertAvailability - failed: %v", err)
			return dispatch.FailPersistence(msgPersistenceFailed, payload)
		}
	}

	h.logger.Info("insertAvailability - created availability id=%d", result.ID)
	return dispatch.OKMessage(result, msgAvailabilityCreated)
}
