package update_availability

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	availability "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload      = "malformed payload for updateAvailability"
	msgNotFound            = "availability not found"
	msgTypeNotFound        = "transaction type not found"
	msgCapacityConflict    = "new capacity does not cover appointments already booked on these dates"
	msgAvailabilityUpdated = "availability has been updated"
	msgPersistenceFailed   = "failed to persist availability"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle операция updateAvailability
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("updateAvailability - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("updateAvailability - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	svcReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("updateAvailability - failed to parse payload: %v", err)
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	result, err := h.service.Update(ctx, svcReq)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("updateAvailability - validation failed: %v", err)
			return dispatch.Fail(dispatch.KindValidation, err.Error())

		case errors.Is(err, availability.ErrAvailabilityNotFound):
			h.logger.Warn("updateAvailability - availability id=%d not found", *req.AvailabilityID)
			return dispatch.Fail(dispatch.KindNotFound, msgNotFound)

		case errors.Is(err, availability.ErrTransactionTypeNotFound):
			h.logger.Warn("updateAvailability - transaction type id=%d not found", *req.TransactionTypeID)
			return dispatch.Fail(dispatch.KindNotFound, msgTypeNotFound)

		case errors.Is(err, availability.ErrConflict):
			h.logger.Warn("updateAvailability - capacity conflict for id=%d: %v", *req.AvailabilityID, err)
			return dispatch.Fail(dispatch.KindConflict, msgCapacityConflict)

		default:
			h.logger.Error("updateAvailability - failed: %v", err)
			return dispatch.FailPersistence(msgPersistenceFailed, payload)
		}
	}

	h.logger.Info("updateAvailability - updated availability id=%d", result.ID)
	return dispatch.OKMessage(result, msgAvailabilityUpdated)
}
