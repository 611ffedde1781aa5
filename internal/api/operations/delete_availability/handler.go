package delete_availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	availability "github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload    = "malformed payload for deleteAvailability"
	msgNotFound          = "availability not found"
	msgConflict          = "availability is referenced by active appointments"
	msgPersistenceFailed = "failed to delete availability"
)

// Request payload операции deleteAvailability
type Request struct {
	AvailabilityID *int64 `json:"availability_id"`
}

// Validate собирает список отсутствующих обязательных полей
func (r *Request) Validate() error {
	var check validate.Checker
	check.Require("availability_id", r.AvailabilityID != nil)
	return check.Err()
}

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle операция deleteAvailability
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("deleteAvailability - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("deleteAvailability - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	actor := middleware.GetUserID(ctx)

	if err := h.service.Delete(ctx, *req.AvailabilityID, actor); err != nil {
		switch {
		case errors.Is(err, availability.ErrConflict):
			h.logger.Warn("deleteAvailability - availability id=%d has active appointments", *req.AvailabilityID)
			return dispatch.Fail(dispatch.KindConflict, msgConflict)

		case errors.Is(err, availability.ErrAvailabilityNotFound):
			h.logger.Warn("deleteAvailability - availability id=%d not found", *req.AvailabilityID)
			return dispatch.Fail(dispatch.KindNotFound, msgNotFound)

		default:
			h.logger.Error("deleteAvailability - failed: %v", err)
			return dispatch.FailPersistence(msgPersistenceFailed, payload)
		}
	}

	h.logger.Info("deleteAvailability - deleted availability id=%d", *req.AvailabilityID)
	return dispatch.OKMessage(nil, fmt.Sprintf("Availability %d has been deleted", *req.AvailabilityID))
}
