package delete_appointment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	appointments "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload    = "malformed payload for deleteAppointment"
	msgNotFound          = "appointment not found"
	msgPersistenceFailed = "failed to delete appointment"
)

// Request payload операции deleteAppointment
type Request struct {
	AppointmentID *int64  `json:"appointment_id"`
	UserID        *string `json:"user_id"`
}

// Validate собирает список отсутствующих обязательных полей
func (r *Request) Validate() error {
	var check validate.Checker
	check.Require("appointment_id", r.AppointmentID != nil)
	check.Require("user_id", r.UserID != nil)
	return check.Err()
}

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle операция deleteAppointment
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("deleteAppointment - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("deleteAppointment - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	result, err := h.service.Remove(ctx, *req.AppointmentID, *req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("deleteAppointment - appointment id=%d not found", *req.AppointmentID)
			return dispatch.Fail(dispatch.KindNotFound, msgNotFound)

		default:
			h.logger.Error("deleteAppointment - failed: %v", err)
			return dispatch.FailPersistence(msgPersistenceFailed, payload)
		}
	}

	h.logger.Info("deleteAppointment - deleted appointment id=%d, slot_released=%t",
		result.AppointmentID, result.SlotReleased)
	return dispatch.OKMessage(result, result.Message)
}
