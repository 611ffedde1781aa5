package get_appointment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	appointments "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload    = "malformed payload for getAppointment"
	msgPersistenceFailed = "failed to fetch appointments"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle операция getAppointment
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("getAppointment - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("getAppointment - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	svcReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("getAppointment - failed to parse payload: %v", err)
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	result, err := h.service.Get(ctx, svcReq)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			h.logger.Warn("getAppointment - validation failed: %v", err)
			return dispatch.Fail(dispatch.KindValidation, err.Error())
		}
		h.logger.Error("getAppointment - failed: %v", err)
		return dispatch.FailPersistence(msgPersistenceFailed, payload)
	}

	h.logger.Info("getAppointment - returned %d appointments", len(result.Appointments))
	return dispatch.OK(result)
}
