package approve_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	decideAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/decide_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload    = "malformed payload for approveAppointment"
	msgNotFound          = "appointment not found or already decided"
	msgPersistenceFailed = "failed to decide appointment"
)

type Handler struct {
	useCase DecideAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase DecideAppointmentUseCase, logger Logger) *Handler {
	return &Handler{useCase: useCase, logger: logger}
}

// Handle операция approveAppointment
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("approveAppointment - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("approveAppointment - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	result, err := h.useCase.Execute(ctx, req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, decideAppointment.ErrAppointmentNotFound):
			h.logger.Warn("approveAppointment - appointment id=%d not found or decided", *req.AppointmentID)
			return dispatch.Fail(dispatch.KindNotFound, msgNotFound)

		case errors.Is(err, decideAppointment.ErrInvalidInput):
			h.logger.Warn("approveAppointment - validation failed: %v", err)
			return dispatch.Fail(dispatch.KindValidation, err.Error())

		default:
			h.logger.Error("approveAppointment - failed: %v", err)
			return dispatch.FailPersistence(msgPersistenceFailed, payload)
		}
	}

	h.logger.Info("approveAppointment - appointment id=%d is now %s", result.ID, result.Status)
	return dispatch.OKMessage(FromUseCaseResponse(result),
		fmt.Sprintf("Appointment %d has been %s", result.ID, result.Status))
}
