package insert_appointment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	submitAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/submit_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload     = "malformed payload for insertAppointment"
	msgDuplicate          = "user already has an active appointment for this transaction type and term"
	msgNoWindow           = "no booking window is published for this date"
	msgFrameNotAllowed    = "the selected half-day is not accepted on this date"
	msgSlotNotAvailable   = "no slots left for the selected half-day"
	msgInvalidDate        = "appointment date must not be in the past"
	msgAppointmentCreated = "appointment has been submitted"
	msgPersistenceFailed  = "failed to persist appointment"
)

type Handler struct {
	useCase SubmitAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase SubmitAppointmentUseCase, logger Logger) *Handler {
	return &Handler{useCase: useCase, logger: logger}
}

// Handle операция insertAppointment
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("insertAppointment - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("insertAppointment - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("insertAppointment - failed to parse payload: %v", err)
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	result, err := h.useCase.Execute(ctx, useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, submitAppointment.ErrDuplicateActiveAppointment):
			h.logger.Warn("insertAppointment - duplicate active appointment: user=%s", *req.UserID)
			return dispatch.Fail(dispatch.KindDuplicateActiveAppointment, msgDuplicate)

		case errors.Is(err, submitAppointment.ErrWindowNotFound):
			h.logger.Warn("insertAppointment - no window: user=%s, date=%s", *req.UserID, *req.AppointmentDate)
			return dispatch.Fail(dispatch.KindNotAvailable, msgNoWindow)

		case errors.Is(err, submitAppointment.ErrTimeFrameNotAllowed):
			h.logger.Warn("insertAppointment - frame not allowed: user=%s, frame=%s", *req.UserID, *req.TimeFrame)
			return dispatch.Fail(dispatch.KindNotAvailable, msgFrameNotAllowed)

		case errors.Is(err, submitAppointment.ErrSlotNotAvailable):
			h.logger.Warn("insertAppointment - slot not available: user=%s, date=%s, frame=%s",
				*req.UserID, *req.AppointmentDate, *req.TimeFrame)
			return dispatch.Fail(dispatch.KindNotAvailable, msgSlotNotAvailable)

		case errors.Is(err, submitAppointment.ErrInvalidDate):
			h.logger.Warn("insertAppointment - invalid date: user=%s, date=%s", *req.UserID, *req.AppointmentDate)
			return dispatch.Fail(dispatch.KindValidation, msgInvalidDate)

		case errors.Is(err, submitAppointment.ErrInvalidInput):
			h.logger.Warn("insertAppointment - validation failed: %v", err)
			return dispatch.Fail(dispatch.KindValidation, err.Error())

		default:
			h.logger.Error("insertAppointment - failed: %v", err)
			return dispatch.FailPersistence(msgPersistenceFailed, payload)
		}
	}

	h.logger.Info("insertAppointment - created appointment id=%d for user=%s", result.ID, result.UserID)
	return dispatch.OKMessage(FromUseCaseResponse(result), msgAppointmentCreated)
}
