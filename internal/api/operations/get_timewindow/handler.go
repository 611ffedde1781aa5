package get_timewindow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload    = "malformed payload for getTimewindow"
	msgPersistenceFailed = "failed to fetch time windows"
)

// Request payload операции getTimewindow
type Request struct {
	AvailableDate *string `json:"available_date"`
}

// Validate собирает список отсутствующих обязательных полей
func (r *Request) Validate() error {
	var check validate.Checker
	check.Require("available_date", r.AvailableDate != nil)
	return check.Err()
}

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle операция getTimewindow
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("getTimewindow - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("getTimewindow - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	date, err := time.Parse(domain.DateFormat, *req.AvailableDate)
	if err != nil {
		h.logger.Warn("getTimewindow - invalid available_date: %v", err)
		return dispatch.FailValidation(fmt.Sprintf("invalid available_date: %v", err), nil, payload)
	}

	result, err := h.service.GetTimewindow(ctx, date)
	if err != nil {
		h.logger.Error("getTimewindow - failed: %v", err)
		return dispatch.FailPersistence(msgPersistenceFailed, payload)
	}

	h.logger.Info("getTimewindow - returned %d time windows for %s", len(result.TimeWindows), *req.AvailableDate)
	return dispatch.OK(result)
}
