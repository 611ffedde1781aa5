package insert_transaction_type

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	reference "github.com/m04kA/SMC-AppointmentService/internal/service/reference"
	refModels "github.com/m04kA/SMC-AppointmentService/internal/service/reference/models"
	"github.com/m04kA/SMC-AppointmentService/internal/validate"
)

const (
	msgInvalidPayload    = "malformed payload for insertTransactionType"
	msgTypeCreated       = "transaction type has been created"
	msgPersistenceFailed = "failed to persist transaction type"
)

// Request payload операции insertTransactionType
type Request struct {
	TransactionTitle  *string `json:"transaction_title"`
	TransactionDetail *string `json:"transaction_detail"`
}

// Validate собирает список отсутствующих обязательных полей
func (r *Request) Validate() error {
	var check validate.Checker
	check.Require("transaction_title", r.TransactionTitle != nil)
	check.Require("transaction_detail", r.TransactionDetail != nil)
	return check.Err()
}

type Handler struct {
	service ReferenceService
	logger  Logger
}

func NewHandler(service ReferenceService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle операция insertTransactionType
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		h.logger.Warn("insertTransactionType - invalid payload: %v", err)
		return dispatch.FailValidation(msgInvalidPayload, nil, payload)
	}

	if err := req.Validate(); err != nil {
		var missing *validate.MissingFieldsError
		if errors.As(err, &missing) {
			h.logger.Warn("insertTransactionType - missing fields: %v", missing.Fields)
			return dispatch.FailValidation(err.Error(), missing.Fields, payload)
		}
		return dispatch.FailValidation(err.Error(), nil, payload)
	}

	result, err := h.service.Create(ctx, &refModels.CreateTransactionTypeRequest{
		Title:     *req.TransactionTitle,
		Detail:    *req.TransactionDetail,
		CreatedBy: middleware.GetUserID(ctx),
	})
	if err != nil {
		if errors.Is(err, reference.ErrInvalidInput) {
			h.logger.Warn("insertTransactionType - validation failed: %v", err)
			return dispatch.Fail(dispatch.KindValidation, err.Error())
		}
		h.logger.Error("insertTransactionType - failed: %v", err)
		return dispatch.FailPersistence(msgPersistenceFailed, payload)
	}

	h.logger.Info("insertTransactionType - created transaction type id=%d", result.ID)
	return dispatch.OKMessage(result, msgTypeCreated)
}
