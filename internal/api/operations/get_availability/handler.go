package get_availability

import (
	"context"
	"encoding/json"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	availModels "github.com/m04kA/SMC-AppointmentService/internal/service/availability/models"
)

const (
	msgInvalidPayload    = "malformed payload for getAvailability"
	msgPersistenceFailed = "failed to fetch availabilities"
)

// Request payload операции getAvailability.
// Все фильтры опциональны, отсутствующее или пустое значение расширяет выборку.
type Request struct {
	SearchKey  *string `json:"searchkey"`
	College    *string `json:"college"`
	Semester   *string `json:"semester"`
	SchoolYear *string `json:"school_year"`
}

// ToServiceRequest конвертирует payload в модель сервиса;
// пустые строки означают отсутствие фильтра
func (r *Request) ToServiceRequest() *availModels.QueryRequest {
	return &availModels.QueryRequest{
		SearchKey:  nonEmpty(r.SearchKey),
		College:    nonEmpty(r.College),
		Semester:   nonEmpty(r.Semester),
		SchoolYear: nonEmpty(r.SchoolYear),
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Handle операция getAvailability
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	var req Request
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			h.logger.Warn("getAvailability - invalid payload: %v", err)
			return dispatch.FailValidation(msgInvalidPayload, nil, payload)
		}
	}

	result, err := h.service.Get(ctx, req.ToServiceRequest())
	if err != nil {
		h.logger.Error("getAvailability - failed: %v", err)
		return dispatch.FailPersistence(msgPersistenceFailed, payload)
	}

	h.logger.Info("getAvailability - returned %d availabilities", len(result.Availabilities))
	return dispatch.OK(result)
}
