package get_audit_log

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInvalidPayload    = "malformed payload for getAuditLog"
	msgPersistenceFailed = "failed to fetch audit log"

	defaultLimit = 50
	maxLimit     = 500
)

// Request payload операции getAuditLog; limit опционален
type Request struct {
	Limit *uint64 `json:"limit"`
}

// RecordResponse одна запись журнала аудита
type RecordResponse struct {
	ID        string    `json:"log_id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"created_at"`
}

// Response payload ответа операции getAuditLog
type Response struct {
	Records []RecordResponse `json:"logs"`
}

type Handler struct {
	auditLog AuditLog
	logger   Logger
}

func NewHandler(auditLog AuditLog, logger Logger) *Handler {
	return &Handler{auditLog: auditLog, logger: logger}
}

// Handle операция getAuditLog
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) *dispatch.Response {
	limit := uint64(defaultLimit)
	if len(payload) > 0 {
		var req Request
		if err := json.Unmarshal(payload, &req); err != nil {
			h.logger.Warn("getAuditLog - invalid payload: %v", err)
			return dispatch.FailValidation(msgInvalidPayload, nil, payload)
		}
		if req.Limit != nil && *req.Limit > 0 {
			limit = *req.Limit
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	records, err := h.auditLog.Recent(ctx, limit)
	if err != nil {
		h.logger.Error("getAuditLog - failed: %v", err)
		return dispatch.FailPersistence(msgPersistenceFailed, payload)
	}

	h.logger.Info("getAuditLog - returned %d records", len(records))
	return dispatch.OK(fromDomainRecords(records))
}

func fromDomainRecords(records []*domain.AuditRecord) *Response {
	resp := &Response{Records: make([]RecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, RecordResponse{
			ID:        rec.ID,
			Action:    rec.Action,
			Actor:     rec.Actor,
			Details:   rec.Details,
			Timestamp: rec.Timestamp,
		})
	}
	return resp
}
