// Package dispatch реализует единый конверт запросов операций:
// клиент отправляет POST {model, function_name, payload}, роутер находит
// зарегистрированную операцию и возвращает конверт
// {success, data | message, error}. Ошибки бизнес-логики приходят
// с HTTP 200 и success=false; HTTP статусы кодов 4xx остаются за
// некорректным конвертом и отказом авторизации.
package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
)

// Виды ошибок в конверте ответа
const (
	KindValidation                 = "validation"
	KindNotAvailable               = "not_available"
	KindDuplicateActiveAppointment = "duplicate_active_appointment"
	KindNotFound                   = "not_found"
	KindPersistence                = "persistence"
	KindConflict                   = "conflict"
)

// Request конверт входящего запроса
type Request struct {
	Model        string          `json:"model"`
	FunctionName string          `json:"function_name"`
	Payload      json.RawMessage `json:"payload"`
}

// ErrorDetail структурированное описание ошибки операции
type ErrorDetail struct {
	Kind            string          `json:"kind"`
	Message         string          `json:"message"`
	MissingFields   []string        `json:"missing_fields,omitempty"`
	ReceivedPayload json.RawMessage `json:"received_payload,omitempty"`
}

// Response конверт ответа операции
type Response struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// OK успешный ответ с данными
func OK(data interface{}) *Response {
	return &Response{Success: true, Data: data}
}

// OKMessage успешный ответ с данными и человекочитаемым сообщением
func OKMessage(data interface{}, message string) *Response {
	return &Response{Success: true, Data: data, Message: message}
}

// Fail ответ с ошибкой указанного вида
func Fail(kind, message string) *Response {
	return &Response{
		Success: false,
		Message: message,
		Error:   &ErrorDetail{Kind: kind, Message: message},
	}
}

// FailValidation ответ с ошибкой валидации: список отсутствующих полей
// и исходный payload возвращаются клиенту для диагностики
func FailValidation(message string, missingFields []string, payload json.RawMessage) *Response {
	return &Response{
		Success: false,
		Message: message,
		Error: &ErrorDetail{
			Kind:            KindValidation,
			Message:         message,
			MissingFields:   missingFields,
			ReceivedPayload: payload,
		},
	}
}

// FailPersistence ответ с ошибкой хранилища; исходный payload
// возвращается клиенту для диагностики
func FailPersistence(message string, payload json.RawMessage) *Response {
	return &Response{
		Success: false,
		Message: message,
		Error: &ErrorDetail{
			Kind:            KindPersistence,
			Message:         message,
			ReceivedPayload: payload,
		},
	}
}

// Operation одна операция модели, вызываемая через конверт
type Operation interface {
	Handle(ctx context.Context, payload json.RawMessage) *Response
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Router регистр операций по (model, function_name)
type Router struct {
	registry map[string]map[string]Operation
	logger   Logger
}

// NewRouter создает новый роутер конверта
func NewRouter(logger Logger) *Router {
	return &Router{
		registry: make(map[string]map[string]Operation),
		logger:   logger,
	}
}

// Register регистрирует операцию модели
func (rt *Router) Register(model, functionName string, op Operation) {
	if rt.registry[model] == nil {
		rt.registry[model] = make(map[string]Operation)
	}
	rt.registry[model][functionName] = op
}

// ServeHTTP обрабатывает POST /api/v1/dispatch
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rt.logger.Warn("dispatch: malformed request envelope: %v", err)
		WriteJSON(w, http.StatusBadRequest, Fail(KindValidation, "malformed request envelope"))
		return
	}

	if req.Model == "" || req.FunctionName == "" {
		rt.logger.Warn("dispatch: incomplete envelope: model=%q function_name=%q", req.Model, req.FunctionName)
		WriteJSON(w, http.StatusBadRequest, Fail(KindValidation, "model and function_name are required"))
		return
	}

	functions, ok := rt.registry[req.Model]
	if !ok {
		rt.logger.Warn("dispatch: unknown model %q", req.Model)
		WriteJSON(w, http.StatusOK, Fail(KindValidation, "unknown model: "+req.Model))
		return
	}

	op, ok := functions[req.FunctionName]
	if !ok {
		rt.logger.Warn("dispatch: unknown function %q for model %q", req.FunctionName, req.Model)
		WriteJSON(w, http.StatusOK, Fail(KindValidation, "unknown function_name: "+req.FunctionName))
		return
	}

	resp := op.Handle(r.Context(), req.Payload)
	WriteJSON(w, http.StatusOK, resp)
}

// WriteJSON сериализует ответ в http.ResponseWriter
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
