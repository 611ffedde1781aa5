package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CreateTransactionTypeRequest запрос на добавление типа транзакции в каталог
type CreateTransactionTypeRequest struct {
	Title     string
	Detail    string
	CreatedBy string
}

// TransactionTypeResponse тип транзакции каталога
type TransactionTypeResponse struct {
	ID        int64     `json:"transaction_type_id"`
	Title     string    `json:"transaction_title"`
	Detail    string    `json:"transaction_detail"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionTypeListResponse список типов транзакций
type TransactionTypeListResponse struct {
	TransactionTypes []TransactionTypeResponse `json:"transaction_types"`
}

// Методы конвертации

// ToDomain конвертирует запрос в domain модель
func (r *CreateTransactionTypeRequest) ToDomain() *domain.TransactionType {
	return &domain.TransactionType{
		Title:  r.Title,
		Detail: r.Detail,
	}
}

// FromDomainTransactionType конвертирует domain модель в DTO
func FromDomainTransactionType(tt *domain.TransactionType) *TransactionTypeResponse {
	if tt == nil {
		return nil
	}
	return &TransactionTypeResponse{
		ID:        tt.ID,
		Title:     tt.Title,
		Detail:    tt.Detail,
		CreatedAt: tt.CreatedAt,
	}
}

// FromDomainTransactionTypeList конвертирует список типов в DTO
func FromDomainTransactionTypeList(types []*domain.TransactionType) *TransactionTypeListResponse {
	resp := &TransactionTypeListResponse{
		TransactionTypes: make([]TransactionTypeResponse, 0, len(types)),
	}
	for _, tt := range types {
		resp.TransactionTypes = append(resp.TransactionTypes, *FromDomainTransactionType(tt))
	}
	return resp
}
