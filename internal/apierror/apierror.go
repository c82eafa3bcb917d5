// Package apierror provides the error taxonomy shared by services and handlers.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "fmt"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError rejects malformed or out-of-range input before any mutation.
// Fields maps field name → reason so clients can report per-field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string { return e.Detail }

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// NewFieldError builds a single-field ValidationError.
func NewFieldError(field, reason string) *ValidationError {
	return &ValidationError{
		Detail: "Error de validacion",
		Fields: map[string]string{field: reason},
	}
}

// NotFoundError identifies an unknown material/product/inventory/egreso id.
type NotFoundError struct {
	Recurso string `json:"recurso"`
}

func (e *NotFoundError) Error() string { return e.Recurso + " no encontrado" }

func NewNotFound(recurso string) *NotFoundError {
	return &NotFoundError{Recurso: recurso}
}

// InsufficientStockError rejects a salida or egreso exceeding current stock.
// Disponible lets the caller retry with a smaller amount.
type InsufficientStockError struct {
	Disponible int `json:"disponible"`
	Solicitado int `json:"solicitado"`
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Disponible, e.Solicitado)
}

func NewInsufficientStock(disponible, solicitado int) *InsufficientStockError {
	return &InsufficientStockError{Disponible: disponible, Solicitado: solicitado}
}

// ConflictError signals a state conflict: a concurrent modification detected by
// the transaction layer, or an operation blocked by rows that reference the
// target. Retrying is safe when the cause was serialization.
type ConflictError struct {
	Detail string `json:"detail"`
}

func (e *ConflictError) Error() string { return e.Detail }

func NewConflict(detail string) *ConflictError {
	return &ConflictError{Detail: detail}
}
