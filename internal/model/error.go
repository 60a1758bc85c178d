package model

import "fmt"

// Error codes for domain errors raised while building orders.
const (
	ErrCodeClientNotFound  = "CLIENT_NOT_FOUND"
	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
)

// DomainError is a referential-integrity failure in the source data.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrClientNotFound  = NewDomainError(ErrCodeClientNotFound, "client referenced by order not found")
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "product referenced by order item not found")
)

// ClientNotFound wraps ErrClientNotFound with the order and client identifiers.
func ClientNotFound(orderUID, clientUID string) error {
	return fmt.Errorf("order %s: client %s: %w", orderUID, clientUID, ErrClientNotFound)
}

// ProductNotFound wraps ErrProductNotFound with the order and product identifiers.
func ProductNotFound(orderUID, productUID string) error {
	return fmt.Errorf("order %s: product %s: %w", orderUID, productUID, ErrProductNotFound)
}
