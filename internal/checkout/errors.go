package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/order-desk/internal/validation"
)

var (
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNoCustomer         = errors.New("select a customer or enter a new customer name")
)

type FieldError = validation.FieldError

// ValidationErrors is returned before any call to the shop API.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Description)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func fromValidator(err error) ValidationErrors {
	return ValidationErrors(validation.Fields(err))
}

// OrphanedCustomerError means the customer was created but the order
// was not. The customer stays on the shop API.
type OrphanedCustomerError struct {
	CustomerID int64
	Err        error
}

func (e *OrphanedCustomerError) Error() string {
	return fmt.Sprintf("customer %d was created but the order failed: %v", e.CustomerID, e.Err)
}

func (e *OrphanedCustomerError) Unwrap() error {
	return e.Err
}
