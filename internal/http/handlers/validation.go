package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/order-desk/internal/validation"
)

var validate = validation.New()

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

type ValidationErrorsResponse struct {
	Errors []ValidationError `json:"errors"`
}

func validateStruct(v any) []ValidationError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return fieldErrors(validation.Fields(err))
}

func fieldErrors(fes []validation.FieldError) []ValidationError {
	errs := make([]ValidationError, len(fes))
	for i, fe := range fes {
		errs[i] = ValidationError{Field: fe.Field, Description: fe.Description}
	}
	return errs
}

func writeValidationErrors(w http.ResponseWriter, errs []ValidationError) {
	_ = writeJSON(w, http.StatusBadRequest, ValidationErrorsResponse{Errors: errs})
}
