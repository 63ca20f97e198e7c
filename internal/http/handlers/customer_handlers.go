package handlers

import (
	"net/http"
	"strings"

	"github.com/rogerio-castellano/order-desk/internal/catalog"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
)

// GetCustomersHandler godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name or phone contains"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} CustomersSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /customers [get]
func GetCustomersHandler(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customers, err := shop.ListCustomers(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	page, total := catalog.FilterCustomers(customers, catalog.CustomerFilter{
		Query:  r.URL.Query().Get("q"),
		Offset: offset,
		Limit:  limit,
	})
	_ = writeJSON(w, http.StatusOK, CustomersSearchResult{Data: page, Meta: Meta{TotalCount: total}})
}

// GetCustomerByIDHandler godoc
// @Summary Get customer by ID
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /customers/{id} [get]
func GetCustomerByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	customer, err := shop.GetCustomer(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, customer)
}

func readCustomerInput(w http.ResponseWriter, r *http.Request) (shopapi.CustomerInput, bool) {
	var req CustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return shopapi.CustomerInput{}, false
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return shopapi.CustomerInput{}, false
	}
	return shopapi.CustomerInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		FacebookURL: req.FacebookURL,
		Notes:       req.Notes,
	}, true
}

// CreateCustomerHandler godoc
// @Summary Create a customer
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer body CustomerRequest true "Customer"
// @Success 201 {object} models.Customer
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 502 {object} ErrorResponse
// @Router /customers [post]
func CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	in, ok := readCustomerInput(w, r)
	if !ok {
		return
	}

	created, err := shop.CreateCustomer(r.Context(), in)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusCreated, created)
}

// UpdateCustomerHandler godoc
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Param customer body CustomerRequest true "Customer"
// @Success 200 {object} models.Customer
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 404 {object} ErrorResponse
// @Router /customers/{id} [put]
func UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}
	in, ok := readCustomerInput(w, r)
	if !ok {
		return
	}

	updated, err := shop.UpdateCustomer(r.Context(), id, in)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, updated)
}

// DeleteCustomerHandler godoc
// @Summary Delete a customer
// @Tags customers
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /customers/{id} [delete]
func DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	if err := shop.DeleteCustomer(r.Context(), id); err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
