package handlers

import (
	"net/http"
	"strings"

	"github.com/rogerio-castellano/order-desk/internal/catalog"
	"github.com/rogerio-castellano/order-desk/internal/models"
)

func parseOrderFilter(r *http.Request) (catalog.OrderFilter, error) {
	of := catalog.OrderFilter{Query: r.URL.Query().Get("q")}

	if s := r.URL.Query().Get("status"); s != "" {
		status, err := models.ParseOrderStatus(s)
		if err != nil {
			return of, err
		}
		of.Status = &status
	}

	var err error
	if of.CustomerID, err = queryInt64(r, "customer_id"); err != nil {
		return of, err
	}
	if of.Since, err = queryTime(r, "since"); err != nil {
		return of, err
	}
	if of.Until, err = queryUntil(r, "until"); err != nil {
		return of, err
	}
	if of.Offset, of.Limit, err = pagination(r); err != nil {
		return of, err
	}
	return of, nil
}

// GetOrdersHandler godoc
// @Summary List orders, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending|confirmed|shipping|completed|cancelled"
// @Param customer_id query int false "Customer ID"
// @Param q query string false "Order id (#12) or tracking code"
// @Param since query string false "Created at or after (RFC3339 or YYYY-MM-DD)"
// @Param until query string false "Created at or before (RFC3339, or YYYY-MM-DD for the whole day)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} OrdersSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /orders [get]
func GetOrdersHandler(w http.ResponseWriter, r *http.Request) {
	of, err := parseOrderFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := shop.ListOrders(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	page, total := catalog.FilterOrders(orders, of)
	_ = writeJSON(w, http.StatusOK, OrdersSearchResult{Data: page, Meta: Meta{TotalCount: total}})
}

// GetOrderByIDHandler godoc
// @Summary Get order by ID
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func GetOrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := shop.GetOrder(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, order)
}

// UpdateOrderStatusHandler godoc
// @Summary Change the status of an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param status body OrderStatusRequest true "New status"
// @Success 200 {object} models.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/status [put]
func UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req OrderStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := shop.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	// Cancelling may return stock upstream.
	invalidateProducts(r.Context())
	_ = writeJSON(w, http.StatusOK, order)
}

// UpdateOrderTrackingHandler godoc
// @Summary Set the China tracking code of an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param tracking body OrderTrackingRequest true "Tracking code"
// @Success 200 {object} models.Order
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/tracking [put]
func UpdateOrderTrackingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req OrderTrackingRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	order, err := shop.UpdateOrderTracking(r.Context(), id, strings.TrimSpace(req.ChinaTrackingCode))
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, order)
}

// DeleteOrderHandler godoc
// @Summary Delete an order
// @Tags orders
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [delete]
func DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if err := shop.DeleteOrder(r.Context(), id); err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	invalidateProducts(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
