package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/rogerio-castellano/order-desk/internal/cart"
	"github.com/rogerio-castellano/order-desk/internal/checkout"
	mw "github.com/rogerio-castellano/order-desk/internal/http/middleware"
	"github.com/rogerio-castellano/order-desk/internal/logging"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/repo"
)

// CheckoutHandler godoc
// @Summary Submit the draft cart as an order
// @Description Creates the customer first when a new customer is given, then the order. The draft cart is cleared on success unless it changed while the order was being placed.
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param checkout body CheckoutRequest true "Customer and deposit"
// @Success 201 {object} checkout.Result
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 409 {object} ErrorResponse "Submission already in progress or a line exceeds stock"
// @Failure 502 {object} ErrorResponse
// @Router /checkout [post]
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	c, ok := loadCart(w, r)
	if !ok {
		return
	}

	userID := mw.GetUserID(r)
	submitted := c.Items()
	result, err := checkoutService.Submit(r.Context(), userID, checkout.Request{
		Cart:              c,
		CustomerID:        req.CustomerID,
		NewCustomer:       req.NewCustomer,
		Deposit:           req.Deposit,
		SelectedProductID: req.SelectedProductID,
	})
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}

	invalidateProducts(r.Context())
	clearSubmittedCart(r, userID, submitted)
	_ = writeJSON(w, http.StatusCreated, result)
}

// clearSubmittedCart deletes the draft only if it still holds what was
// submitted. Lines added while the order was in flight are kept.
func clearSubmittedCart(r *http.Request, userID int, submitted []models.OrderItem) {
	log := logging.WithContext(r.Context())
	current, err := cartStore.Load(userID)
	if err != nil {
		log.WithError(err).Warn("could not reload cart after checkout")
		return
	}
	if !slices.Equal(current.Items(), submitted) {
		log.WithField("user_id", userID).Info("cart changed during checkout, keeping draft")
		return
	}
	if err := cartStore.Delete(userID); err != nil {
		log.WithError(err).Warn("could not clear cart after checkout")
	}
}

func writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs checkout.ValidationErrors
	var orphaned *checkout.OrphanedCustomerError
	switch {
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, cart.ErrInsufficientStock):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrNoCustomer):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &verrs):
		writeValidationErrors(w, fieldErrors(verrs))
	case errors.As(err, &orphaned):
		status, msg := upstreamStatus(orphaned.Err)
		writeError(w, status, fmt.Sprintf("customer #%d was created but the order failed: %s", orphaned.CustomerID, msg))
	default:
		writeUpstreamError(w, r, err)
	}
}

// GetSubmissionsHandler godoc
// @Summary Journal of order submissions
// @Description Admins see every operator's submissions; operators see their own
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Param status query string false "completed|failed|customer_orphaned"
// @Param since query string false "From this timestamp (RFC3339 or YYYY-MM-DD)"
// @Param until query string false "Until this timestamp, inclusive (RFC3339 or YYYY-MM-DD for the whole day)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} SubmissionsSearchResult
// @Failure 400 {object} ErrorResponse
// @Router /submissions [get]
func GetSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	var sf repo.SubmissionFilter

	if id, ok := mw.GetIdentity(r); ok && id.Role != models.RoleAdmin {
		sf.UserID = &id.UserID
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := models.SubmissionStatus(s)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		sf.Status = &status
	}

	var err error
	if sf.Since, err = queryTime(r, "since"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if sf.Until, err = queryUntil(r, "until"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if sf.Offset, sf.Limit, err = pagination(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	submissions, total, err := submissionRepo.List(sf)
	if err != nil {
		logging.WithContext(r.Context()).WithError(err).Error("could not list submissions")
		writeError(w, http.StatusInternalServerError, "could not retrieve submissions")
		return
	}
	_ = writeJSON(w, http.StatusOK, SubmissionsSearchResult{Data: submissions, Meta: Meta{TotalCount: total}})
}
