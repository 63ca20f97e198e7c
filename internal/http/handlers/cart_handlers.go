package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/order-desk/internal/cart"
	mw "github.com/rogerio-castellano/order-desk/internal/http/middleware"
	"github.com/rogerio-castellano/order-desk/internal/logging"
)

func loadCart(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	c, err := cartStore.Load(mw.GetUserID(r))
	if err != nil {
		logging.WithContext(r.Context()).WithError(err).Error("could not load cart")
		writeError(w, http.StatusInternalServerError, "could not load cart")
		return nil, false
	}
	return c, true
}

func saveCart(w http.ResponseWriter, r *http.Request, c *cart.Cart) bool {
	if err := cartStore.Save(mw.GetUserID(r), c); err != nil {
		logging.WithContext(r.Context()).WithError(err).Error("could not save cart")
		writeError(w, http.StatusInternalServerError, "could not save cart")
		return false
	}
	return true
}

func writeCart(w http.ResponseWriter, r *http.Request, status int, c *cart.Cart) {
	lines := c.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	_ = writeJSON(w, status, CartResponse{
		Lines:     lines,
		ItemCount: c.ItemCount(),
		Totals:    c.Totals(r.URL.Query().Get("deposit")),
	})
}

func lineIndex(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}

// GetCartHandler godoc
// @Summary Current operator's draft cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param deposit query string false "Deposit as typed; only digits are kept"
// @Success 200 {object} CartResponse
// @Router /cart [get]
func GetCartHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := loadCart(w, r)
	if !ok {
		return
	}
	writeCart(w, r, http.StatusOK, c)
}

// AddCartItemHandler godoc
// @Summary Add one unit of a variant to the cart
// @Description Adding a variant already in the cart increments its quantity, up to the variant's stock
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body CartItemRequest true "Product and variant"
// @Success 200 {object} CartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Variant not found"
// @Failure 409 {object} ErrorResponse "Not enough stock"
// @Router /cart/items [post]
func AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	product, err := shop.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	variants, err := shop.VariantsByProduct(r.Context(), req.ProductID)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	idx := -1
	for i, v := range variants {
		if v.ID == req.VariantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, http.StatusNotFound, "variant not found for this product")
		return
	}

	c, ok := loadCart(w, r)
	if !ok {
		return
	}
	c.RefreshStock(variants)
	if err := c.Add(product, variants[idx]); err != nil {
		if errors.Is(err, cart.ErrInsufficientStock) {
			// keep lines clamped to the stock just fetched
			if !saveCart(w, r, c) {
				return
			}
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !saveCart(w, r, c) {
		return
	}
	writeCart(w, r, http.StatusOK, c)
}

// UpdateCartItemHandler godoc
// @Summary Set the quantity of a cart line
// @Description The quantity is clamped to at least 1 and at most the line's known stock
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param index path int true "Line index"
// @Param quantity body CartQuantityRequest true "Quantity"
// @Success 200 {object} CartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Variant out of stock"
// @Router /cart/items/{index} [patch]
func UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	index, err := lineIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid line index")
		return
	}
	var req CartQuantityRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	c, ok := loadCart(w, r)
	if !ok {
		return
	}
	if _, err := c.SetQuantity(index, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrInsufficientStock) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if !saveCart(w, r, c) {
		return
	}
	writeCart(w, r, http.StatusOK, c)
}

// RemoveCartItemHandler godoc
// @Summary Remove a cart line
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param index path int true "Line index"
// @Success 200 {object} CartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /cart/items/{index} [delete]
func RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	index, err := lineIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid line index")
		return
	}

	c, ok := loadCart(w, r)
	if !ok {
		return
	}
	if err := c.Remove(index); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if !saveCart(w, r, c) {
		return
	}
	writeCart(w, r, http.StatusOK, c)
}

// ClearCartHandler godoc
// @Summary Discard the draft cart
// @Tags cart
// @Security BearerAuth
// @Success 204
// @Router /cart [delete]
func ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	if err := cartStore.Delete(mw.GetUserID(r)); err != nil {
		logging.WithContext(r.Context()).WithError(err).Error("could not delete cart")
		writeError(w, http.StatusInternalServerError, "could not delete cart")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCartTotalsHandler godoc
// @Summary Subtotal, deposit and remaining balance
// @Description Remaining is subtotal minus deposit and may be negative
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param deposit query string false "Deposit as typed, e.g. 50.000"
// @Success 200 {object} cart.Totals
// @Router /cart/totals [get]
func GetCartTotalsHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := loadCart(w, r)
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, c.Totals(r.URL.Query().Get("deposit")))
}
