package handlers

import (
	"net/http"
	"strings"

	"github.com/rogerio-castellano/order-desk/internal/catalog"
	"github.com/rogerio-castellano/order-desk/internal/logging"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
)

// ImportStockHandler godoc
// @Summary Restock a variant
// @Tags stock
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param import body StockImportRequest true "Variant and quantity received"
// @Success 200 {object} models.Variant
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 502 {object} ErrorResponse
// @Router /stock/import [post]
func ImportStockHandler(w http.ResponseWriter, r *http.Request) {
	var req StockImportRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	variant, err := shop.ImportStock(r.Context(), shopapi.StockImport{
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		Note:      strings.TrimSpace(req.Note),
	})
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	invalidateProducts(r.Context())

	logging.WithContext(r.Context()).WithField("variant_id", variant.ID).WithField("quantity", req.Quantity).Info("stock imported")
	_ = writeJSON(w, http.StatusOK, variant)
}

// GetStockHistoryHandler godoc
// @Summary Stock history, newest first
// @Description With group=day the page is grouped into days with incoming and outgoing totals
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Param reason query string false "import|order"
// @Param sku query string false "Product SKU"
// @Param since query string false "From this timestamp (RFC3339 or YYYY-MM-DD)"
// @Param until query string false "Until this timestamp, inclusive (RFC3339 or YYYY-MM-DD for the whole day)"
// @Param group query string false "day"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} StockHistoryResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /stock/history [get]
func GetStockHistoryHandler(w http.ResponseWriter, r *http.Request) {
	sf := catalog.StockHistoryFilter{SKU: r.URL.Query().Get("sku")}

	if s := r.URL.Query().Get("reason"); s != "" {
		reason := models.StockReason(strings.ToLower(s))
		if reason != models.StockReasonImport && reason != models.StockReasonOrder {
			writeError(w, http.StatusBadRequest, "reason must be import or order")
			return
		}
		sf.Reason = &reason
	}

	group := r.URL.Query().Get("group")
	if group != "" && group != "day" {
		writeError(w, http.StatusBadRequest, "group must be day")
		return
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

	entries, err := shop.StockHistory(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	page, total := catalog.FilterStockHistory(entries, sf)
	result := StockHistoryResult{Meta: Meta{TotalCount: total}}
	if group == "day" {
		result.Days = catalog.GroupStockHistoryByDay(page, location)
	} else {
		result.Data = page
	}
	_ = writeJSON(w, http.StatusOK, result)
}
