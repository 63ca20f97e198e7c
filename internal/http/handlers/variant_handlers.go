package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/order-desk/internal/catalog"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
)

// GetProductVariantsHandler godoc
// @Summary Variants of a product
// @Description Sorted by color then size; each flagged available when it has stock
// @Tags variants
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} VariantsResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /products/{id}/variants [get]
func GetProductVariantsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	variants, err := shop.VariantsByProduct(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, VariantsResult{Data: catalog.VariantOptions(variants)})
}

func toVariantInputs(productID int64, reqs []VariantRequest) []shopapi.VariantInput {
	out := make([]shopapi.VariantInput, len(reqs))
	for i, v := range reqs {
		out[i] = shopapi.VariantInput{
			ProductID: productID,
			Size:      v.Size,
			Color:     v.Color,
			Stock:     v.Stock,
			SalePrice: v.SalePrice,
		}
	}
	return out
}

// BulkCreateVariantsHandler godoc
// @Summary Create several variants of a product at once
// @Tags variants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param variants body BulkVariantsRequest true "Variants"
// @Success 201 {array} models.Variant
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 502 {object} ErrorResponse
// @Router /products/{id}/variants/bulk [post]
func BulkCreateVariantsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req BulkVariantsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	created, err := shop.BulkCreateVariants(r.Context(), id, toVariantInputs(id, req.Variants))
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	invalidateProducts(r.Context())
	_ = writeJSON(w, http.StatusCreated, created)
}

// UpdateVariantHandler godoc
// @Summary Update a variant
// @Tags variants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Variant ID"
// @Param variant body VariantRequest true "Variant"
// @Success 200 {object} models.Variant
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 404 {object} ErrorResponse
// @Router /variants/{id} [put]
func UpdateVariantHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid variant ID")
		return
	}

	var req VariantRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}
	if errs := validateStruct(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	updated, err := shop.UpdateVariant(r.Context(), id, toVariantInputs(0, []VariantRequest{req})[0])
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	invalidateProducts(r.Context())
	_ = writeJSON(w, http.StatusOK, updated)
}

// DeleteVariantHandler godoc
// @Summary Delete a variant
// @Tags variants
// @Security BearerAuth
// @Param id path int true "Variant ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /variants/{id} [delete]
func DeleteVariantHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid variant ID")
		return
	}

	if err := shop.DeleteVariant(r.Context(), id); err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	invalidateProducts(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
