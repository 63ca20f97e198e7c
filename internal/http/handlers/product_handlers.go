package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/order-desk/internal/catalog"
	"github.com/rogerio-castellano/order-desk/internal/logging"
	models "github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/redissvc"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
)

var productsCacheKey = fmt.Sprintf(redissvc.KeyProductsCache, "all")

// listProducts returns the upstream product list, served from Redis when
// the cache is enabled and warm.
func listProducts(ctx context.Context) ([]models.Product, error) {
	log := logging.WithContext(ctx)
	if productsCache != nil {
		var cached []models.Product
		found, err := productsCache.GetJSON(productsCacheKey, &cached)
		if err != nil {
			log.WithError(err).Warn("products cache read failed")
		} else if found {
			return cached, nil
		}
	}

	products, err := shop.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if productsCache != nil {
		if err := productsCache.SetJSON(productsCacheKey, products, productsCacheTTL); err != nil {
			log.WithError(err).Warn("products cache write failed")
		}
	}
	return products, nil
}

// invalidateProducts drops the cached product list after any write that
// can change a product or its stock.
func invalidateProducts(ctx context.Context) {
	if productsCache == nil {
		return
	}
	if err := productsCache.DeletePattern(redissvc.KeyProductsPattern); err != nil {
		logging.WithContext(ctx).WithError(err).Warn("products cache invalidation failed")
	}
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{Product: p, LowStock: p.Stock <= lowStockThreshold}
}

func queryMoney(r *http.Request, name string) (*models.Money, error) {
	v, err := queryInt64(r, name)
	if err != nil || v == nil {
		return nil, err
	}
	m := models.Money(*v)
	return &m, nil
}

func parseProductFilter(r *http.Request) (catalog.ProductFilter, error) {
	q := r.URL.Query()
	pf := catalog.ProductFilter{
		Query:     q.Get("q"),
		Category:  q.Get("category"),
		Brand:     q.Get("brand"),
		LowStock:  queryBool(r, "low_stock"),
		Threshold: lowStockThreshold,
	}

	var err error
	if pf.MinPrice, err = queryMoney(r, "min_price"); err != nil {
		return pf, err
	}
	if pf.MaxPrice, err = queryMoney(r, "max_price"); err != nil {
		return pf, err
	}
	if pf.MinStock, err = queryInt(r, "min_stock"); err != nil {
		return pf, err
	}
	if pf.MaxStock, err = queryInt(r, "max_stock"); err != nil {
		return pf, err
	}
	if pf.MinPrice != nil && pf.MaxPrice != nil && *pf.MinPrice > *pf.MaxPrice {
		return pf, fmt.Errorf("min_price cannot be greater than max_price")
	}
	if pf.MinStock != nil && pf.MaxStock != nil && *pf.MinStock > *pf.MaxStock {
		return pf, fmt.Errorf("min_stock cannot be greater than max_stock")
	}
	if pf.Offset, pf.Limit, err = pagination(r); err != nil {
		return pf, err
	}
	return pf, nil
}

// GetProductsHandler godoc
// @Summary List products
// @Description Filters the shop's product list by name or SKU, category, brand, price and stock
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name or SKU contains"
// @Param category query string false "Category"
// @Param brand query string false "Brand"
// @Param min_price query int false "Minimum sale price"
// @Param max_price query int false "Maximum sale price"
// @Param min_stock query int false "Minimum stock"
// @Param max_stock query int false "Maximum stock"
// @Param low_stock query bool false "Only products at or below the low stock threshold"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	pf, err := parseProductFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := listProducts(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	page, total := catalog.FilterProducts(products, pf)
	data := make([]ProductResponse, len(page))
	for i, p := range page {
		data[i] = toProductResponse(p)
	}
	_ = writeJSON(w, http.StatusOK, ProductsSearchResult{Data: data, Meta: Meta{TotalCount: total}})
}

// GetCategoriesHandler godoc
// @Summary Distinct product categories and brands
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CategoriesResult
// @Failure 502 {object} ErrorResponse
// @Router /products/categories [get]
func GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	products, err := listProducts(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, CategoriesResult{
		Categories: catalog.Categories(products),
		Brands:     catalog.Brands(products),
	})
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := shop.GetProduct(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, toProductResponse(product))
}

func readProductInput(w http.ResponseWriter, r *http.Request) (shopapi.ProductInput, bool) {
	var in shopapi.ProductInput
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return in, false
	}
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if errs := validateStruct(in); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return in, false
	}
	return in, true
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body shopapi.ProductInput true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 502 {object} ErrorResponse
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	in, ok := readProductInput(w, r)
	if !ok {
		return
	}

	created, err := shop.CreateProduct(r.Context(), in)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	invalidateProducts(r.Context())
	_ = writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// UpdateProductHandler godoc
// @Summary Update product by ID
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body shopapi.ProductInput true "Updated product"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ValidationErrorsResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}
	in, ok := readProductInput(w, r)
	if !ok {
		return
	}

	updated, err := shop.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	invalidateProducts(r.Context())
	_ = writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete product by ID
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := shop.DeleteProduct(r.Context(), id); err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	invalidateProducts(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

const maxImageBytes = 5 << 20

// UploadProductImageHandler godoc
// @Summary Upload the product cover image
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param image formData file true "Image file"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /products/{id}/image [post]
func UploadProductImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image")
		return
	}
	defer file.Close()

	updated, err := shop.UploadProductImage(r.Context(), id, header.Filename, file)
	if err != nil {
		writeUpstreamError(w, r, err)
		return
	}
	invalidateProducts(r.Context())
	_ = writeJSON(w, http.StatusOK, toProductResponse(updated))
}
