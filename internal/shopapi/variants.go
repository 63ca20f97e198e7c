package shopapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type VariantInput struct {
	ProductID int64        `json:"product_id,omitempty"`
	Size      string       `json:"size" validate:"required"`
	Color     string       `json:"color" validate:"required"`
	Stock     int          `json:"stock" validate:"gte=0"`
	SalePrice models.Money `json:"sale_price,omitempty" validate:"gte=0"`
}

type bulkVariantsRequest struct {
	ProductID int64          `json:"product_id"`
	Variants  []VariantInput `json:"variants"`
}

func (c *Client) ListVariants(ctx context.Context) ([]models.Variant, error) {
	var variants []models.Variant
	if err := c.do(ctx, http.MethodGet, "/variants", nil, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

func (c *Client) VariantsByProduct(ctx context.Context, productID int64) ([]models.Variant, error) {
	var variants []models.Variant
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/variants/by-product/%d", productID), nil, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

func (c *Client) CreateVariant(ctx context.Context, in VariantInput) (models.Variant, error) {
	var v models.Variant
	err := c.do(ctx, http.MethodPost, "/variants", in, &v)
	return v, err
}

func (c *Client) BulkCreateVariants(ctx context.Context, productID int64, in []VariantInput) ([]models.Variant, error) {
	var variants []models.Variant
	err := c.do(ctx, http.MethodPost, "/variants/bulk", bulkVariantsRequest{ProductID: productID, Variants: in}, &variants)
	return variants, err
}

func (c *Client) UpdateVariant(ctx context.Context, id int64, in VariantInput) (models.Variant, error) {
	var v models.Variant
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/variants/%d", id), in, &v)
	return v, err
}

func (c *Client) DeleteVariant(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/variants/%d", id), nil, nil)
}
