package shopapi

import (
	"context"
	"net/http"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

// StockImport is a manual restock of one variant.
type StockImport struct {
	VariantID int64  `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Note      string `json:"note,omitempty"`
}

func (c *Client) ImportStock(ctx context.Context, in StockImport) (models.Variant, error) {
	var v models.Variant
	err := c.do(ctx, http.MethodPost, "/stock/import", in, &v)
	return v, err
}

func (c *Client) StockHistory(ctx context.Context) ([]models.StockHistoryEntry, error) {
	var entries []models.StockHistoryEntry
	if err := c.do(ctx, http.MethodGet, "/stock/history", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
