package models

// Product represents a catalog product as returned by the shop API.
type Product struct {
	ID         int64  `json:"id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Brand      string `json:"brand"`
	CostPrice  Money  `json:"cost_price"`
	SalePrice  Money  `json:"sale_price"`
	Stock      int    `json:"stock"`
	CoverImage string `json:"cover_image,omitempty"`
}

// Variant is a size/color combination of a product with its own stock.
// SalePrice is optional; zero means the product price applies.
type Variant struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Stock     int    `json:"stock"`
	SalePrice Money  `json:"sale_price,omitempty"`
}

// PriceFor returns the price a new cart line for v should use.
func (v Variant) PriceFor(p Product) Money {
	if v.SalePrice > 0 {
		return v.SalePrice
	}
	return p.SalePrice
}
