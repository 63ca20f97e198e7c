package handlers

import (
	"github.com/rogerio-castellano/order-desk/internal/cart"
	"github.com/rogerio-castellano/order-desk/internal/catalog"
	"github.com/rogerio-castellano/order-desk/internal/checkout"
	"github.com/rogerio-castellano/order-desk/internal/models"
)

type Meta struct {
	TotalCount int `json:"total_count"`
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterAsAdminRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin operator"`
}

type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type PreferencesRequest struct {
	Theme        string `json:"theme" validate:"required,oneof=light dark"`
	NavCollapsed bool   `json:"nav_collapsed"`
}

type ProductResponse struct {
	models.Product
	LowStock bool `json:"low_stock"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta"`
}

type CategoriesResult struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
}

type BulkVariantsRequest struct {
	Variants []VariantRequest `json:"variants" validate:"required,min=1,dive"`
}

type VariantRequest struct {
	Size      string       `json:"size" validate:"required"`
	Color     string       `json:"color" validate:"required"`
	Stock     int          `json:"stock" validate:"gte=0"`
	SalePrice models.Money `json:"sale_price" validate:"gte=0"`
}

type VariantsResult struct {
	Data []catalog.VariantOption `json:"data"`
}

type ImportVariantsResult struct {
	Created []models.Variant  `json:"created"`
	Errors  []ValidationError `json:"errors"`
}

type CustomerRequest struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required,max=20"`
	Address     string `json:"address"`
	FacebookURL string `json:"facebook_url" validate:"omitempty,url"`
	Notes       string `json:"notes"`
}

type CustomersSearchResult struct {
	Data []models.Customer `json:"data"`
	Meta Meta              `json:"meta"`
}

type OrdersSearchResult struct {
	Data []models.Order `json:"data"`
	Meta Meta           `json:"meta"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderTrackingRequest struct {
	ChinaTrackingCode string `json:"china_tracking_code"`
}

type StockImportRequest struct {
	VariantID int64  `json:"variant_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Note      string `json:"note"`
}

type StockHistoryResult struct {
	Data []models.StockHistoryEntry `json:"data,omitempty"`
	Days []catalog.StockDay         `json:"days,omitempty"`
	Meta Meta                       `json:"meta"`
}

type CartResponse struct {
	Lines     []cart.Line `json:"lines"`
	ItemCount int         `json:"item_count"`
	Totals    cart.Totals `json:"totals"`
}

type CartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	VariantID int64 `json:"variant_id" validate:"required,gt=0"`
}

type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	CustomerID        int64                 `json:"customer_id"`
	NewCustomer       *checkout.NewCustomer `json:"new_customer,omitempty"`
	Deposit           string                `json:"deposit"`
	SelectedProductID int64                 `json:"selected_product_id"`
}

type SubmissionsSearchResult struct {
	Data []models.Submission `json:"data"`
	Meta Meta                `json:"meta"`
}
