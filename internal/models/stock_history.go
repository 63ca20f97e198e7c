package models

import "time"

type StockReason string

const (
	StockReasonImport StockReason = "import"
	StockReasonOrder  StockReason = "order"
)

// StockHistoryEntry is one stock change recorded by the shop API.
// Restocks are recorded with reason "import", sales with reason "order".
type StockHistoryEntry struct {
	ID          int64       `json:"id,omitempty"`
	ProductSKU  string      `json:"product_sku"`
	ProductName string      `json:"product_name"`
	ChangeQty   int         `json:"change_qty"`
	Reason      StockReason `json:"reason"`
	CreatedAt   time.Time   `json:"created_at"`
}
