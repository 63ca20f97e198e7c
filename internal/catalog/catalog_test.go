package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

func intPtr(v int) *int { return &v }

func moneyPtr(v models.Money) *models.Money { return &v }

var products = []models.Product{
	{ID: 1, SKU: "TS-01", Name: "Basic tee", Category: "Shirts", Brand: "Uniq", CostPrice: 80000, SalePrice: 150000, Stock: 12},
	{ID: 2, SKU: "JK-07", Name: "Denim jacket", Category: "Outerwear", Brand: "Levi", CostPrice: 400000, SalePrice: 790000, Stock: 2},
	{ID: 3, SKU: "TS-02", Name: "Striped tee", Category: "shirts", Brand: "Uniq", CostPrice: 90000, SalePrice: 180000, Stock: 0},
}

func TestFilterProducts(t *testing.T) {
	tests := []struct {
		name    string
		filter  ProductFilter
		wantIDs []int64
		total   int
	}{
		{"no filter", ProductFilter{}, []int64{1, 2, 3}, 3},
		{"query by name", ProductFilter{Query: "TEE"}, []int64{1, 3}, 2},
		{"query by sku", ProductFilter{Query: "jk-"}, []int64{2}, 1},
		{"category ignores case", ProductFilter{Category: "Shirts"}, []int64{1, 3}, 2},
		{"brand", ProductFilter{Brand: "levi"}, []int64{2}, 1},
		{"price range", ProductFilter{MinPrice: moneyPtr(160000), MaxPrice: moneyPtr(800000)}, []int64{2, 3}, 2},
		{"stock range", ProductFilter{MinStock: intPtr(1), MaxStock: intPtr(5)}, []int64{2}, 1},
		{"low stock", ProductFilter{LowStock: true, Threshold: 2}, []int64{2, 3}, 2},
		{"paged", ProductFilter{Offset: intPtr(1), Limit: intPtr(1)}, []int64{2}, 3},
		{"offset past end", ProductFilter{Offset: intPtr(10)}, []int64{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := FilterProducts(products, tt.filter)
			ids := []int64{}
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.total, total)
		})
	}
}

func TestCategoriesAndBrands(t *testing.T) {
	assert.Equal(t, []string{"Outerwear", "Shirts", "shirts"}, Categories(products))
	assert.Equal(t, []string{"Levi", "Uniq"}, Brands(products))
}

func TestVariantOptions(t *testing.T) {
	opts := VariantOptions([]models.Variant{
		{ID: 1, Color: "White", Size: "L", Stock: 1},
		{ID: 2, Color: "Black", Size: "XL", Stock: 0},
		{ID: 3, Color: "Black", Size: "S", Stock: 4},
		{ID: 4, Color: "Black", Size: "Free", Stock: 2},
		{ID: 5, Color: "Black", Size: "M", Stock: 2},
	})

	ids := []int64{}
	for _, o := range opts {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []int64{3, 5, 2, 4, 1}, ids)
	assert.False(t, opts[2].Available)
	assert.True(t, opts[0].Available)
}

func TestFilterCustomers(t *testing.T) {
	customers := []models.Customer{
		{ID: 1, Name: "Nguyen Lan", Phone: "0901234567"},
		{ID: 2, Name: "Tran Minh", Phone: "0987654321"},
	}
	got, total := FilterCustomers(customers, CustomerFilter{Query: "lan"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, 1, total)

	got, _ = FilterCustomers(customers, CustomerFilter{Query: "098765"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestFilterOrders(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: 1, CustomerID: 7, Status: models.OrderPending, CreatedAt: base},
		{ID: 2, CustomerID: 8, Status: models.OrderShipping, ChinaTrackingCode: "YT998877", CreatedAt: base.Add(48 * time.Hour)},
		{ID: 3, CustomerID: 7, Status: models.OrderCompleted, CreatedAt: base.Add(24 * time.Hour)},
	}

	got, total := FilterOrders(orders, OrderFilter{})
	require.Len(t, got, 3)
	assert.Equal(t, 3, total)
	assert.Equal(t, []int64{2, 3, 1}, []int64{got[0].ID, got[1].ID, got[2].ID})

	customer := int64(7)
	got, _ = FilterOrders(orders, OrderFilter{CustomerID: &customer})
	assert.Len(t, got, 2)

	status := models.OrderShipping
	got, _ = FilterOrders(orders, OrderFilter{Status: &status})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	got, _ = FilterOrders(orders, OrderFilter{Query: "yt998"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	got, _ = FilterOrders(orders, OrderFilter{Query: "#3"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)

	since := base.Add(time.Hour)
	until := base.Add(30 * time.Hour)
	got, _ = FilterOrders(orders, OrderFilter{Since: &since, Until: &until})
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestStockHistory(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 23, 30, 0, 0, time.UTC)
	entries := []models.StockHistoryEntry{
		{ID: 1, ProductSKU: "TS-01", ChangeQty: 10, Reason: models.StockReasonImport, CreatedAt: day1},
		{ID: 2, ProductSKU: "TS-01", ChangeQty: -2, Reason: models.StockReasonOrder, CreatedAt: day1.Add(time.Hour)},
		{ID: 3, ProductSKU: "JK-07", ChangeQty: -1, Reason: models.StockReasonOrder, CreatedAt: day2},
	}

	reason := models.StockReasonOrder
	got, total := FilterStockHistory(entries, StockHistoryFilter{Reason: &reason})
	assert.Equal(t, 2, total)
	assert.Equal(t, int64(3), got[0].ID)

	got, _ = FilterStockHistory(entries, StockHistoryFilter{SKU: "ts-01"})
	assert.Len(t, got, 2)

	days := GroupStockHistoryByDay(entries, time.UTC)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-03-02", days[0].Date)
	assert.Equal(t, 1, days[0].Out)
	assert.Equal(t, "2025-03-01", days[1].Date)
	assert.Equal(t, 10, days[1].In)
	assert.Equal(t, 2, days[1].Out)
	assert.Equal(t, int64(2), days[1].Entries[0].ID)

	// 23:30 UTC falls on the next day east of UTC.
	plus7 := time.FixedZone("ICT", 7*3600)
	days = GroupStockHistoryByDay(entries, plus7)
	assert.Equal(t, "2025-03-03", days[0].Date)
}

func TestDashboard(t *testing.T) {
	orders := []models.Order{
		{ID: 1, Status: models.OrderCompleted, Total: 300000, Deposit: 300000},
		{ID: 2, Status: models.OrderPending, Total: 500000, Deposit: 100000},
		{ID: 3, Status: models.OrderShipping, Total: 200000, Deposit: 50000},
		{ID: 4, Status: models.OrderCancelled, Total: 900000},
	}
	customers := []models.Customer{
		{ID: 1, TotalSpent: 10}, {ID: 2, TotalSpent: 70}, {ID: 3, TotalSpent: 30},
		{ID: 4, TotalSpent: 50}, {ID: 5, TotalSpent: 20}, {ID: 6, TotalSpent: 60},
	}

	m := Dashboard(products, orders, customers, 2)
	assert.Equal(t, 3, m.TotalProducts)
	assert.Equal(t, 14, m.TotalStock)
	assert.Equal(t, 2, m.LowStockCount)
	assert.Equal(t, models.Money(12*80000+2*400000), m.InventoryValue)
	assert.Equal(t, models.Money(300000), m.Revenue)
	assert.Equal(t, models.Money(400000+150000), m.OutstandingBalance)
	assert.Equal(t, 1, m.OrdersByStatus[models.OrderPending])
	assert.Equal(t, 0, m.OrdersByStatus[models.OrderConfirmed])

	require.Len(t, m.TopCustomers, 5)
	assert.Equal(t, int64(2), m.TopCustomers[0].ID)
	assert.Equal(t, int64(6), m.TopCustomers[1].ID)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name          string
		offset, limit *int
		want          []int
	}{
		{"no limit returns everything", nil, nil, []int{1, 2, 3, 4, 5}},
		{"offset only", intPtr(3), nil, []int{4, 5}},
		{"limit only", nil, intPtr(2), []int{1, 2}},
		{"window past the end", intPtr(4), intPtr(10), []int{5}},
		{"offset past the end", intPtr(9), intPtr(1), []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := paginate(items, tt.offset, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 5, total)
		})
	}
}
