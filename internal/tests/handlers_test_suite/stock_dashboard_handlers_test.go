package handlers_test_suite

import (
	"net/http"
	"testing"
	"time"

	"github.com/rogerio-castellano/order-desk/internal/catalog"
	handler "github.com/rogerio-castellano/order-desk/internal/http/handlers"
	"github.com/rogerio-castellano/order-desk/internal/http/router"
	"github.com/rogerio-castellano/order-desk/internal/models"
)

func TestImportStockHandler(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()
	_, v := seedTee(srv, 2)

	w := do(r, http.MethodPost, "/stock/import", handler.StockImportRequest{VariantID: v.ID, Quantity: 8, Note: "March restock"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[models.Variant](t, w); got.Stock != 10 {
		t.Errorf("expected stock 10, got %d", got.Stock)
	}
	history := srv.History()
	if len(history) != 1 || history[0].Reason != models.StockReasonImport || history[0].ChangeQty != 8 {
		t.Errorf("unexpected history %+v", history)
	}

	t.Run("Zero quantity", func(t *testing.T) {
		w := do(r, http.MethodPost, "/stock/import", handler.StockImportRequest{VariantID: v.ID})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Unknown variant", func(t *testing.T) {
		w := do(r, http.MethodPost, "/stock/import", handler.StockImportRequest{VariantID: 9999, Quantity: 1})
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestGetStockHistoryHandler(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()

	day1 := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	srv.AddHistory(models.StockHistoryEntry{ProductSKU: "TS-01", ProductName: "Linen tee", ChangeQty: 10, Reason: models.StockReasonImport, CreatedAt: day1})
	srv.AddHistory(models.StockHistoryEntry{ProductSKU: "TS-01", ProductName: "Linen tee", ChangeQty: -2, Reason: models.StockReasonOrder, CreatedAt: day1.Add(time.Hour)})
	srv.AddHistory(models.StockHistoryEntry{ProductSKU: "JN-01", ProductName: "Slim jeans", ChangeQty: -1, Reason: models.StockReasonOrder, CreatedAt: day2})

	t.Run("Newest first", func(t *testing.T) {
		resp := decode[handler.StockHistoryResult](t, do(r, http.MethodGet, "/stock/history", nil))
		if resp.Meta.TotalCount != 3 || resp.Data[0].ProductSKU != "JN-01" {
			t.Errorf("unexpected history %+v", resp)
		}
	})

	t.Run("By reason and SKU", func(t *testing.T) {
		resp := decode[handler.StockHistoryResult](t, do(r, http.MethodGet, "/stock/history?reason=order&sku=ts-01", nil))
		if resp.Meta.TotalCount != 1 || resp.Data[0].ChangeQty != -2 {
			t.Errorf("unexpected history %+v", resp)
		}
	})

	t.Run("Grouped by day", func(t *testing.T) {
		w := do(r, http.MethodGet, "/stock/history?group=day", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		resp := decode[handler.StockHistoryResult](t, w)
		expected := []catalog.StockDay{
			{Date: "2026-04-02", In: 0, Out: 1},
			{Date: "2026-04-01", In: 10, Out: 2},
		}
		if len(resp.Days) != len(expected) {
			t.Fatalf("expected %d days, got %+v", len(expected), resp.Days)
		}
		for i, d := range expected {
			got := resp.Days[i]
			if got.Date != d.Date || got.In != d.In || got.Out != d.Out {
				t.Errorf("day %d: expected %s +%d -%d, got %s +%d -%d", i, d.Date, d.In, d.Out, got.Date, got.In, got.Out)
			}
		}
		if len(resp.Data) != 0 {
			t.Errorf("grouped result should not repeat the flat list")
		}
	})

	t.Run("Invalid reason", func(t *testing.T) {
		w := do(r, http.MethodGet, "/stock/history?reason=gift", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Invalid group", func(t *testing.T) {
		w := do(r, http.MethodGet, "/stock/history?group=week", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestGetDashboardHandler(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()

	seedTee(srv, 2)
	big := srv.AddCustomer(models.Customer{Name: "Lan Pham", Phone: "1", TotalSpent: 900000})
	srv.AddCustomer(models.Customer{Name: "Minh Tran", Phone: "2", TotalSpent: 100000})
	srv.AddOrder(models.Order{CustomerID: big.ID, Total: 300000, Deposit: 100000, Status: models.OrderPending})
	srv.AddOrder(models.Order{CustomerID: big.ID, Total: 600000, Deposit: 600000, Status: models.OrderCompleted})

	w := do(r, http.MethodGet, "/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	m := decode[catalog.Metrics](t, w)
	if m.TotalProducts != 1 || m.TotalStock != 2 || m.LowStockCount != 1 {
		t.Errorf("unexpected product figures %+v", m)
	}
	if m.InventoryValue != 180000 {
		t.Errorf("expected inventory value 180000, got %d", m.InventoryValue)
	}
	if m.Revenue != 600000 || m.OutstandingBalance != 200000 {
		t.Errorf("unexpected revenue %d / outstanding %d", m.Revenue, m.OutstandingBalance)
	}
	if m.OrdersByStatus[models.OrderPending] != 1 || m.OrdersByStatus[models.OrderShipping] != 0 {
		t.Errorf("unexpected status counts %+v", m.OrdersByStatus)
	}
	if len(m.TopCustomers) != 2 || m.TopCustomers[0].ID != big.ID {
		t.Errorf("unexpected top customers %+v", m.TopCustomers)
	}

	t.Run("Any failing source fails the dashboard", func(t *testing.T) {
		srv.Fail(http.MethodGet, "/orders", http.StatusServiceUnavailable, "maintenance")
		defer srv.Recover(http.MethodGet, "/orders")
		w := do(r, http.MethodGet, "/dashboard", nil)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})
}
