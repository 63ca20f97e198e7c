package handlers_test_suite

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	handler "github.com/rogerio-castellano/order-desk/internal/http/handlers"
	"github.com/rogerio-castellano/order-desk/internal/http/router"
	"github.com/rogerio-castellano/order-desk/internal/models"
)

func TestCustomerHandlers(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()

	srv.AddCustomer(models.Customer{Name: "Lan Pham", Phone: "0901000001"})
	srv.AddCustomer(models.Customer{Name: "Minh Tran", Phone: "0902000002"})

	t.Run("Search by name", func(t *testing.T) {
		w := do(r, http.MethodGet, "/customers?q=lan", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		resp := decode[handler.CustomersSearchResult](t, w)
		if resp.Meta.TotalCount != 1 || resp.Data[0].Name != "Lan Pham" {
			t.Errorf("unexpected result %+v", resp)
		}
	})

	t.Run("Search by phone", func(t *testing.T) {
		resp := decode[handler.CustomersSearchResult](t, do(r, http.MethodGet, "/customers?q=0902", nil))
		if resp.Meta.TotalCount != 1 || resp.Data[0].Name != "Minh Tran" {
			t.Errorf("unexpected result %+v", resp)
		}
	})

	var created models.Customer
	t.Run("Create", func(t *testing.T) {
		w := do(r, http.MethodPost, "/customers", handler.CustomerRequest{Name: "Hoa Le", Phone: "0903000003", FacebookURL: "https://facebook.com/hoa"})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		created = decode[models.Customer](t, w)
		if created.ID == 0 {
			t.Fatalf("expected an id, got %+v", created)
		}
	})

	t.Run("Create with an invalid facebook link", func(t *testing.T) {
		w := do(r, http.MethodPost, "/customers", handler.CustomerRequest{Name: "X", Phone: "1", FacebookURL: "not a url"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Update", func(t *testing.T) {
		w := do(r, http.MethodPut, fmt.Sprintf("/customers/%d", created.ID), handler.CustomerRequest{Name: "Hoa Le", Phone: "0903000003", Notes: "prefers evening delivery"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if got := decode[models.Customer](t, w); got.Notes != "prefers evening delivery" {
			t.Errorf("notes not saved: %+v", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		w := do(r, http.MethodDelete, fmt.Sprintf("/customers/%d", created.ID), nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		w = do(r, http.MethodGet, fmt.Sprintf("/customers/%d", created.ID), nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestOrderHandlers(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()

	c := srv.AddCustomer(models.Customer{Name: "Lan Pham", Phone: "0901000001"})
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	first := srv.AddOrder(models.Order{CustomerID: c.ID, Total: 300000, Status: models.OrderPending, CreatedAt: base})
	second := srv.AddOrder(models.Order{CustomerID: c.ID, Total: 150000, Status: models.OrderShipping, ChinaTrackingCode: "YT123", CreatedAt: base.Add(48 * time.Hour)})
	third := srv.AddOrder(models.Order{CustomerID: 999, Total: 90000, Status: models.OrderCompleted, CreatedAt: base.Add(96 * time.Hour)})

	tests := []struct {
		name     string
		query    string
		expected []int64
	}{
		{"Newest first", "", nil},
		{"By status", "?status=shipping", []int64{second.ID}},
		{"By customer", fmt.Sprintf("?customer_id=%d", c.ID), []int64{second.ID, first.ID}},
		{"By tracking code", "?q=yt1", []int64{second.ID}},
		{"By order id", fmt.Sprintf("?q=%%23%d", first.ID), []int64{first.ID}},
		{"Date range", "?since=2026-03-11&until=2026-03-13", []int64{second.ID}},
		{"Since is inclusive", "?since=2026-03-12T09:00:00+00:00", []int64{third.ID, second.ID}},
		{"Until a plain date covers that day", "?until=2026-03-12", []int64{second.ID, first.ID}},
		{"Until a timestamp is exact", "?until=2026-03-12T08:59:59Z", []int64{first.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/orders"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			resp := decode[handler.OrdersSearchResult](t, w)
			if tt.expected == nil {
				if len(resp.Data) < 2 {
					t.Fatalf("expected several orders, got %d", len(resp.Data))
				}
				for i := 1; i < len(resp.Data); i++ {
					if resp.Data[i].CreatedAt.After(resp.Data[i-1].CreatedAt) {
						t.Errorf("orders not sorted newest first: %+v", resp.Data)
					}
				}
				return
			}
			if len(resp.Data) != len(tt.expected) {
				t.Fatalf("expected %d orders, got %d", len(tt.expected), len(resp.Data))
			}
			for i, id := range tt.expected {
				if resp.Data[i].ID != id {
					t.Errorf("position %d: expected order %d, got %d", i, id, resp.Data[i].ID)
				}
			}
		})
	}

	t.Run("Unknown status filter", func(t *testing.T) {
		w := do(r, http.MethodGet, "/orders?status=lost", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Update status", func(t *testing.T) {
		w := do(r, http.MethodPut, fmt.Sprintf("/orders/%d/status", first.ID), handler.OrderStatusRequest{Status: "Confirmed"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if got := decode[models.Order](t, w); got.Status != models.OrderConfirmed {
			t.Errorf("expected confirmed, got %q", got.Status)
		}
	})

	t.Run("Update status rejects unknown values", func(t *testing.T) {
		before := srv.Calls(http.MethodPut, fmt.Sprintf("/orders/%d/status", first.ID))
		w := do(r, http.MethodPut, fmt.Sprintf("/orders/%d/status", first.ID), handler.OrderStatusRequest{Status: "returned"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if got := srv.Calls(http.MethodPut, fmt.Sprintf("/orders/%d/status", first.ID)); got != before {
			t.Errorf("shop API should not be called")
		}
	})

	t.Run("Update tracking code", func(t *testing.T) {
		w := do(r, http.MethodPut, fmt.Sprintf("/orders/%d/tracking", first.ID), handler.OrderTrackingRequest{ChinaTrackingCode: " SF998 "})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if got := decode[models.Order](t, w); got.ChinaTrackingCode != "SF998" {
			t.Errorf("expected trimmed tracking code, got %q", got.ChinaTrackingCode)
		}
	})

	t.Run("Missing order", func(t *testing.T) {
		w := do(r, http.MethodGet, "/orders/12345", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		w := do(r, http.MethodDelete, fmt.Sprintf("/orders/%d", second.ID), nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})
}
