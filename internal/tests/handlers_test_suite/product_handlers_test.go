package handlers_test_suite

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/order-desk/internal/http/handlers"
	"github.com/rogerio-castellano/order-desk/internal/http/router"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
)

func TestCreateProductHandler(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()

	t.Run("Valid product", func(t *testing.T) {
		w := do(r, http.MethodPost, "/products", shopapi.ProductInput{SKU: " HD-02 ", Name: "Hoodie", Category: "Outerwear", CostPrice: 200000, SalePrice: 350000})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
		}
		p := decode[handler.ProductResponse](t, w)
		if p.ID == 0 || p.SKU != "HD-02" {
			t.Errorf("unexpected product %+v", p.Product)
		}
		if !p.LowStock {
			t.Errorf("new product without variants should be low stock")
		}
	})

	t.Run("Missing fields are reported without calling the shop", func(t *testing.T) {
		before := srv.Calls(http.MethodPost, "/products")
		w := do(r, http.MethodPost, "/products", shopapi.ProductInput{SalePrice: 0})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		resp := decode[handler.ValidationErrorsResponse](t, w)
		fields := map[string]bool{}
		for _, e := range resp.Errors {
			fields[e.Field] = true
		}
		for _, f := range []string{"SKU", "Name", "SalePrice"} {
			if !fields[f] {
				t.Errorf("expected an error for %s, got %+v", f, resp.Errors)
			}
		}
		if got := srv.Calls(http.MethodPost, "/products"); got != before {
			t.Errorf("shop API should not be called, calls went from %d to %d", before, got)
		}
	})

	t.Run("Upstream conflict passes through", func(t *testing.T) {
		w := do(r, http.MethodPost, "/products", shopapi.ProductInput{SKU: "HD-02", Name: "Hoodie again", SalePrice: 1})
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
		if msg := errorMessage(t, w); msg != "sku already exists" {
			t.Errorf("expected upstream message, got %q", msg)
		}
	})
}

func TestGetProductsHandler(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()

	seedTee(srv, 3)
	jeans := srv.AddProduct(models.Product{SKU: "JN-01", Name: "Slim jeans", Category: "Pants", Brand: "Kumo", SalePrice: 400000})
	srv.AddVariant(models.Variant{ProductID: jeans.ID, Size: "L", Color: "Blue", Stock: 20})
	srv.AddProduct(models.Product{SKU: "CP-01", Name: "Cap", Category: "Accessories", Brand: "Sora", SalePrice: 90000})

	tests := []struct {
		name     string
		query    string
		expected []string
		total    int
	}{
		{"All", "", []string{"TS-01", "JN-01", "CP-01"}, 3},
		{"By name", "?q=jeans", []string{"JN-01"}, 1},
		{"By SKU", "?q=cp-", []string{"CP-01"}, 1},
		{"By brand", "?brand=Sora", []string{"TS-01", "CP-01"}, 2},
		{"By category", "?category=Pants", []string{"JN-01"}, 1},
		{"Price range", "?min_price=100000&max_price=200000", []string{"TS-01"}, 1},
		{"Low stock", "?low_stock=true", []string{"TS-01", "CP-01"}, 2},
		{"Paginated", "?limit=1&offset=1", []string{"JN-01"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/products"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			resp := decode[handler.ProductsSearchResult](t, w)
			if resp.Meta.TotalCount != tt.total {
				t.Errorf("expected total %d, got %d", tt.total, resp.Meta.TotalCount)
			}
			var skus []string
			for _, p := range resp.Data {
				skus = append(skus, p.SKU)
			}
			if strings.Join(skus, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("expected %v, got %v", tt.expected, skus)
			}
		})
	}

	t.Run("Inverted price range", func(t *testing.T) {
		w := do(r, http.MethodGet, "/products?min_price=5&max_price=1", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Invalid limit", func(t *testing.T) {
		w := do(r, http.MethodGet, "/products?limit=0", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Categories and brands", func(t *testing.T) {
		w := do(r, http.MethodGet, "/products/categories", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		resp := decode[handler.CategoriesResult](t, w)
		if strings.Join(resp.Categories, ",") != "Accessories,Pants,Shirts" {
			t.Errorf("unexpected categories %v", resp.Categories)
		}
		if strings.Join(resp.Brands, ",") != "Kumo,Sora" {
			t.Errorf("unexpected brands %v", resp.Brands)
		}
	})
}

func TestUpstreamFailures(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()

	t.Run("Not found passes through", func(t *testing.T) {
		w := do(r, http.MethodGet, "/products/999", nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if msg := errorMessage(t, w); msg != "product not found" {
			t.Errorf("expected upstream message, got %q", msg)
		}
	})

	t.Run("Server error becomes bad gateway", func(t *testing.T) {
		srv.Fail(http.MethodGet, "/products", http.StatusInternalServerError, "database is down")
		defer srv.Recover(http.MethodGet, "/products")

		w := do(r, http.MethodGet, "/products", nil)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		if msg := errorMessage(t, w); msg != "database is down" {
			t.Errorf("expected upstream message, got %q", msg)
		}
	})

	t.Run("Unreachable shop", func(t *testing.T) {
		srv.FailNetwork(http.MethodGet, "/products")
		defer srv.Recover(http.MethodGet, "/products")

		w := do(r, http.MethodGet, "/products", nil)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		if msg := errorMessage(t, w); msg != "shop API unreachable" {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("Undecodable success body becomes bad gateway", func(t *testing.T) {
		srv.Fail(http.MethodGet, "/products", http.StatusOK, "text:<html>maintenance</html>")
		defer srv.Recover(http.MethodGet, "/products")

		w := do(r, http.MethodGet, "/products", nil)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		if msg := errorMessage(t, w); msg != "invalid response from shop API" {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("Invalid id never reaches the shop", func(t *testing.T) {
		w := do(r, http.MethodGet, "/products/abc", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()
	p, _ := seedTee(srv, 10)

	w := do(r, http.MethodPut, fmt.Sprintf("/products/%d", p.ID), shopapi.ProductInput{SKU: "TS-01", Name: "Linen tee v2", CostPrice: 90000, SalePrice: 160000})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	updated := decode[handler.ProductResponse](t, w)
	if updated.Name != "Linen tee v2" || updated.Stock != 10 || updated.LowStock {
		t.Errorf("unexpected product %+v", updated)
	}

	w = do(r, http.MethodDelete, fmt.Sprintf("/products/%d", p.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = do(r, http.MethodGet, fmt.Sprintf("/products/%d", p.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestUploadProductImageHandler(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()
	p, _ := seedTee(srv, 1)

	body, contentType := multipartFile("image", "tee.jpg", "not really a jpeg")
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/products/%d/image", p.ID), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[handler.ProductResponse](t, w)
	if !strings.HasSuffix(resp.CoverImage, "/tee.jpg") {
		t.Errorf("expected cover image to be set, got %q", resp.CoverImage)
	}

	body, contentType = multipartFile("file", "tee.jpg", "x")
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/products/%d/image", p.ID), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing image field, got %d", w.Code)
	}
}
