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
)

func TestGetProductVariantsHandler(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()

	p, _ := seedTee(srv, 2)
	srv.AddVariant(models.Variant{ProductID: p.ID, Size: "S", Color: "White", Stock: 0})
	srv.AddVariant(models.Variant{ProductID: p.ID, Size: "XL", Color: "Black", Stock: 4})
	srv.AddVariant(models.Variant{ProductID: p.ID, Size: "L", Color: "White", Stock: 1})

	w := do(r, http.MethodGet, fmt.Sprintf("/products/%d/variants", p.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[handler.VariantsResult](t, w)

	var got []string
	for _, v := range resp.Data {
		got = append(got, fmt.Sprintf("%s/%s/%t", v.Color, v.Size, v.Available))
	}
	expected := "Black/XL/true,White/S/false,White/M/true,White/L/true"
	if strings.Join(got, ",") != expected {
		t.Errorf("expected %s, got %s", expected, strings.Join(got, ","))
	}
}

func TestBulkCreateVariantsHandler(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()
	p, _ := seedTee(srv, 1)

	t.Run("Creates all variants", func(t *testing.T) {
		req := handler.BulkVariantsRequest{Variants: []handler.VariantRequest{
			{Size: "S", Color: "Navy", Stock: 4},
			{Size: "M", Color: "Navy", Stock: 6, SalePrice: 170000},
		}}
		w := do(r, http.MethodPost, fmt.Sprintf("/products/%d/variants/bulk", p.ID), req)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		created := decode[[]models.Variant](t, w)
		if len(created) != 2 || created[1].SalePrice != 170000 {
			t.Errorf("unexpected variants %+v", created)
		}

		w = do(r, http.MethodGet, fmt.Sprintf("/products/%d", p.ID), nil)
		if got := decode[handler.ProductResponse](t, w).Stock; got != 11 {
			t.Errorf("expected product stock 11, got %d", got)
		}
	})

	t.Run("Empty list", func(t *testing.T) {
		w := do(r, http.MethodPost, fmt.Sprintf("/products/%d/variants/bulk", p.ID), handler.BulkVariantsRequest{})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Negative stock", func(t *testing.T) {
		req := handler.BulkVariantsRequest{Variants: []handler.VariantRequest{{Size: "S", Color: "Red", Stock: -1}}}
		w := do(r, http.MethodPost, fmt.Sprintf("/products/%d/variants/bulk", p.ID), req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestUpdateAndDeleteVariant(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()
	_, v := seedTee(srv, 1)

	w := do(r, http.MethodPut, fmt.Sprintf("/variants/%d", v.ID), handler.VariantRequest{Size: "M", Color: "Ivory", Stock: 9})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got, _ := srv.Variant(v.ID); got.Color != "Ivory" || got.Stock != 9 {
		t.Errorf("variant not updated: %+v", got)
	}

	w = do(r, http.MethodDelete, fmt.Sprintf("/variants/%d", v.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = do(r, http.MethodDelete, fmt.Sprintf("/variants/%d", v.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestImportVariantsHandler(t *testing.T) {
	srv := newShop(t)
	r := router.NewRouter()
	p, _ := seedTee(srv, 1)

	upload := func(t *testing.T, content string) *httptest.ResponseRecorder {
		body, contentType := multipartFile("file", "variants.csv", content)
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/products/%d/variants/import", p.ID), body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("Valid rows are created, invalid rows reported", func(t *testing.T) {
		csv := "color,size,stock,sale_price\n" +
			"Black,S,3,\n" +
			"Black,M,x,\n" +
			",L,2,\n" +
			"Black,L,5,160000.50\n"
		w := upload(t, csv)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		resp := decode[handler.ImportVariantsResult](t, w)
		if len(resp.Created) != 2 {
			t.Fatalf("expected 2 created variants, got %+v", resp.Created)
		}
		if resp.Created[1].SalePrice != 160001 {
			t.Errorf("expected rounded sale price 160001, got %d", resp.Created[1].SalePrice)
		}
		if len(resp.Errors) != 2 {
			t.Fatalf("expected 2 row errors, got %+v", resp.Errors)
		}
		if !strings.HasPrefix(resp.Errors[0].Description, "row 3:") || !strings.HasPrefix(resp.Errors[1].Description, "row 4:") {
			t.Errorf("unexpected row errors %+v", resp.Errors)
		}
		if got := srv.Calls(http.MethodPost, "/variants/bulk"); got != 1 {
			t.Errorf("expected one bulk call, got %d", got)
		}
	})

	t.Run("Missing column", func(t *testing.T) {
		w := upload(t, "size,color\nM,Red\n")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if msg := errorMessage(t, w); !strings.Contains(msg, "stock") {
			t.Errorf("expected message about stock column, got %q", msg)
		}
	})
}
