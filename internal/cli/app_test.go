package cli

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/order-desk/internal/cart"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/shopapi/shopapitest"
)

type harness struct {
	t     *testing.T
	srv   *shopapitest.Server
	state string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := shopapitest.NewServer()
	t.Cleanup(srv.Close)
	srv.RequireToken("tok")

	h := &harness{t: t, srv: srv, state: filepath.Join(t.TempDir(), "deskctl.yaml")}
	_, err := h.run("--base-url", srv.URL, "login", "--token", "tok")
	require.NoError(t, err)
	return h
}

func (h *harness) run(args ...string) (string, error) {
	var out bytes.Buffer
	err := NewApp(&out).Run(append([]string{"deskctl", "--state", h.state}, args...))
	return out.String(), err
}

func idStr(v int64) string { return strconv.FormatInt(v, 10) }

func TestLoginThemeAndLogoutPersist(t *testing.T) {
	h := newHarness(t)

	st, err := LoadState(h.state)
	require.NoError(t, err)
	assert.Equal(t, "tok", st.Token())
	assert.Equal(t, h.srv.URL, st.BaseURL())
	assert.Equal(t, models.ThemeLight, st.Theme())

	_, err = h.run("theme", "dark")
	require.NoError(t, err)
	out, err := h.run("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	_, err = h.run("theme", "sepia")
	assert.Error(t, err)

	_, err = h.run("logout")
	require.NoError(t, err)
	st, err = LoadState(h.state)
	require.NoError(t, err)
	assert.Empty(t, st.Token())
	assert.Equal(t, models.ThemeDark, st.Theme())

	_, err = h.run("products", "list")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestProductsAndVariantsList(t *testing.T) {
	h := newHarness(t)
	p := h.srv.AddProduct(models.Product{SKU: "TS-01", Name: "Linen tee", Category: "Shirts", SalePrice: 150000})
	h.srv.AddVariant(models.Variant{ProductID: p.ID, Size: "L", Color: "Black", Stock: 2})
	h.srv.AddVariant(models.Variant{ProductID: p.ID, Size: "S", Color: "Black", Stock: 0})
	h.srv.AddProduct(models.Product{SKU: "PN-02", Name: "Chino", Category: "Pants", SalePrice: 320000})

	out, err := h.run("products", "list", "--category", "shirts")
	require.NoError(t, err)
	assert.Contains(t, out, "TS-01")
	assert.Contains(t, out, "150.000")
	assert.NotContains(t, out, "PN-02")

	out, err = h.run("variants", "list", "--product", idStr(p.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "out of stock")
	assert.Less(t, bytes.Index([]byte(out), []byte(" S ")), bytes.Index([]byte(out), []byte(" L ")))
}

func TestOrderCreate_NewCustomer(t *testing.T) {
	h := newHarness(t)
	p := h.srv.AddProduct(models.Product{SKU: "TS-01", Name: "Linen tee", SalePrice: 150000})
	v := h.srv.AddVariant(models.Variant{ProductID: p.ID, Size: "M", Color: "White", Stock: 3})

	out, err := h.run("order", "create",
		"--product", idStr(p.ID), "--variant", idStr(v.ID), "--variant", idStr(v.ID),
		"--name", "Lan", "--phone", "0901234567", "--deposit", "50.000")
	require.NoError(t, err)
	assert.Contains(t, out, "Subtotal:  300.000")
	assert.Contains(t, out, "Remaining: 250.000")
	assert.Contains(t, out, "New customer created")

	orders := h.srv.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.Equal(t, models.Money(50000), orders[0].Deposit)
	assert.Len(t, h.srv.Customers(), 1)

	after, _ := h.srv.Variant(v.ID)
	assert.Equal(t, 1, after.Stock)
}

func TestOrderCreate_StockIsChecked(t *testing.T) {
	h := newHarness(t)
	p := h.srv.AddProduct(models.Product{SKU: "TS-01", Name: "Linen tee", SalePrice: 150000})
	v := h.srv.AddVariant(models.Variant{ProductID: p.ID, Size: "M", Color: "White", Stock: 1})
	c := h.srv.AddCustomer(models.Customer{Name: "Lan", Phone: "0901"})

	_, err := h.run("order", "create", "--product", idStr(p.ID), "--variant", idStr(v.ID), "--variant", idStr(v.ID), "--customer", idStr(c.ID))
	require.Error(t, err)
	assert.True(t, errors.Is(err, cart.ErrInsufficientStock))
	assert.Zero(t, h.srv.Calls(http.MethodPost, "/orders"))
}

func TestOrderCreate_ValidatesBeforeAnyWrite(t *testing.T) {
	h := newHarness(t)
	p := h.srv.AddProduct(models.Product{SKU: "TS-01", Name: "Linen tee", SalePrice: 150000})
	v := h.srv.AddVariant(models.Variant{ProductID: p.ID, Size: "M", Color: "White", Stock: 5})

	_, err := h.run("order", "create", "--product", idStr(p.ID), "--variant", idStr(v.ID), "--name", "Lan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Phone")
	assert.Zero(t, h.srv.Calls(http.MethodPost, "/customers"))
	assert.Zero(t, h.srv.Calls(http.MethodPost, "/orders"))
}

func TestOrderCreate_APIErrorMessageIsShown(t *testing.T) {
	h := newHarness(t)
	p := h.srv.AddProduct(models.Product{SKU: "TS-01", Name: "Linen tee", SalePrice: 150000})
	v := h.srv.AddVariant(models.Variant{ProductID: p.ID, Size: "M", Color: "White", Stock: 5})
	c := h.srv.AddCustomer(models.Customer{Name: "Lan", Phone: "0901"})
	h.srv.Fail(http.MethodPost, "/orders", http.StatusUnprocessableEntity, "customer is blocked")

	_, err := h.run("order", "create", "--product", idStr(p.ID), "--variant", idStr(v.ID), "--customer", idStr(c.ID))
	require.Error(t, err)
	assert.Equal(t, "customer is blocked", err.Error())
}

func TestOrdersStatusAndTracking(t *testing.T) {
	h := newHarness(t)
	o := h.srv.AddOrder(models.Order{CustomerID: 1, Total: 200000, Deposit: 50000, Status: models.OrderPending})

	out, err := h.run("orders", "status", idStr(o.ID), "Shipping")
	require.NoError(t, err)
	assert.Contains(t, out, "is now shipping")

	_, err = h.run("orders", "status", idStr(o.ID), "lost")
	assert.Error(t, err)

	_, err = h.run("orders", "tracking", idStr(o.ID), "CN123")
	require.NoError(t, err)

	out, err = h.run("orders", "list", "--status", "shipping")
	require.NoError(t, err)
	assert.Contains(t, out, "CN123")
	assert.Contains(t, out, "150.000")
}

func TestStockImportAndHistory(t *testing.T) {
	h := newHarness(t)
	p := h.srv.AddProduct(models.Product{SKU: "TS-01", Name: "Linen tee", SalePrice: 150000})
	v := h.srv.AddVariant(models.Variant{ProductID: p.ID, Size: "M", Color: "White", Stock: 1})

	out, err := h.run("stock", "import", "--variant", idStr(v.ID), "--qty", "4", "--note", "container 7")
	require.NoError(t, err)
	assert.Contains(t, out, "now has 5 in stock")

	_, err = h.run("stock", "import", "--variant", idStr(v.ID), "--qty", "0")
	assert.Error(t, err)

	out, err = h.run("stock", "history", "--reason", "import")
	require.NoError(t, err)
	assert.Contains(t, out, "+4")

	out, err = h.run("stock", "history", "--by-day")
	require.NoError(t, err)
	assert.Contains(t, out, time.Now().Format(time.DateOnly))
}

func TestDashboardJSON(t *testing.T) {
	h := newHarness(t)
	h.srv.AddProduct(models.Product{SKU: "TS-01", Name: "Linen tee", SalePrice: 150000, CostPrice: 90000, Stock: 2})

	out, err := h.run("--json", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_products": 1`)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0", money(0))
	assert.Equal(t, "950", money(950))
	assert.Equal(t, "150.000", money(150000))
	assert.Equal(t, "-1.250.000", money(-1250000))
}
