package checkout

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/order-desk/internal/cart"
	"github.com/rogerio-castellano/order-desk/internal/events"
	"github.com/rogerio-castellano/order-desk/internal/models"
	"github.com/rogerio-castellano/order-desk/internal/repo"
	"github.com/rogerio-castellano/order-desk/internal/shopapi"
	"github.com/rogerio-castellano/order-desk/internal/shopapi/shopapitest"
)

type fixture struct {
	srv      *shopapitest.Server
	svc      *Service
	journal  *repo.InMemorySubmissionRepository
	recorder *events.Recorder
	product  models.Product
	variant  models.Variant
	customer models.Customer
}

func setup(t *testing.T) *fixture {
	t.Helper()
	srv := shopapitest.NewServer()
	t.Cleanup(srv.Close)

	f := &fixture{
		srv:      srv,
		journal:  repo.NewInMemorySubmissionRepository(),
		recorder: &events.Recorder{},
	}
	f.product = srv.AddProduct(models.Product{SKU: "TS-01", Name: "Basic tee", SalePrice: 50000})
	f.variant = srv.AddVariant(models.Variant{ProductID: f.product.ID, Size: "M", Color: "Black", Stock: 3})
	f.customer = srv.AddCustomer(models.Customer{Name: "Lan", Phone: "0901"})

	client := shopapi.New(shopapi.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	f.svc = NewService(client, f.journal, f.recorder)
	return f
}

func (f *fixture) cartWith(t *testing.T, qty int) *cart.Cart {
	t.Helper()
	c := cart.New()
	for i := 0; i < qty; i++ {
		require.NoError(t, c.Add(f.product, f.variant))
	}
	return c
}

func (f *fixture) totalCalls() int {
	return f.srv.Calls(http.MethodPost, "/customers") + f.srv.Calls(http.MethodPost, "/orders")
}

func (f *fixture) journalEntries(t *testing.T) []models.Submission {
	t.Helper()
	entries, _, err := f.journal.List(repo.SubmissionFilter{})
	require.NoError(t, err)
	return entries
}

func TestSubmit_ValidationHappensBeforeAnyCall(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"empty cart", Request{Cart: cart.New(), CustomerID: f.customer.ID}, ErrEmptyCart},
		{"nil cart", Request{CustomerID: f.customer.ID}, ErrEmptyCart},
		{"no customer", Request{Cart: f.cartWith(t, 1)}, ErrNoCustomer},
		{"blank new customer name", Request{Cart: f.cartWith(t, 1), NewCustomer: &NewCustomer{Name: "  ", Phone: "0902"}}, ErrNoCustomer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.svc.Submit(context.Background(), 1, Request{
		Cart:        f.cartWith(t, 1),
		NewCustomer: &NewCustomer{Name: "Minh", Phone: ""},
	})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "Phone", verrs[0].Field)
	assert.Equal(t, "Phone is required", verrs[0].Description)

	assert.Zero(t, f.totalCalls())
	assert.Empty(t, f.journalEntries(t))
}

func TestSubmit_RejectsLinesAboveStock(t *testing.T) {
	f := setup(t)
	c := f.cartWith(t, 2)
	c.Lines[0].Stock = 1

	_, err := f.svc.Submit(context.Background(), 1, Request{Cart: c, CustomerID: f.customer.ID})
	var se *cart.StockError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, f.variant.ID, se.VariantID)
	assert.Equal(t, 2, se.Requested)
	assert.Zero(t, f.totalCalls())
	assert.Empty(t, f.journalEntries(t))
}

func TestSubmit_ExistingCustomer(t *testing.T) {
	f := setup(t)
	c := f.cartWith(t, 2)

	res, err := f.svc.Submit(context.Background(), 1, Request{
		Cart:              c,
		CustomerID:        f.customer.ID,
		Deposit:           "50.000",
		SelectedProductID: f.product.ID,
	})
	require.NoError(t, err)

	assert.NotZero(t, res.OrderID)
	assert.False(t, res.CustomerCreated)
	assert.Equal(t, cart.Totals{Subtotal: 100000, Deposit: 50000, Remaining: 50000}, res.Totals)
	assert.Equal(t, 2, res.ItemCount)
	assert.True(t, res.InvoiceAvailable)

	require.Len(t, res.Variants, 1)
	assert.Equal(t, 1, res.Variants[0].Stock)
	assert.Equal(t, 1, c.Lines[0].Stock)

	orders := f.srv.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderPending, orders[0].Status)
	assert.Equal(t, models.Money(50000), orders[0].Deposit)
	assert.Zero(t, f.srv.Calls(http.MethodPost, "/customers"))

	entries := f.journalEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.SubmissionCompleted, entries[0].Status)
	assert.Equal(t, res.OrderID, entries[0].OrderID)
	assert.Equal(t, res.SubmissionID, entries[0].ID)

	published := f.recorder.Events()
	require.Len(t, published, 1)
	assert.Equal(t, res.OrderID, published[0].OrderID)
	require.Len(t, published[0].Items, 1)
	assert.Equal(t, 2, published[0].Items[0].Quantity)
}

func TestSubmit_NewCustomerPrecedesOrder(t *testing.T) {
	f := setup(t)

	res, err := f.svc.Submit(context.Background(), 1, Request{
		Cart:        f.cartWith(t, 1),
		NewCustomer: &NewCustomer{Name: " Minh ", Phone: "0987"},
	})
	require.NoError(t, err)
	assert.True(t, res.CustomerCreated)

	var created models.Customer
	for _, c := range f.srv.Customers() {
		if c.Name == "Minh" {
			created = c
		}
	}
	require.NotZero(t, created.ID)
	assert.Equal(t, created.ID, res.CustomerID)
	assert.Equal(t, 1, created.TotalOrders)
	assert.Nil(t, res.Variants)
}

func TestSubmit_CustomerFailureAbortsBeforeOrder(t *testing.T) {
	f := setup(t)
	f.srv.Fail(http.MethodPost, "/customers", http.StatusUnprocessableEntity, "phone already used")

	_, err := f.svc.Submit(context.Background(), 1, Request{
		Cart:        f.cartWith(t, 1),
		NewCustomer: &NewCustomer{Name: "Minh", Phone: "0987"},
	})
	apiErr, ok := shopapi.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "phone already used", apiErr.Message)
	assert.Zero(t, f.srv.Calls(http.MethodPost, "/orders"))

	entries := f.journalEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.SubmissionFailed, entries[0].Status)
	assert.Empty(t, f.recorder.Events())
}

func TestSubmit_OrderFailureAfterCustomerIsOrphaned(t *testing.T) {
	f := setup(t)
	f.srv.Fail(http.MethodPost, "/orders", http.StatusInternalServerError, "database down")

	_, err := f.svc.Submit(context.Background(), 1, Request{
		Cart:        f.cartWith(t, 1),
		NewCustomer: &NewCustomer{Name: "Minh", Phone: "0987"},
	})
	var orphan *OrphanedCustomerError
	require.True(t, errors.As(err, &orphan))
	assert.NotZero(t, orphan.CustomerID)
	_, ok := shopapi.AsAPIError(err)
	assert.True(t, ok)

	entries := f.journalEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.SubmissionOrphaned, entries[0].Status)
	assert.Equal(t, orphan.CustomerID, entries[0].CustomerID)
	assert.Equal(t, 1, f.srv.Calls(http.MethodPost, "/orders"))
}

func TestSubmit_NetworkFailureIsNotRetried(t *testing.T) {
	f := setup(t)
	f.srv.FailNetwork(http.MethodPost, "/orders")

	_, err := f.svc.Submit(context.Background(), 1, Request{Cart: f.cartWith(t, 1), CustomerID: f.customer.ID})
	require.Error(t, err)
	assert.True(t, shopapi.IsNetwork(err))
	assert.Equal(t, 1, f.srv.Calls(http.MethodPost, "/orders"))

	entries := f.journalEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, models.SubmissionFailed, entries[0].Status)
}

func TestSubmit_VariantRefreshFailureIsIgnored(t *testing.T) {
	f := setup(t)
	path := "/variants/by-product/" + itoa(f.product.ID)
	f.srv.Fail(http.MethodGet, path, http.StatusInternalServerError, "boom")

	res, err := f.svc.Submit(context.Background(), 1, Request{
		Cart:              f.cartWith(t, 1),
		CustomerID:        f.customer.ID,
		SelectedProductID: f.product.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, res.OrderID)
	assert.Nil(t, res.Variants)
}

type blockingAPI struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAPI) CreateCustomer(context.Context, shopapi.CustomerInput) (models.Customer, error) {
	return models.Customer{ID: 1}, nil
}

func (b *blockingAPI) CreateOrder(ctx context.Context, in shopapi.OrderInput) (models.Order, error) {
	close(b.entered)
	<-b.release
	return models.Order{ID: 10, CustomerID: in.CustomerID}, nil
}

func (b *blockingAPI) VariantsByProduct(context.Context, int64) ([]models.Variant, error) {
	return nil, nil
}

func TestSubmit_OneInFlightPerOperator(t *testing.T) {
	api := &blockingAPI{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(api, repo.NewInMemorySubmissionRepository(), nil)

	product := models.Product{ID: 1, Name: "Tee", SalePrice: 10}
	newCart := func() *cart.Cart {
		c := cart.New()
		require.NoError(t, c.Add(product, models.Variant{ID: 1, Stock: 5}))
		return c
	}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), 1, Request{Cart: newCart(), CustomerID: 3})
		done <- err
	}()
	<-api.entered

	_, err := svc.Submit(context.Background(), 1, Request{Cart: newCart(), CustomerID: 3})
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(api.release)
	require.NoError(t, <-done)

	// the slot is released once the first submission returns
	api.entered = make(chan struct{})
	api.release = make(chan struct{})
	close(api.release)
	_, err = svc.Submit(context.Background(), 1, Request{Cart: newCart(), CustomerID: 3})
	assert.NoError(t, err)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
