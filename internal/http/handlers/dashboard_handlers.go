package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/order-desk/internal/catalog"
	"github.com/rogerio-castellano/order-desk/internal/models"
)

// GetDashboardHandler godoc
// @Summary Dashboard metrics for the landing page
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} catalog.Metrics
// @Failure 502 {object} ErrorResponse
// @Router /dashboard [get]
func GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	var (
		products  []models.Product
		orders    []models.Order
		customers []models.Customer
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		products, err = listProducts(ctx)
		return err
	})
	g.Go(func() (err error) {
		orders, err = shop.ListOrders(ctx)
		return err
	})
	g.Go(func() (err error) {
		customers, err = shop.ListCustomers(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		writeUpstreamError(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, catalog.Dashboard(products, orders, customers, lowStockThreshold))
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
