package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/order-desk/docs"
	"github.com/rogerio-castellano/order-desk/internal/http/handlers"
	mw "github.com/rogerio-castellano/order-desk/internal/http/middleware"
	"github.com/rogerio-castellano/order-desk/internal/models"
)

// RequestTimeout bounds every request, including the shop API calls made
// on its behalf.
const RequestTimeout = 30 * time.Second

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(RequestTimeout))

	r.Get("/healthz", handlers.HealthHandler)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitMiddleware)
		r.With(mw.LoginBanMiddleware).Post("/login", handlers.LoginHandler)
		r.Post("/refresh", handlers.RefreshHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware)

		r.Post("/logout", handlers.LogoutHandler)
		r.With(mw.RequireRole(models.RoleAdmin)).Post("/admin/users", handlers.RegisterAsAdminHandler)
		r.Get("/me/preferences", handlers.GetPreferencesHandler)
		r.Put("/me/preferences", handlers.UpdatePreferencesHandler)

		r.Get("/dashboard", handlers.GetDashboardHandler)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", handlers.GetProductsHandler)
			r.Post("/", handlers.CreateProductHandler)
			r.Get("/categories", handlers.GetCategoriesHandler)
			r.Get("/{id}", handlers.GetProductByIDHandler)
			r.Put("/{id}", handlers.UpdateProductHandler)
			r.Delete("/{id}", handlers.DeleteProductHandler)
			r.Post("/{id}/image", handlers.UploadProductImageHandler)
			r.Get("/{id}/variants", handlers.GetProductVariantsHandler)
			r.Post("/{id}/variants/bulk", handlers.BulkCreateVariantsHandler)
			r.Post("/{id}/variants/import", handlers.ImportVariantsHandler)
		})
		r.Put("/variants/{id}", handlers.UpdateVariantHandler)
		r.Delete("/variants/{id}", handlers.DeleteVariantHandler)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", handlers.GetCustomersHandler)
			r.Post("/", handlers.CreateCustomerHandler)
			r.Get("/{id}", handlers.GetCustomerByIDHandler)
			r.Put("/{id}", handlers.UpdateCustomerHandler)
			r.Delete("/{id}", handlers.DeleteCustomerHandler)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", handlers.GetOrdersHandler)
			r.Get("/{id}", handlers.GetOrderByIDHandler)
			r.Put("/{id}/status", handlers.UpdateOrderStatusHandler)
			r.Put("/{id}/tracking", handlers.UpdateOrderTrackingHandler)
			r.Delete("/{id}", handlers.DeleteOrderHandler)
		})

		r.Post("/stock/import", handlers.ImportStockHandler)
		r.Get("/stock/history", handlers.GetStockHistoryHandler)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", handlers.GetCartHandler)
			r.Delete("/", handlers.ClearCartHandler)
			r.Get("/totals", handlers.GetCartTotalsHandler)
			r.Post("/items", handlers.AddCartItemHandler)
			r.Patch("/items/{index}", handlers.UpdateCartItemHandler)
			r.Delete("/items/{index}", handlers.RemoveCartItemHandler)
		})

		r.Post("/checkout", handlers.CheckoutHandler)
		r.Get("/submissions", handlers.GetSubmissionsHandler)
	})

	return r
}
