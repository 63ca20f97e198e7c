// Package shopapitest runs an in-memory shop API for tests.
package shopapitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type failure struct {
	status  int
	message string
	network bool
}

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	token     string
	products  map[int64]models.Product
	variants  map[int64]models.Variant
	customers map[int64]models.Customer
	orders    map[int64]models.Order
	history   []models.StockHistoryEntry
	nextID    int64
	failures  map[string]failure
	hooks     map[string]func()
	calls     map[string]int
	now       func() time.Time
}

// NewServer starts the fake API. Close it with t.Cleanup(s.Close).
func NewServer() *Server {
	s := &Server{
		products:  map[int64]models.Product{},
		variants:  map[int64]models.Variant{},
		customers: map[int64]models.Customer{},
		orders:    map[int64]models.Order{},
		failures:  map[string]failure{},
		hooks:     map[string]func(){},
		calls:     map[string]int{},
		now:       time.Now,
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.intercept)

	r.Get("/products", s.listProducts)
	r.Post("/products", s.createProduct)
	r.Get("/products/{id}", s.getProduct)
	r.Put("/products/{id}", s.updateProduct)
	r.Delete("/products/{id}", s.deleteProduct)
	r.Post("/products/{id}/image", s.uploadImage)

	r.Get("/variants", s.listVariants)
	r.Post("/variants", s.createVariant)
	r.Post("/variants/bulk", s.bulkVariants)
	r.Get("/variants/by-product/{id}", s.variantsByProduct)
	r.Put("/variants/{id}", s.updateVariant)
	r.Delete("/variants/{id}", s.deleteVariant)

	r.Get("/customers", s.listCustomers)
	r.Post("/customers", s.createCustomer)
	r.Get("/customers/{id}", s.getCustomer)
	r.Put("/customers/{id}", s.updateCustomer)
	r.Delete("/customers/{id}", s.deleteCustomer)

	r.Get("/orders", s.listOrders)
	r.Post("/orders", s.createOrder)
	r.Get("/orders/{id}", s.getOrder)
	r.Put("/orders/{id}/status", s.updateOrderStatus)
	r.Put("/orders/{id}/tracking", s.updateOrderTracking)
	r.Delete("/orders/{id}", s.deleteOrder)

	r.Post("/stock/import", s.importStock)
	r.Get("/stock/history", s.stockHistory)
	return r
}

func routeKey(method, path string) string {
	return method + " " + path
}

// intercept counts calls, checks the bearer token and applies injected
// failures. Keys use the request path, e.g. "POST /orders".
func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := routeKey(r.Method, r.URL.Path)

		s.mu.Lock()
		s.calls[key]++
		f, failing := s.failures[key]
		hook := s.hooks[key]
		token := s.token
		s.mu.Unlock()

		if hook != nil {
			hook()
		}

		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			writeError(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}

		if failing {
			if f.network {
				if hj, ok := w.(http.Hijacker); ok {
					conn, _, err := hj.Hijack()
					if err == nil {
						conn.Close()
						return
					}
				}
			}
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireToken makes every route answer 401 unless the request carries
// the bearer token.
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Fail makes method+path answer status with message until Recover.
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[routeKey(method, path)] = failure{status: status, message: message}
}

// FailNetwork drops the connection for method+path without answering.
func (s *Server) FailNetwork(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[routeKey(method, path)] = failure{network: true}
}

func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, routeKey(method, path))
	delete(s.hooks, routeKey(method, path))
}

// Before runs fn each time method+path is requested, ahead of the
// handler, until Recover.
func (s *Server) Before(method, path string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[routeKey(method, path)] = fn
}

// Calls reports how many requests reached method+path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, path)]
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) AddProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.products[p.ID] = p
	return p
}

func (s *Server) AddVariant(v models.Variant) models.Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == 0 {
		v.ID = s.id()
	}
	s.variants[v.ID] = v
	s.syncProductStock(v.ProductID)
	return v
}

func (s *Server) AddCustomer(c models.Customer) models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.customers[c.ID] = c
	return c
}

func (s *Server) AddOrder(o models.Order) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.id()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	s.orders[o.ID] = o
	return o
}

func (s *Server) AddHistory(e models.StockHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.id()
	}
	s.history = append(s.history, e)
}

func (s *Server) Variant(id int64) (models.Variant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.variants[id]
	return v, ok
}

func (s *Server) Customers() []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return values(s.customers)
}

func (s *Server) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return values(s.orders)
}

func (s *Server) History() []models.StockHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StockHistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// syncProductStock keeps product stock equal to the sum of its variants.
func (s *Server) syncProductStock(productID int64) {
	p, ok := s.products[productID]
	if !ok {
		return
	}
	total := 0
	for _, v := range s.variants {
		if v.ProductID == productID {
			total += v.Stock
		}
	}
	p.Stock = total
	s.products[productID] = p
}

func values[K comparable, V any](m map[K]V) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func decode(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		w.WriteHeader(status)
		return
	}
	if strings.HasPrefix(message, "text:") {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, strings.TrimPrefix(message, "text:"))
		return
	}
	writeJSON(w, status, map[string]string{"message": message})
}
