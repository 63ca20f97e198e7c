package shopapitest

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

func sortedByID[T any](items []T, id func(T) int64) []T {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
	return items
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := sortedByID(values(s.products), func(p models.Product) int64 { return p.ID })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	p, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decode(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.SKU) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name and sku are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.products {
		if existing.SKU == p.SKU {
			writeError(w, http.StatusConflict, "sku already exists")
			return
		}
	}
	p.ID = s.id()
	p.Stock = 0
	s.products[p.ID] = p
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in models.Product
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	in.ID = p.ID
	in.Stock = p.Stock
	if in.CoverImage == "" {
		in.CoverImage = p.CoverImage
	}
	s.products[id] = in
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	delete(s.products, id)
	for vid, v := range s.variants {
		if v.ProductID == id {
			delete(s.variants, vid)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form")
		return
	}
	_, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	p.CoverImage = fmt.Sprintf("/uploads/%d/%s", id, header.Filename)
	s.products[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) listVariants(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := sortedByID(values(s.variants), func(v models.Variant) int64 { return v.ID })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) variantsByProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	out := []models.Variant{}
	for _, v := range s.variants {
		if v.ProductID == id {
			out = append(out, v)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, sortedByID(out, func(v models.Variant) int64 { return v.ID }))
}

func (s *Server) createVariant(w http.ResponseWriter, r *http.Request) {
	var v models.Variant
	if err := decode(r, &v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[v.ProductID]; !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	v.ID = s.id()
	s.variants[v.ID] = v
	s.syncProductStock(v.ProductID)
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) bulkVariants(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64            `json:"product_id"`
		Variants  []models.Variant `json:"variants"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[req.ProductID]; !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	created := make([]models.Variant, 0, len(req.Variants))
	for _, v := range req.Variants {
		v.ID = s.id()
		v.ProductID = req.ProductID
		s.variants[v.ID] = v
		created = append(created, v)
	}
	s.syncProductStock(req.ProductID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) updateVariant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in models.Variant
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.variants[id]
	if !ok {
		writeError(w, http.StatusNotFound, "variant not found")
		return
	}
	in.ID = v.ID
	in.ProductID = v.ProductID
	s.variants[id] = in
	s.syncProductStock(v.ProductID)
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) deleteVariant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.variants[id]
	if !ok {
		writeError(w, http.StatusNotFound, "variant not found")
		return
	}
	delete(s.variants, id)
	s.syncProductStock(v.ProductID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := sortedByID(values(s.customers), func(c models.Customer) int64 { return c.ID })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	c, ok := s.customers[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var c models.Customer
	if err := decode(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name and phone are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	c.TotalOrders = 0
	c.TotalSpent = 0
	s.customers[c.ID] = c
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in models.Customer
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	in.ID = c.ID
	in.TotalOrders = c.TotalOrders
	in.TotalSpent = c.TotalSpent
	s.customers[id] = in
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	delete(s.customers, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := sortedByID(values(s.orders), func(o models.Order) int64 { return o.ID })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	o, ok := s.orders[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// createOrder checks every item against variant stock before touching
// anything, then decrements stock and records "order" history entries.
func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var o models.Order
	if err := decode(r, &o); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(o.Items) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "order has no items")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customers[o.CustomerID]
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "customer not found")
		return
	}
	for _, item := range o.Items {
		v, ok := s.variants[item.VariantID]
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("variant %d not found", item.VariantID))
			return
		}
		if v.Stock < item.Quantity {
			writeError(w, http.StatusConflict, fmt.Sprintf("not enough stock for variant %d", item.VariantID))
			return
		}
	}

	now := s.now()
	for _, item := range o.Items {
		v := s.variants[item.VariantID]
		v.Stock -= item.Quantity
		s.variants[v.ID] = v
		s.syncProductStock(v.ProductID)

		p := s.products[v.ProductID]
		s.history = append(s.history, models.StockHistoryEntry{
			ID:          s.id(),
			ProductSKU:  p.SKU,
			ProductName: item.ProductName,
			ChangeQty:   -item.Quantity,
			Reason:      models.StockReasonOrder,
			CreatedAt:   now,
		})
	}

	o.ID = s.id()
	o.CreatedAt = now
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	s.orders[o.ID] = o

	customer.TotalOrders++
	customer.TotalSpent += o.Total
	s.customers[customer.ID] = customer

	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "invalid status")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	o.Status = req.Status
	s.orders[id] = o
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) updateOrderTracking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		ChinaTrackingCode string `json:"china_tracking_code"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	o.ChinaTrackingCode = req.ChinaTrackingCode
	s.orders[id] = o
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	delete(s.orders, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) importStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VariantID int64  `json:"variant_id"`
		Quantity  int    `json:"quantity"`
		Note      string `json:"note"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "quantity must be positive")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.variants[req.VariantID]
	if !ok {
		writeError(w, http.StatusNotFound, "variant not found")
		return
	}
	v.Stock += req.Quantity
	s.variants[v.ID] = v
	s.syncProductStock(v.ProductID)

	p := s.products[v.ProductID]
	s.history = append(s.history, models.StockHistoryEntry{
		ID:          s.id(),
		ProductSKU:  p.SKU,
		ProductName: p.Name,
		ChangeQty:   req.Quantity,
		Reason:      models.StockReasonImport,
		CreatedAt:   s.now(),
	})
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) stockHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.StockHistoryEntry, len(s.history))
	copy(out, s.history)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}
