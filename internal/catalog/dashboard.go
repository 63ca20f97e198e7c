package catalog

import (
	"sort"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

const topCustomerCount = 5

type Metrics struct {
	TotalProducts      int                        `json:"total_products"`
	TotalStock         int                        `json:"total_stock"`
	LowStockCount      int                        `json:"low_stock_count"`
	InventoryValue     models.Money               `json:"inventory_value"`
	OrdersByStatus     map[models.OrderStatus]int `json:"orders_by_status"`
	Revenue            models.Money               `json:"revenue"`
	OutstandingBalance models.Money               `json:"outstanding_balance"`
	TopCustomers       []models.Customer          `json:"top_customers"`
}

// Dashboard computes the landing page figures. Revenue counts completed
// orders only; the outstanding balance covers orders still open.
func Dashboard(products []models.Product, orders []models.Order, customers []models.Customer, lowStockThreshold int) Metrics {
	m := Metrics{
		TotalProducts:  len(products),
		OrdersByStatus: map[models.OrderStatus]int{},
		TopCustomers:   []models.Customer{},
	}
	for _, s := range models.OrderStatuses() {
		m.OrdersByStatus[s] = 0
	}

	for _, p := range products {
		m.TotalStock += p.Stock
		m.InventoryValue += p.CostPrice.Times(p.Stock)
		if p.Stock <= lowStockThreshold {
			m.LowStockCount++
		}
	}

	for _, o := range orders {
		m.OrdersByStatus[o.Status]++
		switch {
		case o.Status == models.OrderCompleted:
			m.Revenue += o.Total
		case o.Status.Open():
			m.OutstandingBalance += o.Balance()
		}
	}

	top := make([]models.Customer, len(customers))
	copy(top, customers)
	sort.SliceStable(top, func(i, j int) bool { return top[i].TotalSpent > top[j].TotalSpent })
	if len(top) > topCustomerCount {
		top = top[:topCustomerCount]
	}
	m.TopCustomers = append(m.TopCustomers, top...)
	return m
}
