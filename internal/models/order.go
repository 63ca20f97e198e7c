package models

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipping  OrderStatus = "shipping"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderShipping, OrderCompleted, OrderCancelled}

func (s OrderStatus) Valid() bool {
	for _, v := range orderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Open reports whether the order still has a balance to collect.
func (s OrderStatus) Open() bool {
	return s == OrderPending || s == OrderConfirmed || s == OrderShipping
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

type OrderItem struct {
	VariantID   int64  `json:"variant_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
	Price       Money  `json:"price"`
}

type Order struct {
	ID                int64       `json:"id"`
	CustomerID        int64       `json:"customer_id"`
	Items             []OrderItem `json:"items"`
	Total             Money       `json:"total"`
	Deposit           Money       `json:"deposit"`
	Status            OrderStatus `json:"status"`
	ChinaTrackingCode string      `json:"china_tracking_code,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

// Balance is what is left to collect on the order.
func (o Order) Balance() Money {
	return o.Total - o.Deposit
}
