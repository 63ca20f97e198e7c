package shopapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type OrderInput struct {
	CustomerID int64              `json:"customer_id"`
	Items      []models.OrderItem `json:"items"`
	Total      models.Money       `json:"total"`
	Deposit    models.Money       `json:"deposit"`
	Status     models.OrderStatus `json:"status"`
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type trackingRequest struct {
	ChinaTrackingCode string `json:"china_tracking_code"`
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	var o models.Order
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &o)
	return o, err
}

func (c *Client) CreateOrder(ctx context.Context, in OrderInput) (models.Order, error) {
	var o models.Order
	err := c.do(ctx, http.MethodPost, "/orders", in, &o)
	return o, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (models.Order, error) {
	var o models.Order
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/status", id), statusRequest{Status: status}, &o)
	return o, err
}

func (c *Client) UpdateOrderTracking(ctx context.Context, id int64, code string) (models.Order, error) {
	var o models.Order
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/tracking", id), trackingRequest{ChinaTrackingCode: code}, &o)
	return o, err
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, nil)
}
