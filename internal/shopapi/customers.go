package shopapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type CustomerInput struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Address     string `json:"address,omitempty"`
	FacebookURL string `json:"facebook_url,omitempty" validate:"omitempty,url"`
	Notes       string `json:"notes,omitempty"`
}

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (models.Customer, error) {
	var cu models.Customer
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, &cu)
	return cu, err
}

func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) (models.Customer, error) {
	var cu models.Customer
	err := c.do(ctx, http.MethodPost, "/customers", in, &cu)
	return cu, err
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (models.Customer, error) {
	var cu models.Customer
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", id), in, &cu)
	return cu, err
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil)
}
