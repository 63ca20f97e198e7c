package shopapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type ProductInput struct {
	SKU        string       `json:"sku" validate:"required"`
	Name       string       `json:"name" validate:"required"`
	Category   string       `json:"category"`
	Brand      string       `json:"brand"`
	CostPrice  models.Money `json:"cost_price" validate:"gte=0"`
	SalePrice  models.Money `json:"sale_price" validate:"gt=0"`
	CoverImage string       `json:"cover_image,omitempty"`
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &p)
	return p, err
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodPost, "/products", in, &p)
	return p, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in ProductInput) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), in, &p)
	return p, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// UploadProductImage sends the image as multipart form data under the
// "image" field and returns the updated product.
func (c *Client) UploadProductImage(ctx context.Context, id int64, filename string, image io.Reader) (models.Product, error) {
	var p models.Product
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/products/%d/image", id), nil, &p, func(r *resty.Request) {
		r.SetFileReader("image", filename, image)
	})
	return p, err
}
