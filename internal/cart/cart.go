package cart

import (
	"errors"
	"fmt"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrLineNotFound      = errors.New("cart line not found")
)

// StockError reports an add that would take a line past the stock the
// variant has left.
type StockError struct {
	VariantID int64
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("variant %d: requested %d, only %d in stock", e.VariantID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Line is one variant in the cart. Stock is the variant stock as it was
// last seen, not a reservation.
type Line struct {
	ProductID   int64        `json:"product_id"`
	VariantID   int64        `json:"variant_id"`
	ProductName string       `json:"product_name"`
	SKU         string       `json:"sku"`
	Size        string       `json:"size"`
	Color       string       `json:"color"`
	Price       models.Money `json:"price"`
	Quantity    int          `json:"quantity"`
	Stock       int          `json:"stock"`
}

func (l Line) Amount() models.Money {
	return l.Price.Times(l.Quantity)
}

// Cart holds at most one line per variant.
type Cart struct {
	Lines []Line `json:"lines"`
}

func New() *Cart {
	return &Cart{Lines: []Line{}}
}

func (c *Cart) Len() int {
	return len(c.Lines)
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) indexOf(variantID int64) int {
	for i, l := range c.Lines {
		if l.VariantID == variantID {
			return i
		}
	}
	return -1
}

// Add puts one unit of variant into the cart. An existing line for the
// variant is incremented; otherwise a new line is appended at the
// variant price, or the product price when the variant has none.
//
// When the variant stock has dropped below the line quantity the line
// is clamped to what is left, or removed when nothing is, and the add
// fails with a StockError.
func (c *Cart) Add(product models.Product, variant models.Variant) error {
	if i := c.indexOf(variant.ID); i >= 0 {
		requested := c.Lines[i].Quantity + 1
		c.settle(i, variant.Stock)
		if requested > variant.Stock {
			return &StockError{VariantID: variant.ID, Requested: requested, Available: variant.Stock}
		}
		c.Lines[i].Quantity++
		return nil
	}

	if variant.Stock < 1 {
		return &StockError{VariantID: variant.ID, Requested: 1, Available: variant.Stock}
	}

	c.Lines = append(c.Lines, Line{
		ProductID:   product.ID,
		VariantID:   variant.ID,
		ProductName: product.Name,
		SKU:         product.SKU,
		Size:        variant.Size,
		Color:       variant.Color,
		Price:       variant.PriceFor(product),
		Quantity:    1,
		Stock:       variant.Stock,
	})
	return nil
}

func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.Lines) {
		return ErrLineNotFound
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	return nil
}

// SetQuantity applies qty to the line at index and returns the quantity
// actually stored: never below 1 and never above the recorded stock.
// A line whose variant is out of stock cannot be changed.
func (c *Cart) SetQuantity(index, qty int) (int, error) {
	if index < 0 || index >= len(c.Lines) {
		return 0, ErrLineNotFound
	}
	line := &c.Lines[index]
	if line.Stock < 1 {
		return line.Quantity, &StockError{VariantID: line.VariantID, Requested: max(qty, 1), Available: line.Stock}
	}
	qty = min(max(qty, 1), line.Stock)
	line.Quantity = qty
	return qty, nil
}

func (c *Cart) Subtotal() models.Money {
	var total models.Money
	for _, l := range c.Lines {
		total += l.Amount()
	}
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Items converts the cart into order payload lines.
func (c *Cart) Items() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, models.OrderItem{
			VariantID:   l.VariantID,
			ProductName: l.ProductName,
			Size:        l.Size,
			Color:       l.Color,
			Quantity:    l.Quantity,
			Price:       l.Price,
		})
	}
	return items
}

// RefreshStock updates the recorded stock of lines whose variant is in
// variants. Quantities above the new stock are lowered to it and lines
// whose variant sold out are removed. It reports whether any quantity
// changed.
func (c *Cart) RefreshStock(variants []models.Variant) bool {
	stock := make(map[int64]int, len(variants))
	for _, v := range variants {
		stock[v.ID] = v.Stock
	}
	changed := false
	for i := len(c.Lines) - 1; i >= 0; i-- {
		if s, ok := stock[c.Lines[i].VariantID]; ok {
			changed = c.settle(i, s) || changed
		}
	}
	return changed
}

// settle records stock on the line at i and brings its quantity within
// it, removing the line when stock is gone.
func (c *Cart) settle(i, stock int) bool {
	line := &c.Lines[i]
	line.Stock = stock
	switch {
	case stock < 1:
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return true
	case line.Quantity > stock:
		line.Quantity = stock
		return true
	}
	return false
}

// Oversold returns the first line asking for more than its recorded
// stock, if any.
func (c *Cart) Oversold() (Line, bool) {
	for _, l := range c.Lines {
		if l.Quantity > l.Stock {
			return l, true
		}
	}
	return Line{}, false
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}
