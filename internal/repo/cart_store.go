package repo

import "github.com/rogerio-castellano/order-desk/internal/cart"

// CartStore keeps one draft cart per operator. Load of an operator with
// no draft returns an empty cart.
type CartStore interface {
	Load(userID int) (*cart.Cart, error)
	Save(userID int, c *cart.Cart) error
	Delete(userID int) error
}
