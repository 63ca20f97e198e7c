package repo

import (
	"encoding/json"
	"sync"

	"github.com/rogerio-castellano/order-desk/internal/cart"
)

// InMemoryCartStore keeps drafts as encoded JSON so callers never share
// line slices with the store.
type InMemoryCartStore struct {
	mu     sync.Mutex
	drafts map[int][]byte
}

func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{drafts: map[int][]byte{}}
}

func (s *InMemoryCartStore) Load(userID int) (*cart.Cart, error) {
	s.mu.Lock()
	data, ok := s.drafts[userID]
	s.mu.Unlock()
	if !ok {
		return cart.New(), nil
	}
	c := cart.New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *InMemoryCartStore) Save(userID int, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = data
	return nil
}

func (s *InMemoryCartStore) Delete(userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}
