package repo

import (
	"fmt"
	"time"

	"github.com/rogerio-castellano/order-desk/internal/cart"
	"github.com/rogerio-castellano/order-desk/internal/redissvc"
)

type RedisCartStore struct {
	rs  *redissvc.RedisService
	ttl time.Duration
}

// NewRedisCartStore stores drafts for ttl after their last save; zero
// means redissvc.TTLCartDraft.
func NewRedisCartStore(rs *redissvc.RedisService, ttl time.Duration) *RedisCartStore {
	if ttl <= 0 {
		ttl = redissvc.TTLCartDraft
	}
	return &RedisCartStore{rs: rs, ttl: ttl}
}

func cartKey(userID int) string {
	return fmt.Sprintf(redissvc.KeyCartDraft, userID)
}

func (s *RedisCartStore) Load(userID int) (*cart.Cart, error) {
	c := cart.New()
	found, err := s.rs.GetJSON(cartKey(userID), c)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart draft: %w", err)
	}
	if !found || c.Lines == nil {
		return cart.New(), nil
	}
	return c, nil
}

func (s *RedisCartStore) Save(userID int, c *cart.Cart) error {
	if err := s.rs.SetJSON(cartKey(userID), c, s.ttl); err != nil {
		return fmt.Errorf("failed to save cart draft: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Delete(userID int) error {
	return s.rs.Rdb().Del(s.rs.Ctx(), cartKey(userID)).Err()
}
