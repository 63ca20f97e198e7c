package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/order-desk/internal/logging"
	"github.com/rogerio-castellano/order-desk/internal/redissvc"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found or expired")

// RefreshStore maps opaque refresh tokens to user ids. Take consumes the
// token so each one is usable once.
type RefreshStore interface {
	Put(token string, userID int, ttl time.Duration) error
	Take(token string) (int, error)
	Delete(token string) error
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type refreshEntry struct {
	userID    int
	expiresAt time.Time
}

type MemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{tokens: map[string]refreshEntry{}}
}

func (s *MemoryRefreshStore) Put(token string, userID int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = refreshEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryRefreshStore) Take(token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[token]
	delete(s.tokens, token)
	if !ok || time.Now().After(e.expiresAt) {
		return 0, ErrRefreshTokenNotFound
	}
	return e.userID, nil
}

func (s *MemoryRefreshStore) Delete(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

// StartCleaner drops expired tokens every interval until stop is closed.
func (s *MemoryRefreshStore) StartCleaner(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			removed := 0
			for token, e := range s.tokens {
				if now.After(e.expiresAt) {
					delete(s.tokens, token)
					removed++
				}
			}
			s.mu.Unlock()
			if removed > 0 {
				logging.WithModule("auth").Debugf("removed %d expired refresh tokens", removed)
			}
		}
	}
}

type RedisRefreshStore struct {
	rs *redissvc.RedisService
}

func NewRedisRefreshStore(rs *redissvc.RedisService) *RedisRefreshStore {
	return &RedisRefreshStore{rs: rs}
}

func refreshKey(token string) string {
	return fmt.Sprintf(redissvc.KeyRefreshToken, token)
}

func (s *RedisRefreshStore) Put(token string, userID int, ttl time.Duration) error {
	return s.rs.Rdb().Set(s.rs.Ctx(), refreshKey(token), userID, ttl).Err()
}

func (s *RedisRefreshStore) Take(token string) (int, error) {
	val, err := s.rs.Rdb().GetDel(s.rs.Ctx(), refreshKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrRefreshTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

func (s *RedisRefreshStore) Delete(token string) error {
	return s.rs.Rdb().Del(s.rs.Ctx(), refreshKey(token)).Err()
}
