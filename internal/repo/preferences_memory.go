package repo

import (
	"sync"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type InMemoryPreferencesRepository struct {
	mu    sync.RWMutex
	prefs map[int]models.Preferences
}

func NewInMemoryPreferencesRepository() *InMemoryPreferencesRepository {
	return &InMemoryPreferencesRepository{prefs: map[int]models.Preferences{}}
}

func (r *InMemoryPreferencesRepository) Get(userID int) (models.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.prefs[userID]; ok {
		return p, nil
	}
	return models.DefaultPreferences(userID), nil
}

func (r *InMemoryPreferencesRepository) Save(p models.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[p.UserID] = p
	return nil
}
