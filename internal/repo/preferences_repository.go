package repo

import "github.com/rogerio-castellano/order-desk/internal/models"

// PreferencesRepository stores per-operator panel settings. Get never
// fails for an unknown user: it returns the defaults.
type PreferencesRepository interface {
	Get(userID int) (models.Preferences, error)
	Save(p models.Preferences) error
}
