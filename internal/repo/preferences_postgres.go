package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type PostgresPreferencesRepository struct {
	db *sql.DB
}

func NewPostgresPreferencesRepository(db *sql.DB) *PostgresPreferencesRepository {
	return &PostgresPreferencesRepository{db: db}
}

func (r *PostgresPreferencesRepository) Get(userID int) (models.Preferences, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	p := models.Preferences{UserID: userID}
	err := r.db.QueryRowContext(ctx, `SELECT theme, nav_collapsed FROM preferences WHERE user_id = $1`, userID).
		Scan(&p.Theme, &p.NavCollapsed)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultPreferences(userID), nil
	}
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}
	return p, nil
}

func (r *PostgresPreferencesRepository) Save(p models.Preferences) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preferences (user_id, theme, nav_collapsed, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET theme = EXCLUDED.theme, nav_collapsed = EXCLUDED.nav_collapsed, updated_at = EXCLUDED.updated_at`,
		p.UserID, p.Theme, p.NavCollapsed, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
