package repo

import (
	"time"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type SubmissionFilter struct {
	UserID *int
	Status *models.SubmissionStatus
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}
