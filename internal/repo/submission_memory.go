package repo

import (
	"sort"
	"sync"
	"time"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type InMemorySubmissionRepository struct {
	mu          sync.RWMutex
	submissions []models.Submission
}

func NewInMemorySubmissionRepository() *InMemorySubmissionRepository {
	return &InMemorySubmissionRepository{
		submissions: []models.Submission{},
	}
}

func (r *InMemorySubmissionRepository) Log(s models.Submission) (models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = len(r.submissions) + 1
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	r.submissions = append(r.submissions, s)
	return s, nil
}

func matchesSubmission(s models.Submission, sf SubmissionFilter) bool {
	if sf.UserID != nil && s.UserID != *sf.UserID {
		return false
	}
	if sf.Status != nil && s.Status != *sf.Status {
		return false
	}
	if sf.Since != nil && s.CreatedAt.Before(*sf.Since) {
		return false
	}
	if sf.Until != nil && s.CreatedAt.After(*sf.Until) {
		return false
	}
	return true
}

// List returns matching submissions newest first, paginated, plus the
// total number of matches.
func (r *InMemorySubmissionRepository) List(sf SubmissionFilter) ([]models.Submission, int, error) {
	r.mu.RLock()
	filtered := []models.Submission{}
	for _, s := range r.submissions {
		if matchesSubmission(s, sf) {
			filtered = append(filtered, s)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if sf.Offset != nil && *sf.Offset >= len(filtered) {
		return []models.Submission{}, len(filtered), nil
	}

	start := 0
	if sf.Offset != nil {
		start = clamp(*sf.Offset, 0, len(filtered))
	}

	limit := defaultLimit
	if sf.Limit != nil && *sf.Limit > 0 {
		limit = min(*sf.Limit, defaultLimit)
	}
	end := clamp(start+limit, start, len(filtered))

	return filtered[start:end], len(filtered), nil
}
