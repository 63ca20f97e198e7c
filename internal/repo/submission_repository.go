package repo

import "github.com/rogerio-castellano/order-desk/internal/models"

// SubmissionRepository is the journal of checkout attempts.
type SubmissionRepository interface {
	Log(s models.Submission) (models.Submission, error)
	List(sf SubmissionFilter) ([]models.Submission, int, error)
}

const defaultLimit = 100
