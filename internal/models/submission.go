package models

import "time"

type SubmissionStatus string

const (
	SubmissionCompleted SubmissionStatus = "completed"
	SubmissionFailed    SubmissionStatus = "failed"
	// SubmissionOrphaned marks a submission whose customer was created
	// upstream but whose order was not.
	SubmissionOrphaned SubmissionStatus = "customer_orphaned"
)

// Submission is a journal entry for one checkout attempt that reached
// the shop API.
type Submission struct {
	ID              int              `json:"id"`
	UserID          int              `json:"user_id"`
	Status          SubmissionStatus `json:"status"`
	CustomerID      int64            `json:"customer_id,omitempty"`
	CustomerCreated bool             `json:"customer_created"`
	OrderID         int64            `json:"order_id,omitempty"`
	ItemCount       int              `json:"item_count"`
	Subtotal        Money            `json:"subtotal"`
	Deposit         Money            `json:"deposit"`
	Remaining       Money            `json:"remaining"`
	Error           string           `json:"error,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionCompleted, SubmissionFailed, SubmissionOrphaned:
		return true
	}
	return false
}
