package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/order-desk/internal/models"
)

type PostgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

// Log inserts a new journal entry
func (r *PostgresSubmissionRepository) Log(s models.Submission) (models.Submission, error) {
	query := `INSERT INTO submissions
		(user_id, status, customer_id, customer_created, order_id, item_count, subtotal, deposit, remaining, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, query,
		s.UserID, string(s.Status), s.CustomerID, s.CustomerCreated, s.OrderID, s.ItemCount,
		int64(s.Subtotal), int64(s.Deposit), int64(s.Remaining), s.Error, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return models.Submission{}, fmt.Errorf("failed to insert submission: %w", err)
	}
	return s, nil
}

// List returns journal entries newest first
func (r *PostgresSubmissionRepository) List(sf SubmissionFilter) ([]models.Submission, int, error) {
	whereClause, args := r.buildWhereClause(sf)

	if sf.Offset != nil && *sf.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	total, err := r.getTotal(whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	if sf.Offset != nil && *sf.Offset >= total {
		return []models.Submission{}, total, nil
	}

	query, queryArgs := r.buildMainQuery(whereClause, args, sf)
	submissions, err := r.executeQuery(query, queryArgs)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return submissions, total, nil
}

func (r *PostgresSubmissionRepository) buildWhereClause(sf SubmissionFilter) (string, []any) {
	var args []any
	whereClause := "WHERE 1=1"
	argIndex := 1

	if sf.UserID != nil {
		whereClause += fmt.Sprintf(" AND user_id = $%d", argIndex)
		args = append(args, *sf.UserID)
		argIndex++
	}

	if sf.Status != nil {
		whereClause += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(*sf.Status))
		argIndex++
	}

	if sf.Since != nil {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *sf.Since)
		argIndex++
	}

	if sf.Until != nil {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *sf.Until)
	}

	return whereClause, args
}

func (r *PostgresSubmissionRepository) buildMainQuery(whereClause string, baseArgs []any, sf SubmissionFilter) (string, []any) {
	query := fmt.Sprintf(`SELECT id, user_id, status, customer_id, customer_created, order_id, item_count,
		subtotal, deposit, remaining, error, created_at FROM submissions %s ORDER BY created_at DESC, id DESC`, whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)
	argIndex := len(baseArgs) + 1

	limit := defaultLimit
	if sf.Limit != nil && *sf.Limit > 0 {
		limit = min(*sf.Limit, defaultLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if sf.Offset != nil && *sf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *sf.Offset)
	}

	return query, args
}

func (r *PostgresSubmissionRepository) getTotal(whereClause string, args []any) (int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM submissions %s", whereClause)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

func (r *PostgresSubmissionRepository) executeQuery(query string, args []any) ([]models.Submission, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := []models.Submission{}
	for rows.Next() {
		var (
			s                            models.Submission
			subtotal, deposit, remaining int64
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Status, &s.CustomerID, &s.CustomerCreated, &s.OrderID,
			&s.ItemCount, &subtotal, &deposit, &remaining, &s.Error, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Subtotal = models.Money(subtotal)
		s.Deposit = models.Money(deposit)
		s.Remaining = models.Money(remaining)
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}
