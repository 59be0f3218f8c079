package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"school-ledger/internal/models"
)

type ExpenseStore struct {
	db *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

func (s *ExpenseStore) Create(ctx context.Context, e *models.Expense) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, category, description, amount, paid_on, admin_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.Category, e.Description, e.Amount, e.Date, e.AdminID,
		nullString(e.Notes), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

func (s *ExpenseStore) ByID(ctx context.Context, id string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, category, description, amount, paid_on, admin_id, notes, created_at
		FROM expenses WHERE id = $1
	`, id)

	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

func (s *ExpenseStore) ByDateRange(ctx context.Context, start, end time.Time) ([]*models.Expense, error) {
	return s.query(ctx, `
		SELECT id, category, description, amount, paid_on, admin_id, notes, created_at
		FROM expenses WHERE paid_on >= $1 AND paid_on < $2
		ORDER BY paid_on DESC, created_at DESC
	`, start, end)
}

func (s *ExpenseStore) All(ctx context.Context) ([]*models.Expense, error) {
	return s.query(ctx, `
		SELECT id, category, description, amount, paid_on, admin_id, notes, created_at
		FROM expenses
		ORDER BY paid_on DESC, created_at DESC
	`)
}

func (s *ExpenseStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expense %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (s *ExpenseStore) query(ctx context.Context, q string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var out []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	var notes sql.NullString
	err := row.Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &e.Date,
		&e.AdminID, &notes, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Notes = notes.String
	e.Date = e.Date.Local()
	return e, nil
}
