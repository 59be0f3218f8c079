package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"school-ledger/internal/models"
)

type PaymentStore struct {
	db *sql.DB
}

func NewPaymentStore(db *sql.DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Create(ctx context.Context, p *models.Payment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, student_id, amount, paid_on, method, notes, admin_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.StudentID, p.Amount, p.Date, p.PaymentMethod,
		nullString(p.Notes), nullString(p.AdminID), p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (s *PaymentStore) ByID(ctx context.Context, id string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, student_id, amount, paid_on, method, notes, admin_id, created_at
		FROM payments WHERE id = $1
	`, id)

	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

func (s *PaymentStore) ByStudent(ctx context.Context, studentID string) ([]*models.Payment, error) {
	return s.query(ctx, `
		SELECT id, student_id, amount, paid_on, method, notes, admin_id, created_at
		FROM payments WHERE student_id = $1
		ORDER BY paid_on DESC, created_at DESC
	`, studentID)
}

func (s *PaymentStore) ByDateRange(ctx context.Context, start, end time.Time) ([]*models.Payment, error) {
	return s.query(ctx, `
		SELECT id, student_id, amount, paid_on, method, notes, admin_id, created_at
		FROM payments WHERE paid_on >= $1 AND paid_on < $2
		ORDER BY paid_on DESC, created_at DESC
	`, start, end)
}

func (s *PaymentStore) All(ctx context.Context) ([]*models.Payment, error) {
	return s.query(ctx, `
		SELECT id, student_id, amount, paid_on, method, notes, admin_id, created_at
		FROM payments
		ORDER BY paid_on DESC, created_at DESC
	`)
}

func (s *PaymentStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("payment %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (s *PaymentStore) query(ctx context.Context, q string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	p := &models.Payment{}
	var notes, adminID sql.NullString
	err := row.Scan(&p.ID, &p.StudentID, &p.Amount, &p.Date, &p.PaymentMethod,
		&notes, &adminID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Notes = notes.String
	p.AdminID = adminID.String
	p.Date = p.Date.Local()
	return p, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
