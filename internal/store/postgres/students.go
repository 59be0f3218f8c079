package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"school-ledger/internal/models"
)

// StudentStore reads and writes user rows filtered to role=student.
type StudentStore struct {
	db *sql.DB
}

func NewStudentStore(db *sql.DB) *StudentStore {
	return &StudentStore{db: db}
}

const studentColumns = `
	id, email, first_name, last_name, role, enrollment_status, balance,
	frozen_at, frozen_fees_total, frozen_balance,
	balance_cleared_at, balance_cleared_previous, balance_cleared_reason,
	created_at`

func (s *StudentStore) Create(ctx context.Context, st *models.Student) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, first_name, last_name, role, enrollment_status, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, st.ID, st.Email, st.FirstName, st.LastName, models.RoleStudent,
		st.EnrollmentStatus, st.Balance, st.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (s *StudentStore) ByID(ctx context.Context, id string) (*models.Student, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+studentColumns+`
		FROM users WHERE id = $1 AND role = 'student'
	`, id)

	st, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("student %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return st, nil
}

func (s *StudentStore) All(ctx context.Context) ([]*models.Student, error) {
	return s.query(ctx, `
		SELECT `+studentColumns+`
		FROM users WHERE role = 'student'
		ORDER BY LOWER(first_name || ' ' || last_name) ASC
	`)
}

func (s *StudentStore) ByStatus(ctx context.Context, status string) ([]*models.Student, error) {
	return s.query(ctx, `
		SELECT `+studentColumns+`
		FROM users WHERE role = 'student' AND enrollment_status = $1
		ORDER BY LOWER(first_name || ' ' || last_name) ASC
	`, status)
}

func (s *StudentStore) Update(ctx context.Context, st *models.Student) error {
	var clearedAt sql.NullTime
	var clearedPrev sql.NullInt32
	var clearedReason sql.NullString
	if st.BalanceCleared != nil {
		clearedAt = sql.NullTime{Time: st.BalanceCleared.Date, Valid: true}
		clearedPrev = sql.NullInt32{Int32: int32(st.BalanceCleared.PreviousBalance), Valid: true}
		clearedReason = sql.NullString{String: st.BalanceCleared.Reason, Valid: true}
	}

	var frozenAt sql.NullTime
	var frozenFees, frozenBalance sql.NullInt32
	if st.FrozenAt != nil {
		frozenAt = sql.NullTime{Time: *st.FrozenAt, Valid: true}
		frozenFees = sql.NullInt32{Int32: int32(st.FrozenFeesTotal), Valid: true}
		frozenBalance = sql.NullInt32{Int32: int32(st.FrozenBalance), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			email = $2, first_name = $3, last_name = $4,
			enrollment_status = $5, balance = $6,
			frozen_at = $7, frozen_fees_total = $8, frozen_balance = $9,
			balance_cleared_at = $10, balance_cleared_previous = $11, balance_cleared_reason = $12
		WHERE id = $1 AND role = 'student'
	`, st.ID, st.Email, st.FirstName, st.LastName,
		st.EnrollmentStatus, st.Balance,
		frozenAt, frozenFees, frozenBalance,
		clearedAt, clearedPrev, clearedReason)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("student %s: %w", st.ID, models.ErrNotFound)
	}
	return nil
}

// EnsureAdmin creates the admin user row if it does not exist yet. Only the
// credentials are stored; the core performs no authentication.
func (s *StudentStore) EnsureAdmin(ctx context.Context, id, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, enrollment_status)
		VALUES ($1, $2, $3, 'admin', '')
		ON CONFLICT (email) DO NOTHING
	`, id, email, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}
	return nil
}

func (s *StudentStore) query(ctx context.Context, q string, args ...interface{}) ([]*models.Student, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var out []*models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func scanStudent(row rowScanner) (*models.Student, error) {
	st := &models.Student{}
	var frozenAt, clearedAt sql.NullTime
	var frozenFees, frozenBalance, clearedPrev sql.NullInt32
	var clearedReason sql.NullString

	err := row.Scan(&st.ID, &st.Email, &st.FirstName, &st.LastName, &st.Role,
		&st.EnrollmentStatus, &st.Balance,
		&frozenAt, &frozenFees, &frozenBalance,
		&clearedAt, &clearedPrev, &clearedReason,
		&st.CreatedAt)
	if err != nil {
		return nil, err
	}

	if frozenAt.Valid {
		t := frozenAt.Time.Local()
		st.FrozenAt = &t
		st.FrozenFeesTotal = int(frozenFees.Int32)
		st.FrozenBalance = int(frozenBalance.Int32)
	}
	if clearedAt.Valid {
		st.BalanceCleared = &models.BalanceCleared{
			Date:            clearedAt.Time.Local(),
			PreviousBalance: int(clearedPrev.Int32),
			Reason:          clearedReason.String,
		}
	}
	return st, nil
}
