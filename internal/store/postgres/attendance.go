// Package postgres implements the store contracts over Postgres, with the
// attendance day documents persisted as jsonb.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"school-ledger/internal/dateutil"
	"school-ledger/internal/models"
)

// AttendanceStore persists one row per day; the student-id keyed record map
// lives in a jsonb column so merges and single-student deletes map onto
// jsonb || and - operators.
type AttendanceStore struct {
	db *sql.DB
}

func NewAttendanceStore(db *sql.DB) *AttendanceStore {
	return &AttendanceStore{db: db}
}

func (s *AttendanceStore) Day(ctx context.Context, dateKey string) (*models.AttendanceDay, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT records FROM attendance_days WHERE day = $1
	`, dateKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance day %s: %w", dateKey, err)
	}

	return decodeDay(dateKey, raw)
}

func (s *AttendanceStore) DaysInRange(ctx context.Context, start, end time.Time) ([]*models.AttendanceDay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, records FROM attendance_days
		WHERE day >= $1 AND day < $2
		ORDER BY day ASC
	`, dateutil.ToKey(start), dateutil.ToKey(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance days: %w", err)
	}
	defer rows.Close()

	var out []*models.AttendanceDay
	for rows.Next() {
		var dateKey string
		var raw []byte
		if err := rows.Scan(&dateKey, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		day, err := decodeDay(dateKey, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, day)
	}
	return out, rows.Err()
}

func (s *AttendanceStore) StudentHistory(ctx context.Context, studentID string) ([]models.StudentAttendance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, records -> $1 FROM attendance_days
		WHERE records ? $1
		ORDER BY day ASC
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance history: %w", err)
	}
	defer rows.Close()

	var out []models.StudentAttendance
	for rows.Next() {
		var dateKey string
		var raw []byte
		if err := rows.Scan(&dateKey, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		var rec models.AttendanceRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode attendance record for %s: %w", dateKey, err)
		}
		out = append(out, models.StudentAttendance{Date: dateKey, Record: rec})
	}
	return out, rows.Err()
}

func (s *AttendanceStore) SetRecord(ctx context.Context, dateKey, studentID string, rec models.AttendanceRecord) error {
	return s.SetRecords(ctx, dateKey, map[string]models.AttendanceRecord{studentID: rec})
}

func (s *AttendanceStore) SetRecords(ctx context.Context, dateKey string, records map[string]models.AttendanceRecord) error {
	if _, err := dateutil.ParseKey(dateKey); err != nil {
		return err
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode attendance records: %w", err)
	}

	// Merge write: jsonb || keeps entries for students not in this batch.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attendance_days (day, records)
		VALUES ($1, $2)
		ON CONFLICT (day) DO UPDATE SET records = attendance_days.records || EXCLUDED.records
	`, dateKey, raw)
	if err != nil {
		return fmt.Errorf("failed to set attendance records for %s: %w", dateKey, err)
	}
	return nil
}

func (s *AttendanceStore) RemoveRecord(ctx context.Context, dateKey, studentID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE attendance_days SET records = records - $2 WHERE day = $1
	`, dateKey, studentID)
	if err != nil {
		return fmt.Errorf("failed to remove attendance record for %s on %s: %w", studentID, dateKey, err)
	}

	// A day with no records is no day at all.
	_, err = s.db.ExecContext(ctx, `
		DELETE FROM attendance_days WHERE day = $1 AND records = '{}'::jsonb
	`, dateKey)
	if err != nil {
		return fmt.Errorf("failed to prune empty attendance day %s: %w", dateKey, err)
	}
	return nil
}

func decodeDay(dateKey string, raw []byte) (*models.AttendanceDay, error) {
	records := make(map[string]models.AttendanceRecord)
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode attendance day %s: %w", dateKey, err)
	}
	return &models.AttendanceDay{Date: dateKey, Records: records}, nil
}
