package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/shopfloor/internal/db"
	"github.com/alexanderramin/shopfloor/internal/domain"
)

// SQLiteShiftRepo implements ShiftRepo using a SQLite database.
type SQLiteShiftRepo struct {
	db db.DBTX
}

// NewSQLiteShiftRepo creates a new SQLiteShiftRepo.
func NewSQLiteShiftRepo(conn db.DBTX) *SQLiteShiftRepo {
	return &SQLiteShiftRepo{db: conn}
}

const shiftColumns = `id, name, start_min, end_min, pauses, working, color, created_at, updated_at`

// Create appends the shift to the end of the resolution order.
func (r *SQLiteShiftRepo) Create(ctx context.Context, s *domain.Shift) error {
	pauses, err := encodePauses(s.Pauses)
	if err != nil {
		return err
	}
	query := `INSERT INTO shifts (id, name, start_min, end_min, pauses, working, color, created_at, updated_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM shifts))`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		int(s.Start),
		int(s.End),
		pauses,
		boolToInt(s.Working),
		s.Color,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting shift: %w", err)
	}
	return nil
}

func (r *SQLiteShiftRepo) GetByID(ctx context.Context, id string) (*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = ?`
	s, err := scanShift(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("shift: %w", ErrNotFound)
	}
	return s, err
}

func (r *SQLiteShiftRepo) List(ctx context.Context) ([]*domain.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts ORDER BY seq, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	defer rows.Close()

	var shifts []*domain.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shifts: %w", err)
	}
	return shifts, nil
}

// Update rewrites the shift in place; its position in the order is kept.
func (r *SQLiteShiftRepo) Update(ctx context.Context, s *domain.Shift) error {
	pauses, err := encodePauses(s.Pauses)
	if err != nil {
		return err
	}
	query := `UPDATE shifts SET name = ?, start_min = ?, end_min = ?, pauses = ?, working = ?, color = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name,
		int(s.Start),
		int(s.End),
		pauses,
		boolToInt(s.Working),
		s.Color,
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating shift: %w", err)
	}
	return requireAffected(res, "shift")
}

func (r *SQLiteShiftRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting shift: %w", err)
	}
	return requireAffected(res, "shift")
}

func scanShift(row rowScanner) (*domain.Shift, error) {
	var s domain.Shift
	var startMin, endMin, working int
	var pausesJSON, createdAtStr, updatedAtStr string

	err := row.Scan(
		&s.ID, &s.Name,
		&startMin, &endMin,
		&pausesJSON, &working, &s.Color,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning shift: %w", err)
	}

	s.Start = domain.TimeOfDay(startMin)
	s.End = domain.TimeOfDay(endMin)
	s.Working = intToBool(working)
	if err := json.Unmarshal([]byte(pausesJSON), &s.Pauses); err != nil {
		return nil, fmt.Errorf("decoding pauses of shift %s: %w", s.ID, err)
	}
	if len(s.Pauses) == 0 {
		s.Pauses = nil
	}
	if err := parseTimestamps(createdAtStr, updatedAtStr, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func encodePauses(p []domain.Pause) (string, error) {
	if len(p) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding pauses: %w", err)
	}
	return string(b), nil
}

// requireAffected turns a zero-row update or delete into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
