package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/shopfloor/internal/db"
	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLiteRequestRepo implements RequestRepo using a SQLite database.
type SQLiteRequestRepo struct {
	db db.DBTX
}

// NewSQLiteRequestRepo creates a new SQLiteRequestRepo.
func NewSQLiteRequestRepo(conn db.DBTX) *SQLiteRequestRepo {
	return &SQLiteRequestRepo{db: conn}
}

const requestColumns = `id, machine_id, item_id, item_name, item_type, quantity,
	production_time_per_unit, setup_min, min_batch, interval_batch,
	requested_start, created_at, updated_at`

func (r *SQLiteRequestRepo) Create(ctx context.Context, req *domain.ProductionRequest) error {
	query := `INSERT INTO production_requests (` + requestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.MachineID,
		req.ItemID,
		req.ItemName,
		string(req.ItemType),
		int64(req.Quantity),
		req.ProductionTimePerUnit.String(),
		req.SetupTimeMin,
		int64(req.MinBatch),
		int64(req.IntervalBatch),
		nullableTimeToString(req.RequestedStart, time.RFC3339),
		req.CreatedAt.Format(time.RFC3339),
		req.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting production request: %w", err)
	}
	return nil
}

func (r *SQLiteRequestRepo) GetByID(ctx context.Context, id string) (*domain.ProductionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM production_requests WHERE id = ?`
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("production request: %w", ErrNotFound)
	}
	return req, err
}

func (r *SQLiteRequestRepo) List(ctx context.Context) ([]*domain.ProductionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM production_requests ORDER BY created_at, rowid`
	return r.queryList(ctx, query)
}

func (r *SQLiteRequestRepo) ListByMachine(ctx context.Context, machineID string) ([]*domain.ProductionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM production_requests
		WHERE machine_id = ? ORDER BY created_at, rowid`
	return r.queryList(ctx, query, machineID)
}

func (r *SQLiteRequestRepo) Update(ctx context.Context, req *domain.ProductionRequest) error {
	query := `UPDATE production_requests SET
		machine_id = ?, item_id = ?, item_name = ?, item_type = ?, quantity = ?,
		production_time_per_unit = ?, setup_min = ?, min_batch = ?, interval_batch = ?,
		requested_start = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		req.MachineID,
		req.ItemID,
		req.ItemName,
		string(req.ItemType),
		int64(req.Quantity),
		req.ProductionTimePerUnit.String(),
		req.SetupTimeMin,
		int64(req.MinBatch),
		int64(req.IntervalBatch),
		nullableTimeToString(req.RequestedStart, time.RFC3339),
		req.UpdatedAt.Format(time.RFC3339),
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("updating production request: %w", err)
	}
	return requireAffected(res, "production request")
}

func (r *SQLiteRequestRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM production_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting production request: %w", err)
	}
	return requireAffected(res, "production request")
}

func (r *SQLiteRequestRepo) queryList(ctx context.Context, query string, args ...any) ([]*domain.ProductionRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing production requests: %w", err)
	}
	defer rows.Close()

	var out []*domain.ProductionRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating production requests: %w", err)
	}
	return out, nil
}

func scanRequest(row rowScanner) (*domain.ProductionRequest, error) {
	var req domain.ProductionRequest
	var itemType, rate, createdAtStr, updatedAtStr string
	var quantity, minBatch, intervalBatch int64
	var requestedStart sql.NullString

	err := row.Scan(
		&req.ID, &req.MachineID, &req.ItemID, &req.ItemName, &itemType, &quantity,
		&rate, &req.SetupTimeMin, &minBatch, &intervalBatch,
		&requestedStart, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning production request: %w", err)
	}

	req.ItemType = domain.ItemType(itemType)
	req.Quantity = domain.Quantity(quantity)
	req.MinBatch = domain.Quantity(minBatch)
	req.IntervalBatch = domain.Quantity(intervalBatch)
	if req.RequestedStart, err = parseNullableTime(requestedStart, time.RFC3339); err != nil {
		return nil, fmt.Errorf("parsing requested_start of request %s: %w", req.ID, err)
	}

	if req.ProductionTimePerUnit, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("parsing production time of request %s: %w", req.ID, err)
	}
	if err := parseTimestamps(createdAtStr, updatedAtStr, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	return &req, nil
}
