package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/shopfloor/internal/db"
	"github.com/alexanderramin/shopfloor/internal/domain"
)

// SQLiteMachineRepo implements MachineRepo using a SQLite database.
type SQLiteMachineRepo struct {
	db db.DBTX
}

// NewSQLiteMachineRepo creates a new SQLiteMachineRepo.
func NewSQLiteMachineRepo(conn db.DBTX) *SQLiteMachineRepo {
	return &SQLiteMachineRepo{db: conn}
}

func (r *SQLiteMachineRepo) Create(ctx context.Context, m *domain.Machine) error {
	query := `INSERT INTO machines (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.Name,
		m.CreatedAt.Format(time.RFC3339),
		m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting machine: %w", err)
	}
	return nil
}

func (r *SQLiteMachineRepo) GetByID(ctx context.Context, id string) (*domain.Machine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at, updated_at FROM machines WHERE id = ?`, id)
	return r.scanOne(row)
}

// GetByName matches case-insensitively.
func (r *SQLiteMachineRepo) GetByName(ctx context.Context, name string) (*domain.Machine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at, updated_at FROM machines WHERE LOWER(name) = LOWER(?)`, name)
	return r.scanOne(row)
}

func (r *SQLiteMachineRepo) List(ctx context.Context) ([]*domain.Machine, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM machines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing machines: %w", err)
	}
	defer rows.Close()

	var machines []*domain.Machine
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, err
		}
		machines = append(machines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating machines: %w", err)
	}
	return machines, nil
}

// Delete removes the machine together with its setup matrix and requests.
func (r *SQLiteMachineRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM machines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting machine: %w", err)
	}
	return requireAffected(res, "machine")
}

// SetProductSetup inserts or replaces one entry of the setup matrix.
func (r *SQLiteMachineRepo) SetProductSetup(ctx context.Context, mp domain.MachineProduct) error {
	query := `INSERT INTO machine_products (machine_id, item_id, setup_min) VALUES (?, ?, ?)
		ON CONFLICT(machine_id, item_id) DO UPDATE SET setup_min = excluded.setup_min`
	if _, err := r.db.ExecContext(ctx, query, mp.MachineID, mp.ItemID, mp.SetupTimeMin); err != nil {
		return fmt.Errorf("upserting machine product setup: %w", err)
	}
	return nil
}

func (r *SQLiteMachineRepo) ListProductSetups(ctx context.Context, machineID string) ([]domain.MachineProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT machine_id, item_id, setup_min FROM machine_products WHERE machine_id = ? ORDER BY item_id`, machineID)
	if err != nil {
		return nil, fmt.Errorf("listing machine product setups: %w", err)
	}
	defer rows.Close()
	return scanMachineProducts(rows)
}

func (r *SQLiteMachineRepo) ListAllProductSetups(ctx context.Context) ([]domain.MachineProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT machine_id, item_id, setup_min FROM machine_products ORDER BY machine_id, item_id`)
	if err != nil {
		return nil, fmt.Errorf("listing machine product setups: %w", err)
	}
	defer rows.Close()
	return scanMachineProducts(rows)
}

func (r *SQLiteMachineRepo) scanOne(row *sql.Row) (*domain.Machine, error) {
	m, err := scanMachine(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("machine: %w", ErrNotFound)
	}
	return m, err
}

func scanMachine(row rowScanner) (*domain.Machine, error) {
	var m domain.Machine
	var createdAtStr, updatedAtStr string
	if err := row.Scan(&m.ID, &m.Name, &createdAtStr, &updatedAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning machine: %w", err)
	}
	if err := parseTimestamps(createdAtStr, updatedAtStr, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMachineProducts(rows *sql.Rows) ([]domain.MachineProduct, error) {
	var out []domain.MachineProduct
	for rows.Next() {
		var mp domain.MachineProduct
		if err := rows.Scan(&mp.MachineID, &mp.ItemID, &mp.SetupTimeMin); err != nil {
			return nil, fmt.Errorf("scanning machine product setup: %w", err)
		}
		out = append(out, mp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating machine product setups: %w", err)
	}
	return out, nil
}
