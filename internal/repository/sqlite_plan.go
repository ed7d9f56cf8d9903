package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/shopfloor/internal/db"
	"github.com/alexanderramin/shopfloor/internal/domain"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

// Block times keep sub-second precision. Plan creation times use a fixed
// width so that ORDER BY created_at sorts chronologically.
const (
	planTimeLayout    = time.RFC3339Nano
	planCreatedLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

func (r *SQLitePlanRepo) Save(ctx context.Context, p *domain.Plan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO plans (id, fallback_policy, gap_policy, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.FallbackPolicy, p.GapPolicy, p.CreatedAt.UTC().Format(planCreatedLayout))
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	blockQuery := `INSERT INTO plan_blocks
		(plan_id, seq, kind, block_id, request_id, machine_id, item_id, item_name,
		 from_item_id, to_item_id, quantity, start_at, end_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range p.Blocks {
		b := &p.Blocks[i]
		_, err := r.db.ExecContext(ctx, blockQuery,
			p.ID, i, string(b.Kind), b.ID, b.RequestID, b.MachineID, b.ItemID, b.ItemName,
			b.FromItemID, b.ToItemID, int64(b.Quantity),
			b.Start.Format(planTimeLayout), b.End.Format(planTimeLayout))
		if err != nil {
			return fmt.Errorf("inserting plan block %s: %w", b.ID, err)
		}
	}

	skipQuery := `INSERT INTO plan_skips (plan_id, seq, request_id, machine_id, reason, message)
		VALUES (?, ?, ?, ?, ?, ?)`
	for i := range p.Skipped {
		s := &p.Skipped[i]
		_, err := r.db.ExecContext(ctx, skipQuery,
			p.ID, i, s.RequestID, s.MachineID, string(s.Reason), s.Message())
		if err != nil {
			return fmt.Errorf("inserting plan skip %s: %w", s.RequestID, err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, fallback_policy, gap_policy, created_at FROM plans WHERE id = ?`, id)
	return r.load(ctx, row)
}

// Latest returns the most recently saved plan.
func (r *SQLitePlanRepo) Latest(ctx context.Context) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, fallback_policy, gap_policy, created_at FROM plans ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	return r.load(ctx, row)
}

func (r *SQLitePlanRepo) load(ctx context.Context, row *sql.Row) (*domain.Plan, error) {
	var p domain.Plan
	var createdAtStr string
	if err := row.Scan(&p.ID, &p.FallbackPolicy, &p.GapPolicy, &createdAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}
	var err error
	if p.CreatedAt, err = time.Parse(planCreatedLayout, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing plan created_at: %w", err)
	}
	if p.Blocks, err = r.loadBlocks(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Skipped, err = r.loadSkips(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLitePlanRepo) loadBlocks(ctx context.Context, planID string) ([]domain.ScheduledBlock, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, block_id, request_id, machine_id, item_id, item_name,
		from_item_id, to_item_id, quantity, start_at, end_at
		FROM plan_blocks WHERE plan_id = ? ORDER BY seq`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing plan blocks: %w", err)
	}
	defer rows.Close()

	var blocks []domain.ScheduledBlock
	for rows.Next() {
		var b domain.ScheduledBlock
		var kind, startStr, endStr string
		var qty int64
		if err := rows.Scan(&kind, &b.ID, &b.RequestID, &b.MachineID, &b.ItemID, &b.ItemName,
			&b.FromItemID, &b.ToItemID, &qty, &startStr, &endStr); err != nil {
			return nil, fmt.Errorf("scanning plan block: %w", err)
		}
		b.Kind = domain.BlockKind(kind)
		b.Quantity = domain.Quantity(qty)
		if b.Start, err = time.Parse(planTimeLayout, startStr); err != nil {
			return nil, fmt.Errorf("parsing block start: %w", err)
		}
		if b.End, err = time.Parse(planTimeLayout, endStr); err != nil {
			return nil, fmt.Errorf("parsing block end: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan blocks: %w", err)
	}
	return blocks, nil
}

func (r *SQLitePlanRepo) loadSkips(ctx context.Context, planID string) ([]domain.SkippedRequest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT request_id, machine_id, reason, message
		FROM plan_skips WHERE plan_id = ? ORDER BY seq`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing plan skips: %w", err)
	}
	defer rows.Close()

	var skips []domain.SkippedRequest
	for rows.Next() {
		var s domain.SkippedRequest
		var reason, message string
		if err := rows.Scan(&s.RequestID, &s.MachineID, &reason, &message); err != nil {
			return nil, fmt.Errorf("scanning plan skip: %w", err)
		}
		s.Reason = domain.SkipReason(reason)
		if message != "" && message != reason {
			s.Err = errors.New(message)
		}
		skips = append(skips, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan skips: %w", err)
	}
	return skips, nil
}
