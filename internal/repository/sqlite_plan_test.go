package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/shopfloor/internal/db"
	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/alexanderramin/shopfloor/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlan(createdAt time.Time) *domain.Plan {
	start := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	return &domain.Plan{
		ID:             uuid.New().String(),
		FallbackPolicy: "first",
		GapPolicy:      "absorb",
		CreatedAt:      createdAt,
		Blocks: []domain.ScheduledBlock{
			{
				Kind: domain.BlockTask, ID: "r1", RequestID: "r1", MachineID: "m1",
				ItemID: "A", ItemName: "Bracket", Quantity: 100,
				Start: start, End: start.Add(100 * time.Minute),
			},
			{
				Kind: domain.BlockSetup, ID: domain.SetupBlockID("r2"), RequestID: "r2", MachineID: "m1",
				FromItemID: "A", ToItemID: "B",
				Start: start.Add(100 * time.Minute), End: start.Add(130*time.Minute + 30*time.Second),
			},
		},
		Skipped: []domain.SkippedRequest{
			{RequestID: "r3", MachineID: "m1", Reason: domain.SkipMissingStart},
			{RequestID: "r4", MachineID: "m2", Reason: domain.SkipNoShifts, Err: errors.New("no shifts configured: calendar empty")},
		},
	}
}

func TestPlanRepo_SaveAndGetByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	plan := newTestPlan(time.Now().UTC())
	require.NoError(t, repo.Save(ctx, plan))

	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", fetched.FallbackPolicy)
	assert.Equal(t, "absorb", fetched.GapPolicy)
	assert.True(t, plan.CreatedAt.Equal(fetched.CreatedAt))

	require.Len(t, fetched.Blocks, 2)
	task, setup := fetched.Blocks[0], fetched.Blocks[1]
	assert.Equal(t, domain.BlockTask, task.Kind)
	assert.Equal(t, "Bracket", task.ItemName)
	assert.Equal(t, domain.Quantity(100), task.Quantity)
	assert.True(t, plan.Blocks[0].End.Equal(task.End))
	assert.True(t, setup.IsSetup())
	assert.Equal(t, "setup-r2", setup.ID)
	assert.Equal(t, "A", setup.FromItemID)
	assert.Equal(t, "B", setup.ToItemID)
	assert.Equal(t, 30*time.Minute+30*time.Second, setup.Duration(), "sub-minute precision survives")

	require.Len(t, fetched.Skipped, 2)
	assert.Equal(t, domain.SkipMissingStart, fetched.Skipped[0].Reason)
	assert.NoError(t, fetched.Skipped[0].Err)
	assert.Equal(t, "missing_start", fetched.Skipped[0].Message())
	assert.Equal(t, "no shifts configured: calendar empty", fetched.Skipped[1].Message())
}

func TestPlanRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_Latest(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound, "no plan committed yet")

	base := time.Date(2025, 6, 2, 12, 0, 5, 0, time.UTC)
	older := newTestPlan(base)
	newer := newTestPlan(base.Add(100 * time.Millisecond))
	require.NoError(t, repo.Save(ctx, newer))
	require.NoError(t, repo.Save(ctx, older))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID, "ordering follows creation time, not insertion")
}

func TestPlanRepo_EmptyPlan(t *testing.T) {
	repo := NewSQLitePlanRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	plan := &domain.Plan{ID: uuid.New().String(), FallbackPolicy: "next", GapPolicy: "pause", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Save(ctx, plan))

	fetched, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Blocks)
	assert.Empty(t, fetched.Skipped)
}

func TestPlanRepo_SaveRollsBackWithinTx(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	plan := newTestPlan(time.Now().UTC())
	// The CHECK on kind fails the second block insert.
	plan.Blocks[1].Kind = "changeover"

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLitePlanRepo(tx).Save(ctx, plan)
	})
	require.Error(t, err)

	_, err = repo.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrNotFound, "a failed save leaves no partial plan")
}
