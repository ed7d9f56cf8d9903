package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/alexanderramin/shopfloor/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMachine(t *testing.T, repo *SQLiteMachineRepo, name string) *domain.Machine {
	t.Helper()
	m := testutil.NewTestMachine(name)
	require.NoError(t, repo.Create(context.Background(), m))
	return m
}

func TestRequestRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	m := seedMachine(t, NewSQLiteMachineRepo(db), "Press")
	repo := NewSQLiteRequestRepo(db)
	ctx := context.Background()

	req := testutil.NewTestRequest(m.ID, "item-7",
		testutil.WithQuantity(250),
		testutil.WithRate("0.3333"),
		testutil.WithSetupMin(25),
		testutil.WithBatch(100, 50),
		testutil.WithItemName("Bracket"),
		testutil.WithItemType(domain.ItemSemiproduct),
	)
	require.NoError(t, repo.Create(ctx, req))

	fetched, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, fetched.MachineID)
	assert.Equal(t, "item-7", fetched.ItemID)
	assert.Equal(t, "Bracket", fetched.ItemName)
	assert.Equal(t, domain.ItemSemiproduct, fetched.ItemType)
	assert.Equal(t, domain.Quantity(250), fetched.Quantity)
	assert.True(t, decimal.RequireFromString("0.3333").Equal(fetched.ProductionTimePerUnit),
		"rate must round-trip exactly, got %s", fetched.ProductionTimePerUnit)
	assert.Equal(t, 25, fetched.SetupTimeMin)
	assert.Equal(t, domain.Quantity(100), fetched.MinBatch)
	assert.Equal(t, domain.Quantity(50), fetched.IntervalBatch)
	require.NotNil(t, fetched.RequestedStart)
	assert.True(t, testutil.DefaultStart.Equal(*fetched.RequestedStart))
}

func TestRequestRepo_NullRequestedStart(t *testing.T) {
	db := testutil.NewTestDB(t)
	m := seedMachine(t, NewSQLiteMachineRepo(db), "Press")
	repo := NewSQLiteRequestRepo(db)
	ctx := context.Background()

	req := testutil.NewTestRequest(m.ID, "A", testutil.WithoutRequestedStart())
	require.NoError(t, repo.Create(ctx, req))

	fetched, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.RequestedStart)
}

func TestRequestRepo_CorruptRequestedStartIsAnError(t *testing.T) {
	db := testutil.NewTestDB(t)
	m := seedMachine(t, NewSQLiteMachineRepo(db), "Press")
	repo := NewSQLiteRequestRepo(db)
	ctx := context.Background()

	req := testutil.NewTestRequest(m.ID, "A")
	require.NoError(t, repo.Create(ctx, req))
	_, err := db.Exec(`UPDATE production_requests SET requested_start = 'next tuesday' WHERE id = ?`, req.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, req.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requested_start")

	_, err = repo.List(ctx)
	assert.Error(t, err, "a corrupt start must not read back as a missing one")
}

func TestRequestRepo_RequestedStartKeepsOffset(t *testing.T) {
	db := testutil.NewTestDB(t)
	m := seedMachine(t, NewSQLiteMachineRepo(db), "Press")
	repo := NewSQLiteRequestRepo(db)
	ctx := context.Background()

	start := time.Date(2025, 6, 2, 8, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	req := testutil.NewTestRequest(m.ID, "A", testutil.WithRequestedStart(start))
	require.NoError(t, repo.Create(ctx, req))

	fetched, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.RequestedStart)
	assert.True(t, start.Equal(*fetched.RequestedStart))
	assert.Equal(t, 8, fetched.RequestedStart.Hour(), "wall clock in the original offset is preserved")
}

func TestRequestRepo_ListInCreationOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	machines := NewSQLiteMachineRepo(db)
	m1 := seedMachine(t, machines, "Press")
	m2 := seedMachine(t, machines, "Saw")
	repo := NewSQLiteRequestRepo(db)
	ctx := context.Background()

	// Same created_at second: insertion order breaks the tie.
	ids := make([]string, 0, 4)
	for i, machineID := range []string{m1.ID, m2.ID, m1.ID, m2.ID} {
		req := testutil.NewTestRequest(machineID, string(rune('A'+i)))
		require.NoError(t, repo.Create(ctx, req))
		ids = append(ids, req.ID)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := range ids {
		assert.Equal(t, ids[i], all[i].ID)
	}

	byMachine, err := repo.ListByMachine(ctx, m2.ID)
	require.NoError(t, err)
	require.Len(t, byMachine, 2)
	assert.Equal(t, ids[1], byMachine[0].ID)
	assert.Equal(t, ids[3], byMachine[1].ID)
}

func TestRequestRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	m := seedMachine(t, NewSQLiteMachineRepo(db), "Press")
	repo := NewSQLiteRequestRepo(db)
	ctx := context.Background()

	req := testutil.NewTestRequest(m.ID, "A")
	require.NoError(t, repo.Create(ctx, req))

	req.Quantity = 42
	req.ProductionTimePerUnit = decimal.RequireFromString("2.5")
	req.RequestedStart = nil
	require.NoError(t, repo.Update(ctx, req))

	fetched, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Quantity(42), fetched.Quantity)
	assert.Equal(t, "2.5", fetched.ProductionTimePerUnit.String())
	assert.Nil(t, fetched.RequestedStart)
}

func TestRequestRepo_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteRequestRepo(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, testutil.NewTestRequest("m", "A")), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "nonexistent"), ErrNotFound)
}

func TestRequestRepo_RejectsNegativeQuantity(t *testing.T) {
	db := testutil.NewTestDB(t)
	m := seedMachine(t, NewSQLiteMachineRepo(db), "Press")
	repo := NewSQLiteRequestRepo(db)

	err := repo.Create(context.Background(), testutil.NewTestRequest(m.ID, "A", testutil.WithQuantity(-1)))
	assert.Error(t, err)
}

func TestRequestRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	m := seedMachine(t, NewSQLiteMachineRepo(db), "Press")
	repo := NewSQLiteRequestRepo(db)
	ctx := context.Background()

	req := testutil.NewTestRequest(m.ID, "A")
	require.NoError(t, repo.Create(ctx, req))
	require.NoError(t, repo.Delete(ctx, req.ID))

	_, err := repo.GetByID(ctx, req.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
