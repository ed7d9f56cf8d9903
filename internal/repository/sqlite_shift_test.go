package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/alexanderramin/shopfloor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteShiftRepo(db)
	ctx := context.Background()

	s := testutil.NewTestShift("Early", "06:00", "14:00",
		testutil.WithPause("10:00", "10:30"),
		testutil.WithShiftColor("#4FC3F7"),
	)
	require.NoError(t, repo.Create(ctx, s))

	fetched, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Early", fetched.Name)
	assert.Equal(t, "06:00", fetched.Start.String())
	assert.Equal(t, "14:00", fetched.End.String())
	assert.True(t, fetched.Working)
	assert.Equal(t, "#4FC3F7", fetched.Color)
	require.Len(t, fetched.Pauses, 1)
	assert.Equal(t, domain.MustParseTimeOfDay("10:00"), fetched.Pauses[0].Start)
	assert.Equal(t, domain.MustParseTimeOfDay("10:30"), fetched.Pauses[0].End)
}

func TestShiftRepo_RoundTripsEndOfDayAndNonWorking(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteShiftRepo(db)
	ctx := context.Background()

	s := testutil.NewTestShift("Maintenance", "18:00", "24:00", testutil.WithNonWorking())
	require.NoError(t, repo.Create(ctx, s))

	fetched, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TimeOfDay(domain.MinutesPerDay), fetched.End)
	assert.False(t, fetched.Working)
	assert.Nil(t, fetched.Pauses)
}

func TestShiftRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteShiftRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShiftRepo_ListKeepsInsertionOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteShiftRepo(db)
	ctx := context.Background()

	names := []string{"Night", "Early", "Late"}
	for _, n := range names {
		require.NoError(t, repo.Create(ctx, testutil.NewTestShift(n, "06:00", "14:00")))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, n := range names {
		assert.Equal(t, n, list[i].Name, "resolution order must follow insertion, not name")
	}
}

func TestShiftRepo_UpdateKeepsPosition(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteShiftRepo(db)
	ctx := context.Background()

	first := testutil.NewTestShift("First", "06:00", "14:00")
	second := testutil.NewTestShift("Second", "14:00", "22:00")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	first.Name = "Morning"
	first.End = domain.MustParseTimeOfDay("13:00")
	first.Pauses = []domain.Pause{{Start: domain.MustParseTimeOfDay("09:00"), End: domain.MustParseTimeOfDay("09:15")}}
	first.UpdatedAt = time.Now().UTC().Add(time.Minute)
	require.NoError(t, repo.Update(ctx, first))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Morning", list[0].Name)
	assert.Equal(t, "13:00", list[0].End.String())
	assert.Len(t, list[0].Pauses, 1)
	assert.Equal(t, "Second", list[1].Name)
}

func TestShiftRepo_UpdateAndDelete_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteShiftRepo(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, testutil.NewTestShift("Ghost", "06:00", "14:00")), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "nonexistent"), ErrNotFound)
}

func TestShiftRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteShiftRepo(db)
	ctx := context.Background()

	s := testutil.NewTestShift("Early", "06:00", "14:00")
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestShiftRepo_CheckRejectsOutOfRangeStart(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteShiftRepo(db)

	s := testutil.NewTestShift("Bad", "06:00", "14:00")
	s.Start = domain.MinutesPerDay
	assert.Error(t, repo.Create(context.Background(), s))
}
