package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/shopfloor/internal/db"
	"github.com/alexanderramin/shopfloor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	database, err := db.OpenDB(filepath.Join(dir, "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

func retryTx(fn func() error) error {
	const maxRetries = 10
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(time.Millisecond * time.Duration(1<<attempt))
	}
	return err
}

// TestConcurrentAccess_ReadDuringWrite verifies that request listings stay
// consistent while another goroutine keeps inserting.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	machines := NewSQLiteMachineRepo(database)
	requests := NewSQLiteRequestRepo(database)
	m := testutil.NewTestMachine("Press")
	require.NoError(t, machines.Create(ctx, m))

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			req := testutil.NewTestRequest(m.ID, fmt.Sprintf("item-%d", i))
			if err := retryTx(func() error { return requests.Create(ctx, req) }); err != nil {
				t.Errorf("writer: create request %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				list, err := requests.ListByMachine(ctx, m.ID)
				if err != nil {
					t.Errorf("reader %d: list requests: %v", reader, err)
					return
				}
				for _, req := range list {
					if req.ID == "" || req.ProductionTimePerUnit.IsZero() {
						t.Errorf("reader %d: got half-written request", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	list, err := requests.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

// TestConcurrentAccess_PlanSaves commits many plans in parallel and checks
// each one is stored whole.
func TestConcurrentAccess_PlanSaves(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	uow := db.NewSQLiteUnitOfWork(database)
	plans := NewSQLitePlanRepo(database)

	const workers = 16
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	ids := make([]string, workers)

	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		plan := newTestPlan(base.Add(time.Duration(i) * time.Millisecond))
		ids[i] = plan.ID
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := retryTx(func() error {
				return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
					return NewSQLitePlanRepo(tx).Save(ctx, plan)
				})
			})
			if err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	for _, id := range ids {
		p, err := plans.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Len(t, p.Blocks, 2)
		assert.Len(t, p.Skipped, 2)
	}

	latest, err := plans.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[workers-1], latest.ID)
}
