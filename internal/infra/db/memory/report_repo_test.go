package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
)

func newReport(name string, at time.Time) *domain.Report {
	return &domain.Report{
		AggressorName: name,
		Institution:   "Universidad Nacional",
		Description:   "descripción del incidente",
		IncidentYear:  2023,
		LedgerStatus:  domain.LedgerLocalOnly,
		CreatedAt:     at,
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository()

	created, err := repo.Create(ctx, newReport("Juan Perez", time.Time{}))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.True(t, created.IsActive)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("Get() mismatch (-created +got):\n%s", diff)
	}
}

func TestCreateDoesNotAliasInput(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository()
	in := newReport("Ana", time.Time{})

	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, in.ID)

	created.AggressorName = "mutated"
	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.AggressorName)
}

func TestGetUnknown(t *testing.T) {
	_, err := NewReportRepository().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := repo.Create(ctx, newReport("first", base))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newReport("third", base.Add(2*time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newReport("second", base.Add(time.Hour)))
	require.NoError(t, err)
	// same instant as "third" but inserted later
	_, err = repo.Create(ctx, newReport("fourth", base.Add(2*time.Hour)))
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, r := range list {
		names = append(names, r.AggressorName)
	}
	assert.Equal(t, []string{"fourth", "third", "second", "first"}, names)
}

func TestListByAggressorIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository()
	for _, n := range []string{"Juan Perez", "JUAN PEREZ", "Juan Pérez", "Juan"} {
		_, err := repo.Create(ctx, newReport(n, time.Time{}))
		require.NoError(t, err)
	}

	list, err := repo.ListByAggressor(ctx, "juan perez")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, r := range list {
		assert.Contains(t, []string{"Juan Perez", "JUAN PEREZ"}, r.AggressorName)
	}

	none, err := repo.ListByAggressor(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestConcurrentCreatesGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository()

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	ids := make(chan domain.ReportID, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				r, err := repo.Create(ctx, newReport("A", time.Time{}))
				if err != nil {
					t.Error(err)
					return
				}
				ids <- r.ID
				if _, err := repo.List(ctx); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[domain.ReportID]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, workers*perWorker, repo.Len())
}
