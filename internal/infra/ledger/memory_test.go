package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/ledger"
)

func TestMemoryAppendAssignsSequentialIDs(t *testing.T) {
	m := NewMemory("0xserver")
	ctx := context.Background()

	r1, err := m.Append(ctx, domain.Entry{AggressorName: "Juan"})
	require.NoError(t, err)
	r2, err := m.Append(ctx, domain.Entry{AggressorName: "Ana", ReporterAddress: "0xwallet"})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), r1.LedgerID)
	assert.Equal(t, uint64(2), r2.LedgerID)
	assert.Equal(t, "0xserver", r1.ReporterAddress)
	assert.Equal(t, "0xwallet", r2.ReporterAddress)
	assert.Len(t, r1.TransactionHash, 66)
	assert.NotEqual(t, r1.TransactionHash, r2.TransactionHash)
}

func TestMemoryCountersAndStats(t *testing.T) {
	m := NewMemory("")
	ctx := context.Background()
	for _, name := range []string{"Juan Perez", "JUAN PEREZ", "juan perez", "Ana", "Luis", "luis"} {
		_, err := m.Append(ctx, domain.Entry{AggressorName: name})
		require.NoError(t, err)
	}

	n, err := m.CountForAggressor(ctx, "Juan PEREZ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{TotalReports: 6, UniqueAggressors: 3, PatternsDetected: 2}, stats)
}

func TestMemoryConcurrentAppend(t *testing.T) {
	m := NewMemory("")
	var wg sync.WaitGroup
	ids := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := m.Append(context.Background(), domain.Entry{AggressorName: "x"})
			if err == nil {
				ids <- r.LedgerID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[uint64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate ledger id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}
