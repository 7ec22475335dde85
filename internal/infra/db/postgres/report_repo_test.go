package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
)

func setupRepo(t *testing.T) *ReportRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("loudao_test"),
		tcpostgres.WithUsername("test_user"),
		tcpostgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db))
	return NewReportRepository(db)
}

func TestReportRepository(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)

	first, err := repo.Create(ctx, &domain.Report{
		LedgerID:        1,
		AggressorName:   "Juan Perez",
		Institution:     "Universidad Nacional",
		Description:     "Hostigamiento reiterado",
		IncidentYear:    2023,
		ReporterAddress: "0xabc",
		TransactionHash: "0xdef",
		LedgerStatus:    domain.LedgerConfirmed,
		PrivateRef:      "private/x.bin",
		CreatedAt:       base,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.True(t, first.IsActive)

	second, err := repo.Create(ctx, &domain.Report{
		AggressorName: "JUAN PEREZ",
		Institution:   "Hospital Civil",
		Description:   "Acoso en guardia nocturna",
		IncidentYear:  2024,
		City:          "Guadalajara",
		LedgerStatus:  domain.LedgerLocalOnly,
		CreatedAt:     base.Add(time.Hour),
	})
	require.NoError(t, err)

	t.Run("get round trip", func(t *testing.T) {
		got, err := repo.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first, got)
		assert.Empty(t, got.City)
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := repo.Get(ctx, "3f1c0a52-8b8e-4a53-9d43-1c9a0b6f2e11")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
	})

	t.Run("by aggressor ignores case", func(t *testing.T) {
		list, err := repo.ListByAggressor(ctx, "juan perez")
		require.NoError(t, err)
		assert.Len(t, list, 2)

		none, err := repo.ListByAggressor(ctx, "nadie")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("whitespace city kept verbatim", func(t *testing.T) {
		in := *first
		in.City = "  "
		created, err := repo.Create(ctx, &in)
		require.NoError(t, err)
		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "  ", got.City)
		assert.Equal(t, created, got)
	})

	t.Run("created at never before call", func(t *testing.T) {
		before := time.Now()
		created, err := repo.Create(ctx, &domain.Report{
			AggressorName: "Ana",
			Institution:   "Clínica Sur",
			Description:   "Comentarios reiterados",
			IncidentYear:  2024,
			LedgerStatus:  domain.LedgerLocalOnly,
			CreatedAt:     before,
		})
		require.NoError(t, err)
		assert.False(t, created.CreatedAt.Before(before))
		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
	})
}
