package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/closing-timeline/internal/domain/contingency"
	"github.com/rpggio/closing-timeline/internal/domain/instance"
	"github.com/rpggio/closing-timeline/internal/repository"
	"github.com/stretchr/testify/require"
)

func newInstance(id string, modified time.Time, list ...contingency.Contingency) *instance.Instance {
	return &instance.Instance{
		ID:            id,
		Name:          "Timeline " + id,
		MutualDate:    "2025-01-01",
		ClosingDate:   "2025-01-31",
		Contingencies: list,
		CreatedAt:     modified,
		ModifiedAt:    modified,
	}
}

func testContingencies() []contingency.Contingency {
	return []contingency.Contingency{
		{
			ID:          "c1",
			Name:        "Inspection",
			Description: "Inspect the property",
			Type:        contingency.TypeDaysFromMutual,
			Days:        contingency.IntPtr(10),
			Status:      contingency.StatusNotStarted,
			Order:       0,
		},
		{
			ID:               "c2",
			Name:             "Possession",
			Type:             contingency.TypeFixedDate,
			FixedDate:        "2025-02-01",
			IsPossessionDate: true,
			Status:           contingency.StatusCompleted,
			CompletedDate:    "2025-01-20",
			Order:            1,
		},
		{
			ID:        "c3",
			Name:      "Rent back",
			Type:      contingency.TypeFixedPeriod,
			StartDate: "2025-02-01",
			EndDate:   "2025-02-10",
			Status:    contingency.StatusScheduled,
			Order:     2,
		},
	}
}

func TestInstanceRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewInstanceRepository(db)

	now := time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)
	inst := newInstance("tl1", now, testContingencies()...)
	require.NoError(t, repo.Create(ctx, inst))

	loaded, err := repo.Get(ctx, "tl1")
	require.NoError(t, err)
	require.Equal(t, inst.Name, loaded.Name)
	require.Equal(t, "2025-01-01", loaded.MutualDate)
	require.Equal(t, "2025-01-31", loaded.ClosingDate)
	require.False(t, loaded.Archived)
	require.True(t, now.Equal(loaded.CreatedAt))
	require.Equal(t, testContingencies(), loaded.Contingencies)

	require.ErrorIs(t, repo.Create(ctx, inst), repository.ErrConflict)
}

func TestInstanceRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	_, err := NewInstanceRepository(db).Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestInstanceRepository_EmptyContingencies(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewInstanceRepository(db)

	require.NoError(t, repo.Create(ctx, newInstance("tl1", time.Now())))
	loaded, err := repo.Get(ctx, "tl1")
	require.NoError(t, err)
	require.NotNil(t, loaded.Contingencies)
	require.Empty(t, loaded.Contingencies)
}

func TestInstanceRepository_UpdateReplacesContingencies(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewInstanceRepository(db)

	inst := newInstance("tl1", time.Now(), testContingencies()...)
	require.NoError(t, repo.Create(ctx, inst))

	inst.Name = "Renamed"
	inst.Archived = true
	inst.ClosingDate = "2025-02-14"
	inst.Contingencies = []contingency.Contingency{{
		ID:     "c9",
		Name:   "Funds due",
		Type:   contingency.TypeDaysBeforeClosing,
		Days:   contingency.IntPtr(1),
		Status: contingency.StatusPending,
	}}
	require.NoError(t, repo.Update(ctx, inst))

	loaded, err := repo.Get(ctx, "tl1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", loaded.Name)
	require.True(t, loaded.Archived)
	require.Equal(t, "2025-02-14", loaded.ClosingDate)
	require.Len(t, loaded.Contingencies, 1)
	require.Equal(t, "c9", loaded.Contingencies[0].ID)
	require.Equal(t, 1, *loaded.Contingencies[0].Days)

	missing := newInstance("nope", time.Now())
	require.ErrorIs(t, repo.Update(ctx, missing), repository.ErrNotFound)
}

func TestInstanceRepository_UpdateRollsBackOnDuplicate(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewInstanceRepository(db)

	inst := newInstance("tl1", time.Now(), testContingencies()...)
	require.NoError(t, repo.Create(ctx, inst))

	dup := testContingencies()[0]
	inst.Name = "Should not stick"
	inst.Contingencies = []contingency.Contingency{dup, dup}
	require.ErrorIs(t, repo.Update(ctx, inst), repository.ErrConflict)

	loaded, err := repo.Get(ctx, "tl1")
	require.NoError(t, err)
	require.Equal(t, "Timeline tl1", loaded.Name)
	require.Len(t, loaded.Contingencies, 3)
}

func TestInstanceRepository_DeleteCascades(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewInstanceRepository(db)

	require.NoError(t, repo.Create(ctx, newInstance("tl1", time.Now(), testContingencies()...)))
	require.NoError(t, repo.Delete(ctx, "tl1"))
	require.ErrorIs(t, repo.Delete(ctx, "tl1"), repository.ErrNotFound)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contingencies`).Scan(&count))
	require.Equal(t, 0, count)
}

func TestInstanceRepository_ListAndCount(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewInstanceRepository(db)

	base := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newInstance("old", base, testContingencies()...)))
	require.NoError(t, repo.Create(ctx, newInstance("new", base.Add(time.Hour))))
	archived := newInstance("arch", base.Add(2*time.Hour))
	archived.Archived = true
	require.NoError(t, repo.Create(ctx, archived))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	active := false
	list, err := repo.List(ctx, instance.ListOptions{Archived: &active})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "new", list[0].ID)
	require.Equal(t, "old", list[1].ID)
	require.Equal(t, 3, list[1].ContingencyCount)
	require.Equal(t, 1, list[1].CompletedCount)
	require.Equal(t, 0, list[0].ContingencyCount)

	onlyArchived := true
	list, err = repo.List(ctx, instance.ListOptions{Archived: &onlyArchived})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Archived)

	list, err = repo.List(ctx, instance.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "new", list[0].ID)
}
