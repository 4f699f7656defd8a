package instance_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/closing-timeline/internal/domain/activity"
	"github.com/rpggio/closing-timeline/internal/domain/contingency"
	"github.com/rpggio/closing-timeline/internal/domain/instance"
	"github.com/rpggio/closing-timeline/internal/repository"
	"github.com/rpggio/closing-timeline/internal/repository/mocks"
	"github.com/rpggio/closing-timeline/internal/schedule"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 15, 30, 0, 0, time.UTC)
	}
}

func newService(repo *mocks.InstanceRepository, acts *mocks.ActivityRepository, now func() time.Time) *instance.Service {
	var activities instance.ActivityRepository
	if acts != nil {
		activities = acts
	}
	return instance.NewService(repo, activities, instance.Settings{Now: now}, nil)
}

func stored(list ...contingency.Contingency) *instance.Instance {
	for i := range list {
		list[i].Order = i
		if list[i].Status == "" {
			list[i].Status = contingency.StatusNotStarted
		}
	}
	return &instance.Instance{
		ID:            "tl1",
		Name:          "Maple St",
		MutualDate:    "2025-01-01",
		ClosingDate:   "2025-01-31",
		Contingencies: list,
		CreatedAt:     time.Date(2024, time.December, 30, 9, 0, 0, 0, time.UTC),
		ModifiedAt:    time.Date(2024, time.December, 30, 9, 0, 0, 0, time.UTC),
	}
}

func inspection(id string) contingency.Contingency {
	return contingency.Contingency{
		ID:   id,
		Name: "Inspection " + id,
		Type: contingency.TypeDaysFromMutual,
		Days: contingency.IntPtr(10),
	}
}

func TestCreate_Defaults(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	acts := &mocks.ActivityRepository{}

	// Friday Jan 3, 2025 + 30 days is Sunday Feb 2.
	svc := newService(repo, acts, fixedClock(2025, time.January, 3))
	repo.On("Count", ctx).Return(2, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)

	var logged *activity.ActivityEntry
	acts.On("Log", ctx, mock.Anything).Run(func(args mock.Arguments) {
		logged = args.Get(1).(*activity.ActivityEntry)
	}).Return(nil)

	inst, err := svc.Create(ctx, instance.CreateRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, inst.ID)
	require.Equal(t, "Timeline 3", inst.Name)
	require.Equal(t, "2025-01-03", inst.MutualDate)
	require.Equal(t, "2025-02-03", inst.ClosingDate)
	require.Len(t, inst.Contingencies, 5)
	require.False(t, inst.Archived)

	require.NotNil(t, logged)
	require.Equal(t, activity.TypeTimelineCreated, logged.ActivityType)
	require.Equal(t, inst.ID, logged.TimelineID)
	var details map[string]string
	require.NoError(t, json.Unmarshal([]byte(logged.Details), &details))
	require.Contains(t, details["closing_adjustment"], "weekend")
	repo.AssertExpectations(t)
}

func TestCreate_DefaultClosingSkipsHolidays(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	// Oct 28, 2025 + 30 days is Thanksgiving; the next business day is Monday Dec 1.
	svc := newService(repo, nil, fixedClock(2025, time.October, 28))
	inst, err := svc.Create(ctx, instance.CreateRequest{Name: "Oak Ave", Contingencies: []contingency.Contingency{}})
	require.NoError(t, err)
	require.Equal(t, "2025-10-28", inst.MutualDate)
	require.Equal(t, "2025-12-01", inst.ClosingDate)
	require.NotNil(t, inst.Contingencies)
	require.Empty(t, inst.Contingencies)
	repo.AssertNotCalled(t, "Count", mock.Anything)
}

func TestCreate_ClosingOffsetSetting(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := instance.NewService(repo, nil, instance.Settings{ClosingOffsetDays: 45}, nil)
	inst, err := svc.Create(ctx, instance.CreateRequest{Name: "x", MutualDate: "2025-03-03"})
	require.NoError(t, err)
	require.Equal(t, "2025-04-17", inst.ClosingDate)
}

func TestCreate_ExplicitFields(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)
	svc := newService(repo, nil, fixedClock(2025, time.January, 3))

	list := []contingency.Contingency{
		{Name: "Appraisal", Type: contingency.TypeDaysFromMutual, Days: contingency.IntPtr(14), Order: 2},
		{Name: "Walkthrough", Type: contingency.TypeFixedDate, FixedDate: "2025-03-30", Order: 1},
	}
	inst, err := svc.Create(ctx, instance.CreateRequest{
		Name:          "  Elm Ct ",
		MutualDate:    "2025-03-01",
		ClosingDate:   "2025-03-31",
		Contingencies: list,
	})
	require.NoError(t, err)
	require.Equal(t, "Elm Ct", inst.Name)
	require.Equal(t, "2025-03-31", inst.ClosingDate)
	require.Equal(t, "Walkthrough", inst.Contingencies[0].Name)
	require.Equal(t, 0, inst.Contingencies[0].Order)
	require.Equal(t, 1, inst.Contingencies[1].Order)
	require.NotEmpty(t, inst.Contingencies[1].ID)
	require.Equal(t, contingency.StatusNotStarted, inst.Contingencies[1].Status)
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	svc := newService(repo, nil, fixedClock(2025, time.January, 3))

	_, err := svc.Create(ctx, instance.CreateRequest{Name: "x", MutualDate: "01/02/2025"})
	require.ErrorIs(t, err, instance.ErrInvalidInput)

	_, err = svc.Create(ctx, instance.CreateRequest{Name: "x", ClosingDate: "never"})
	require.ErrorIs(t, err, instance.ErrInvalidInput)

	_, err = svc.Create(ctx, instance.CreateRequest{
		Name:          "x",
		Contingencies: []contingency.Contingency{{Name: "no days", Type: contingency.TypeDaysFromMutual}},
	})
	require.ErrorIs(t, err, instance.ErrInvalidInput)
	require.ErrorIs(t, err, contingency.ErrInvalidInput)

	_, err = svc.Create(ctx, instance.CreateRequest{
		Name:          "x",
		Contingencies: []contingency.Contingency{inspection("dup"), inspection("dup")},
	})
	require.ErrorIs(t, err, contingency.ErrDuplicateID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	repo.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)
	svc := newService(repo, nil, nil)

	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, instance.ErrInstanceNotFound)

	_, err = svc.Get(ctx, " ")
	require.ErrorIs(t, err, instance.ErrInvalidInput)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	archived := true
	repo.On("List", ctx, instance.ListOptions{Archived: &archived}).Return(nil, nil)
	svc := newService(repo, nil, nil)

	list, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestSave_ReplacesState(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	acts := &mocks.ActivityRepository{}
	current := stored(inspection("a"), inspection("b"))
	current.Archived = true
	createdAt := current.CreatedAt

	repo.On("Get", ctx, "tl1").Return(current, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)
	acts.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeTimelineSaved
	})).Return(nil)

	svc := newService(repo, acts, fixedClock(2025, time.January, 10))
	inst, err := svc.Save(ctx, instance.SaveRequest{
		ID:            "tl1",
		Name:          "Maple St (revised)",
		MutualDate:    "2025-01-02",
		ClosingDate:   "2025-02-14",
		Contingencies: []contingency.Contingency{inspection("c")},
	})
	require.NoError(t, err)
	require.Equal(t, "Maple St (revised)", inst.Name)
	require.Equal(t, "2025-02-14", inst.ClosingDate)
	require.Len(t, inst.Contingencies, 1)
	require.Equal(t, "c", inst.Contingencies[0].ID)
	require.True(t, inst.Archived)
	require.Equal(t, createdAt, inst.CreatedAt)
	require.Equal(t, 10, inst.ModifiedAt.Day())
	acts.AssertExpectations(t)
}

func TestSave_Validation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	svc := newService(repo, nil, nil)

	cases := map[string]instance.SaveRequest{
		"empty name":   {ID: "tl1", MutualDate: "2025-01-01", ClosingDate: "2025-01-31"},
		"bad mutual":   {ID: "tl1", Name: "x", MutualDate: "", ClosingDate: "2025-01-31"},
		"bad closing":  {ID: "tl1", Name: "x", MutualDate: "2025-01-01", ClosingDate: "2025-02-30"},
		"bad contents": {ID: "tl1", Name: "x", MutualDate: "2025-01-01", ClosingDate: "2025-01-31", Contingencies: []contingency.Contingency{{Name: "x", Type: "weekly"}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Save(ctx, req)
			require.ErrorIs(t, err, instance.ErrInvalidInput)
		})
	}
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSave_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	repo.On("Get", ctx, "gone").Return(nil, repository.ErrNotFound)
	svc := newService(repo, nil, nil)

	_, err := svc.Save(ctx, instance.SaveRequest{ID: "gone", Name: "x", MutualDate: "2025-01-01", ClosingDate: "2025-01-31"})
	require.ErrorIs(t, err, instance.ErrInstanceNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	acts := &mocks.ActivityRepository{}
	repo.On("Delete", ctx, "tl1").Return(nil)
	repo.On("Delete", ctx, "gone").Return(repository.ErrNotFound)
	acts.On("Log", ctx, mock.Anything).Return(nil)
	svc := newService(repo, acts, nil)

	require.NoError(t, svc.Delete(ctx, "tl1"))
	require.ErrorIs(t, svc.Delete(ctx, "gone"), instance.ErrInstanceNotFound)
	acts.AssertNumberOfCalls(t, "Log", 1)
}

func TestToggleArchive(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	acts := &mocks.ActivityRepository{}
	repo.On("Get", ctx, "tl1").Return(stored(), nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	var types []activity.ActivityType
	acts.On("Log", ctx, mock.Anything).Run(func(args mock.Arguments) {
		types = append(types, args.Get(1).(*activity.ActivityEntry).ActivityType)
	}).Return(nil)

	svc := newService(repo, acts, nil)
	inst, err := svc.ToggleArchive(ctx, "tl1")
	require.NoError(t, err)
	require.True(t, inst.Archived)
	require.Equal(t, []activity.ActivityType{activity.TypeTimelineArchived}, types)
}

func TestContingencyEdits(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	repo.On("Get", ctx, "tl1").Return(stored(inspection("a"), inspection("b")), nil).Once()
	repo.On("Update", ctx, mock.Anything).Return(nil)
	svc := newService(repo, nil, fixedClock(2025, time.January, 15))

	inst, added, err := svc.AddContingency(ctx, "tl1", contingency.Contingency{
		Name: "Appraisal", Type: contingency.TypeDaysFromMutual, Days: contingency.IntPtr(14),
	})
	require.NoError(t, err)
	require.Len(t, inst.Contingencies, 3)
	require.Equal(t, 2, added.Order)
	require.NotEmpty(t, added.ID)

	repo.On("Get", ctx, "tl1").Return(stored(inspection("a"), inspection("b")), nil).Once()
	inst, err = svc.SetStatus(ctx, "tl1", "b", contingency.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, contingency.StatusCompleted, inst.Contingencies[1].Status)
	require.Equal(t, "2025-01-15", inst.Contingencies[1].CompletedDate)

	repo.On("Get", ctx, "tl1").Return(stored(inspection("a"), inspection("b")), nil).Once()
	edit := inspection("a")
	edit.Days = contingency.IntPtr(12)
	inst, err = svc.UpdateContingency(ctx, "tl1", edit)
	require.NoError(t, err)
	require.Equal(t, 12, *inst.Contingencies[0].Days)

	repo.On("Get", ctx, "tl1").Return(stored(inspection("a"), inspection("b")), nil).Once()
	inst, err = svc.Reorder(ctx, "tl1", 1, 0)
	require.NoError(t, err)
	require.Equal(t, "b", inst.Contingencies[0].ID)
	require.Equal(t, 0, inst.Contingencies[0].Order)

	repo.On("Get", ctx, "tl1").Return(stored(inspection("a"), inspection("b")), nil).Once()
	inst, err = svc.RemoveContingency(ctx, "tl1", "a")
	require.NoError(t, err)
	require.Len(t, inst.Contingencies, 1)
	require.Equal(t, 0, inst.Contingencies[0].Order)
}

func TestContingencyEdits_Errors(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	repo.On("Get", ctx, "tl1").Return(stored(inspection("a")), nil)
	svc := newService(repo, nil, nil)

	_, err := svc.RemoveContingency(ctx, "tl1", "zzz")
	require.ErrorIs(t, err, instance.ErrContingencyNotFound)

	_, err = svc.UpdateContingency(ctx, "tl1", inspection("zzz"))
	require.ErrorIs(t, err, instance.ErrContingencyNotFound)

	_, err = svc.SetStatus(ctx, "tl1", "a", "late")
	require.ErrorIs(t, err, instance.ErrInvalidInput)

	_, err = svc.Reorder(ctx, "tl1", 0, 5)
	require.ErrorIs(t, err, instance.ErrInvalidInput)

	_, _, err = svc.AddContingency(ctx, "tl1", inspection("a"))
	require.ErrorIs(t, err, contingency.ErrDuplicateID)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	boom := errors.New("disk full")
	repo.On("Get", ctx, "tl1").Return(stored(), nil)
	repo.On("Update", ctx, mock.Anything).Return(boom)
	svc := newService(repo, nil, nil)

	_, err := svc.ToggleArchive(ctx, "tl1")
	require.ErrorIs(t, err, boom)
}

func TestActivityFailureDoesNotFailEdit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	acts := &mocks.ActivityRepository{}
	repo.On("Get", ctx, "tl1").Return(stored(), nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)
	acts.On("Log", ctx, mock.Anything).Return(errors.New("log table locked"))

	_, err := newService(repo, acts, nil).ToggleArchive(ctx, "tl1")
	require.NoError(t, err)
}

func TestTimeline(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.InstanceRepository{}
	repo.On("Get", ctx, "tl1").Return(stored(inspection("a")), nil)
	svc := newService(repo, nil, nil)

	inst, items, err := svc.Timeline(ctx, "tl1")
	require.NoError(t, err)
	require.Equal(t, "tl1", inst.ID)
	require.Len(t, items, 3)
	require.Equal(t, schedule.MethodMutual, items[0].Name)
	require.Equal(t, "a", items[1].ContingencyID)
	require.Equal(t, schedule.MethodClosing, items[2].Name)
}
