package mocks

import (
	"context"

	"github.com/rpggio/closing-timeline/internal/domain/activity"
	"github.com/rpggio/closing-timeline/internal/domain/instance"
	"github.com/stretchr/testify/mock"
)

// InstanceRepository is a mock for instance.Repository.
type InstanceRepository struct {
	mock.Mock
}

func (m *InstanceRepository) Create(ctx context.Context, inst *instance.Instance) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}

func (m *InstanceRepository) Get(ctx context.Context, id string) (*instance.Instance, error) {
	args := m.Called(ctx, id)
	if inst, ok := args.Get(0).(*instance.Instance); ok {
		return inst, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InstanceRepository) Update(ctx context.Context, inst *instance.Instance) error {
	args := m.Called(ctx, inst)
	return args.Error(0)
}

func (m *InstanceRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *InstanceRepository) List(ctx context.Context, opts instance.ListOptions) ([]instance.Summary, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]instance.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *InstanceRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ instance.Repository         = (*InstanceRepository)(nil)
	_ instance.ActivityRepository = (*ActivityRepository)(nil)
	_ activity.Repository         = (*ActivityRepository)(nil)
)
