package instance

import (
	"context"

	"github.com/rpggio/closing-timeline/internal/domain/activity"
)

// Repository provides persistence for saved timelines. Update replaces the
// stored contingency list wholesale.
type Repository interface {
	Create(ctx context.Context, inst *Instance) error
	Get(ctx context.Context, id string) (*Instance, error)
	Update(ctx context.Context, inst *Instance) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Summary, error)
	Count(ctx context.Context) (int, error)
}

// ActivityRepository logs timeline changes.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
