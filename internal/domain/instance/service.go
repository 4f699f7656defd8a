package instance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/closing-timeline/internal/calendar"
	"github.com/rpggio/closing-timeline/internal/dates"
	"github.com/rpggio/closing-timeline/internal/domain/activity"
	"github.com/rpggio/closing-timeline/internal/domain/contingency"
	"github.com/rpggio/closing-timeline/internal/repository"
	"github.com/rpggio/closing-timeline/internal/schedule"
)

// DefaultClosingOffsetDays is how far after mutual acceptance a new
// timeline closes when no closing date is given.
const DefaultClosingOffsetDays = 30

// Settings tunes service defaults. Zero values fall back to the defaults.
type Settings struct {
	ClosingOffsetDays int
	Now               func() time.Time
}

// Service handles saved timeline operations.
type Service struct {
	repo          Repository
	activities    ActivityRepository
	assembler     *schedule.Assembler
	logger        *slog.Logger
	closingOffset int
	now           func() time.Time
}

// NewService creates a new timeline service. activities may be nil.
func NewService(repo Repository, activities ActivityRepository, settings Settings, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	offset := settings.ClosingOffsetDays
	if offset <= 0 {
		offset = DefaultClosingOffsetDays
	}
	now := settings.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:          repo,
		activities:    activities,
		assembler:     schedule.NewAssembler(logger),
		logger:        logger,
		closingOffset: offset,
		now:           now,
	}
}

// CreateRequest describes a new saved timeline. Every field is optional.
// A nil Contingencies list means the default set; an empty one means none.
type CreateRequest struct {
	Name          string
	MutualDate    string
	ClosingDate   string
	Contingencies []contingency.Contingency
}

// SaveRequest replaces the editable state of a saved timeline.
type SaveRequest struct {
	ID            string
	Name          string
	MutualDate    string
	ClosingDate   string
	Contingencies []contingency.Contingency
}

// Create stores a new timeline, filling in defaults for missing fields.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Instance, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting timelines: %w", err)
		}
		name = fmt.Sprintf("Timeline %d", count+1)
	}

	mutual := dates.Normalize(s.now())
	if strings.TrimSpace(req.MutualDate) != "" {
		parsed, err := dates.Parse(req.MutualDate)
		if err != nil {
			return nil, fmt.Errorf("%w: mutual_date: %v", ErrInvalidInput, err)
		}
		mutual = parsed
	}

	var adjustment string
	var closing time.Time
	if strings.TrimSpace(req.ClosingDate) != "" {
		parsed, err := dates.Parse(req.ClosingDate)
		if err != nil {
			return nil, fmt.Errorf("%w: closing_date: %v", ErrInvalidInput, err)
		}
		closing = parsed
	} else {
		closing, adjustment = s.defaultClosing(mutual)
	}

	list := req.Contingencies
	if list == nil {
		list = contingency.Defaults()
	} else {
		var err error
		if list, err = prepareList(list); err != nil {
			return nil, err
		}
	}

	now := s.now()
	inst := &Instance{
		ID:            uuid.NewString(),
		Name:          name,
		MutualDate:    dates.Format(mutual),
		ClosingDate:   dates.Format(closing),
		Contingencies: list,
		CreatedAt:     now,
		ModifiedAt:    now,
	}

	if err := s.repo.Create(ctx, inst); err != nil {
		return nil, fmt.Errorf("creating timeline: %w", err)
	}

	details := map[string]any{"mutual_date": inst.MutualDate, "closing_date": inst.ClosingDate}
	if adjustment != "" {
		details["closing_adjustment"] = adjustment
		s.logger.Info("default closing date adjusted", "timeline_id", inst.ID, "reason", adjustment)
	}
	s.logActivity(ctx, inst.ID, nil, activity.TypeTimelineCreated,
		fmt.Sprintf("created timeline %q", inst.Name), details)

	return inst, nil
}

// defaultClosing returns mutual plus the configured offset, moved forward
// to a business day, and a note describing any move.
func (s *Service) defaultClosing(mutual time.Time) (time.Time, string) {
	closing := dates.AddCalendarDays(mutual, s.closingOffset)
	if calendar.IsBusinessDay(closing) {
		return closing, ""
	}
	reason := "weekend"
	if name, ok := calendar.HolidayName(closing); ok {
		reason = name
	}
	next := dates.NextBusinessDay(closing)
	return next, fmt.Sprintf("%s falls on %s; moved to %s", dates.Format(closing), reason, dates.Format(next))
}

// Get fetches a saved timeline by ID.
func (s *Service) Get(ctx context.Context, id string) (*Instance, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	inst, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, fmt.Errorf("getting timeline: %w", err)
	}
	inst.Contingencies = contingency.SortByOrder(inst.Contingencies)
	return inst, nil
}

// List returns summaries of archived or active timelines, most recently
// modified first.
func (s *Service) List(ctx context.Context, archived bool) ([]Summary, error) {
	summaries, err := s.repo.List(ctx, ListOptions{Archived: &archived})
	if err != nil {
		return nil, fmt.Errorf("listing timelines: %w", err)
	}
	if summaries == nil {
		summaries = []Summary{}
	}
	return summaries, nil
}

// Save replaces the name, anchors and contingencies of a saved timeline.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*Instance, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := dates.Parse(req.MutualDate); err != nil {
		return nil, fmt.Errorf("%w: mutual_date: %v", ErrInvalidInput, err)
	}
	if _, err := dates.Parse(req.ClosingDate); err != nil {
		return nil, fmt.Errorf("%w: closing_date: %v", ErrInvalidInput, err)
	}
	list, err := prepareList(req.Contingencies)
	if err != nil {
		return nil, err
	}

	inst, err := s.update(ctx, req.ID, func(inst *Instance) error {
		inst.Name = name
		inst.MutualDate = dates.Format(dates.MustParse(req.MutualDate))
		inst.ClosingDate = dates.Format(dates.MustParse(req.ClosingDate))
		inst.Contingencies = list
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, inst.ID, nil, activity.TypeTimelineSaved,
		fmt.Sprintf("saved timeline %q", inst.Name),
		map[string]any{"contingencies": len(inst.Contingencies)})
	return inst, nil
}

// Delete removes a saved timeline.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInstanceNotFound
		}
		return fmt.Errorf("deleting timeline: %w", err)
	}
	s.logActivity(ctx, id, nil, activity.TypeTimelineDeleted, "deleted timeline", nil)
	return nil
}

// ToggleArchive flips the archived flag of a saved timeline.
func (s *Service) ToggleArchive(ctx context.Context, id string) (*Instance, error) {
	inst, err := s.update(ctx, id, func(inst *Instance) error {
		inst.Archived = !inst.Archived
		return nil
	})
	if err != nil {
		return nil, err
	}

	typ, verb := activity.TypeTimelineUnarchived, "unarchived"
	if inst.Archived {
		typ, verb = activity.TypeTimelineArchived, "archived"
	}
	s.logActivity(ctx, inst.ID, nil, typ, fmt.Sprintf("%s timeline %q", verb, inst.Name), nil)
	return inst, nil
}

// AddContingency appends c to a saved timeline.
func (s *Service) AddContingency(ctx context.Context, id string, c contingency.Contingency) (*Instance, contingency.Contingency, error) {
	var added contingency.Contingency
	inst, err := s.update(ctx, id, func(inst *Instance) error {
		list, created, err := contingency.Add(inst.Contingencies, c)
		if err != nil {
			return invalid(err)
		}
		inst.Contingencies, added = list, created
		return nil
	})
	if err != nil {
		return nil, contingency.Contingency{}, err
	}

	s.logActivity(ctx, inst.ID, &added.ID, activity.TypeContingencyAdded,
		fmt.Sprintf("added contingency %q", added.Name), nil)
	return inst, added, nil
}

// UpdateContingency replaces the contingency with c.ID.
func (s *Service) UpdateContingency(ctx context.Context, id string, c contingency.Contingency) (*Instance, error) {
	inst, err := s.update(ctx, id, func(inst *Instance) error {
		list, err := contingency.Replace(inst.Contingencies, c)
		if err != nil {
			return invalid(err)
		}
		inst.Contingencies = list
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, inst.ID, &c.ID, activity.TypeContingencyUpdated,
		fmt.Sprintf("updated contingency %q", c.Name), nil)
	return inst, nil
}

// RemoveContingency drops a contingency from a saved timeline.
func (s *Service) RemoveContingency(ctx context.Context, id, contingencyID string) (*Instance, error) {
	var removed contingency.Contingency
	inst, err := s.update(ctx, id, func(inst *Instance) error {
		found, ok := contingency.Find(inst.Contingencies, contingencyID)
		if !ok {
			return ErrContingencyNotFound
		}
		list, err := contingency.Remove(inst.Contingencies, contingencyID)
		if err != nil {
			return err
		}
		inst.Contingencies, removed = list, found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, inst.ID, &contingencyID, activity.TypeContingencyRemoved,
		fmt.Sprintf("removed contingency %q", removed.Name), nil)
	return inst, nil
}

// SetStatus records progress on one contingency. Completing it stamps
// today's date.
func (s *Service) SetStatus(ctx context.Context, id, contingencyID string, status contingency.Status) (*Instance, error) {
	var previous contingency.Status
	inst, err := s.update(ctx, id, func(inst *Instance) error {
		if found, ok := contingency.Find(inst.Contingencies, contingencyID); ok {
			previous = found.Status
		}
		list, err := contingency.SetStatus(inst.Contingencies, contingencyID, status, dates.Normalize(s.now()))
		if err != nil {
			return invalid(err)
		}
		inst.Contingencies = list
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, inst.ID, &contingencyID, activity.TypeStatusChanged,
		fmt.Sprintf("status %s -> %s", previous, status),
		map[string]any{"from": previous, "to": status})
	return inst, nil
}

// Reorder moves the contingency at position from to position to.
func (s *Service) Reorder(ctx context.Context, id string, from, to int) (*Instance, error) {
	inst, err := s.update(ctx, id, func(inst *Instance) error {
		list, err := contingency.Move(inst.Contingencies, from, to)
		if err != nil {
			return invalid(err)
		}
		inst.Contingencies = list
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, inst.ID, nil, activity.TypeContingenciesReordered,
		fmt.Sprintf("moved contingency %d -> %d", from, to),
		map[string]any{"from": from, "to": to})
	return inst, nil
}

// Timeline assembles the dated timeline of a saved instance.
func (s *Service) Timeline(ctx context.Context, id string) (*Instance, []schedule.TimelineItem, error) {
	inst, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.assembler.Build(inst.MutualDate, inst.ClosingDate, inst.Contingencies)
	if err != nil {
		return nil, nil, fmt.Errorf("building timeline: %w", err)
	}
	return inst, items, nil
}

// update loads a timeline, applies fn to it and stores the result.
func (s *Service) update(ctx context.Context, id string, fn func(inst *Instance) error) (*Instance, error) {
	inst, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(inst); err != nil {
		return nil, err
	}
	inst.ModifiedAt = s.now()
	if err := s.repo.Update(ctx, inst); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, fmt.Errorf("updating timeline: %w", err)
	}
	return inst, nil
}

func (s *Service) logActivity(ctx context.Context, timelineID string, contingencyID *string, typ activity.ActivityType, summary string, details map[string]any) {
	if s.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		TimelineID:    timelineID,
		ContingencyID: contingencyID,
		ActivityType:  typ,
		Summary:       summary,
		CreatedAt:     s.now(),
	}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = string(raw)
		}
	}
	if err := s.activities.Log(ctx, entry); err != nil {
		s.logger.Warn("activity log failed", "timeline_id", timelineID, "type", typ, "error", err)
	}
}

// prepareList fills missing IDs and statuses, numbers the list in its given
// order and validates it.
func prepareList(list []contingency.Contingency) ([]contingency.Contingency, error) {
	out := make([]contingency.Contingency, len(list))
	for i, c := range contingency.SortByOrder(list) {
		if strings.TrimSpace(c.ID) == "" {
			c.ID = uuid.NewString()
		}
		if c.Status == "" {
			c.Status = contingency.StatusNotStarted
		}
		c.Order = i
		out[i] = c
	}
	if err := contingency.ValidateList(out); err != nil {
		return nil, invalid(err)
	}
	return out, nil
}

// invalid tags contingency validation failures as invalid timeline input.
func invalid(err error) error {
	if errors.Is(err, contingency.ErrContingencyNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
