package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeTimelineCreated        ActivityType = "timeline_created"
	TypeTimelineSaved          ActivityType = "timeline_saved"
	TypeTimelineDeleted        ActivityType = "timeline_deleted"
	TypeTimelineArchived       ActivityType = "timeline_archived"
	TypeTimelineUnarchived     ActivityType = "timeline_unarchived"
	TypeContingencyAdded       ActivityType = "contingency_added"
	TypeContingencyUpdated     ActivityType = "contingency_updated"
	TypeContingencyRemoved     ActivityType = "contingency_removed"
	TypeStatusChanged          ActivityType = "status_changed"
	TypeContingenciesReordered ActivityType = "contingencies_reordered"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeTimelineCreated, TypeTimelineSaved, TypeTimelineDeleted,
		TypeTimelineArchived, TypeTimelineUnarchived,
		TypeContingencyAdded, TypeContingencyUpdated, TypeContingencyRemoved,
		TypeStatusChanged, TypeContingenciesReordered:
		return true
	}
	return false
}

// ActivityEntry represents an event in the timeline change log
type ActivityEntry struct {
	ID            int64        `json:"id"`
	TimelineID    string       `json:"timeline_id"`
	ContingencyID *string      `json:"contingency_id,omitempty"`
	ActivityType  ActivityType `json:"type"`
	Summary       string       `json:"summary"`
	Details       string       `json:"details,omitempty"` // JSON string
	CreatedAt     time.Time    `json:"created_at"`
}
