package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	TimelineID    string
	ContingencyID *string
	ActivityType  *ActivityType
	Limit         int
	Offset        int
}
