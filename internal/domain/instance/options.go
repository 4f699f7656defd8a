package instance

// ListOptions provides filtering options for listing saved timelines.
type ListOptions struct {
	Archived *bool
	Limit    int
	Offset   int
}
