package instance

import (
	"time"

	"github.com/rpggio/closing-timeline/internal/domain/contingency"
)

// Instance is a named, saved timeline: two anchor dates and the
// contingencies scheduled against them.
type Instance struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	MutualDate    string                    `json:"mutual_date"`
	ClosingDate   string                    `json:"closing_date"`
	Contingencies []contingency.Contingency `json:"contingencies"`
	Archived      bool                      `json:"archived"`
	CreatedAt     time.Time                 `json:"created_at"`
	ModifiedAt    time.Time                 `json:"modified_at"`
}

// Summary is a lightweight representation for listing
type Summary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	MutualDate       string    `json:"mutual_date"`
	ClosingDate      string    `json:"closing_date"`
	Archived         bool      `json:"archived"`
	ContingencyCount int       `json:"contingency_count"`
	CompletedCount   int       `json:"completed_count"`
	CreatedAt        time.Time `json:"created_at"`
	ModifiedAt       time.Time `json:"modified_at"`
}
