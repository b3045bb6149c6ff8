// Package probe exercises a running scout server: it builds every quadrant
// view over HTTP and checks the invariants a client relies on.
package probe

import (
	"time"

	"github.com/okian/scout/pkg/logger"
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Pairs      []string      // Pair ids to request; empty means every pair the server lists
	MinMinutes float64       // minSure forwarded on every view
	Highlight  string        // Entity id highlighted in every view
	Workers    int           // Concurrent view requests
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Where fetched views are written; empty skips saving
	Verbose    bool          // Log every violation
	Logger     logger.Logger // Defaults to a discarding logger
}

// Stats holds probe statistics.
type Stats struct {
	ViewsRequested int
	ViewsOK        int
	ViewsFailed    int
	Points         int
	Violations     int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// Result is the outcome of probing one pair.
type Result struct {
	PairID     string   `json:"pair"`
	Status     int      `json:"status"`
	Error      string   `json:"error,omitempty"`
	Total      int      `json:"total"`
	Violations []string `json:"violations,omitempty"`
}
