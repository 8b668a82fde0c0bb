package scorecheck

import "time"

// Config holds configuration for the consistency check.
type Config struct {
	BaseURL    string        // Base URL of the scoring service
	ScoredFile string        // Batch-scored CSV to replay
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Tolerance  float64       // Maximum allowed probability difference
	Verbose    bool          // Enable verbose logging
}

// scoreResponse is the body returned by the /score endpoint.
type scoreResponse struct {
	ChurnProb float64 `json:"churn_prob"`
	Error     string  `json:"error"`
	Message   string  `json:"message"`
}

// Stats holds check statistics.
type Stats struct {
	RowsLoaded   int
	RowsChecked  int
	Matches      int
	Mismatches   int
	RequestsFail int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}
