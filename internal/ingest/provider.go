package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int   `json:"sessions_received"`
	SessionsInserted int   `json:"sessions_inserted"`
	SessionsSkipped  int   `json:"sessions_skipped"`
	SetsInserted     int64 `json:"sets_inserted"`
	RepsInserted     int64 `json:"reps_inserted"`
	SamplesReceived  int64 `json:"samples_received"`

	Message string `json:"message,omitempty"`
}
