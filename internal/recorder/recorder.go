package recorder

import "time"

// Run describes one batch report.
type Run struct {
	Source        string
	ReferenceYear int
	Species       int
	Computable    int
}

// EstimateRecord holds one species' estimate within a run.
type EstimateRecord struct {
	RunID     int64
	Timestamp time.Time
	Species   string
	Outcome   string // trend.Outcome string form
	Year      int    // 0 when not computable
	RawYear   float64
	Slope     float64
	Intercept float64
	Points    int
	Risk      string
}

// Recorder persists estimate history for later comparison.
type Recorder interface {
	RecordRun(run *Run) (int64, error)
	RecordEstimate(rec *EstimateRecord) error
	History(species string, limit int) ([]EstimateRecord, error)
	Close() error
}
