package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *Run) (int64, error) { return 0, nil }
func (n *NoopRecorder) RecordEstimate(_ *EstimateRecord) error { return nil }
func (n *NoopRecorder) History(_ string, _ int) ([]EstimateRecord, error) { return nil, nil }
func (n *NoopRecorder) Close() error { return nil }
