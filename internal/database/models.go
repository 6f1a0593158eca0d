package database

// AnalysisRun is a locally recorded analysis result.
type AnalysisRun struct {
	ID           string
	SessionID    string
	DatasetID    string
	Kind         string
	Params       *string
	Result       string
	BodyMarkdown string
	CreatedAt    *string
}

// ConsentToggle is a persisted demo consent switch.
type ConsentToggle struct {
	Name      string
	Enabled   bool
	UpdatedAt *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	CachedSessions  int
	ActiveSessionID string
	AnalysisRuns    int
	LastRunAt       string
	Toggles         int
	EnabledToggles  int
}
