package api

// SessionStatus is the server-side lifecycle state of a research session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusPaused    SessionStatus = "paused"
	StatusCompleted SessionStatus = "completed"
	StatusArchived  SessionStatus = "archived"
)

// ResearchSession is a server-managed research session.
type ResearchSession struct {
	ID                string         `json:"id"`
	ResearcherID      string         `json:"researcher_id"`
	Title             string         `json:"title"`
	Purpose           string         `json:"purpose"`
	Description       *string        `json:"description,omitempty"`
	Institution       *string        `json:"institution,omitempty"`
	IRBApprovalNumber *string        `json:"irb_approval_number,omitempty"`
	StartDate         *string        `json:"start_date,omitempty"`
	EndDate           *string        `json:"end_date,omitempty"`
	Status            SessionStatus  `json:"status"`
	RequestedFields   []string       `json:"requested_fields"`
	DataScope         map[string]any `json:"data_scope,omitempty"`
	SessionMetadata   map[string]any `json:"session_metadata,omitempty"`
	DataAccessCount   int            `json:"data_access_count"`
	LastAccessedAt    *string        `json:"last_accessed_at,omitempty"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
}

// SessionCreate is the payload for creating a session.
type SessionCreate struct {
	Title             string         `json:"title"`
	Purpose           string         `json:"purpose"`
	Description       *string        `json:"description,omitempty"`
	Institution       *string        `json:"institution,omitempty"`
	IRBApprovalNumber *string        `json:"irb_approval_number,omitempty"`
	RequestedFields   []string       `json:"requested_fields"`
	DataScope         map[string]any `json:"data_scope,omitempty"`
	StartDate         *string        `json:"start_date,omitempty"`
	EndDate           *string        `json:"end_date,omitempty"`
	SessionMetadata   map[string]any `json:"session_metadata,omitempty"`
}

// SessionUpdate is a partial update; nil fields are left unchanged.
type SessionUpdate struct {
	Title           *string        `json:"title,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Status          *SessionStatus `json:"status,omitempty"`
	EndDate         *string        `json:"end_date,omitempty"`
	RequestedFields []string       `json:"requested_fields,omitempty"`
	DataScope       map[string]any `json:"data_scope,omitempty"`
	SessionMetadata map[string]any `json:"session_metadata,omitempty"`
}

// SessionList is the paginated response from listing sessions.
type SessionList struct {
	Sessions []ResearchSession `json:"sessions"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// ResearcherProfile describes the authenticated researcher.
type ResearcherProfile struct {
	ID                string  `json:"id"`
	Email             string  `json:"email"`
	FullName          string  `json:"full_name"`
	Institution       *string `json:"institution,omitempty"`
	ResearchInterests *string `json:"research_interests,omitempty"`
	Credentials       *string `json:"credentials,omitempty"`
	IsActive          bool    `json:"is_active"`
	IsVerified        bool    `json:"is_verified"`
	CreatedAt         string  `json:"created_at"`
	LastLogin         *string `json:"last_login,omitempty"`
}

// TokenResponse is returned by login and signup.
type TokenResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresIn   int               `json:"expires_in"`
	Researcher  ResearcherProfile `json:"researcher"`
}

// LoginRequest holds researcher credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest holds a new researcher registration.
type SignupRequest struct {
	Email             string  `json:"email"`
	Password          string  `json:"password"`
	FullName          string  `json:"full_name"`
	Institution       *string `json:"institution,omitempty"`
	ResearchInterests *string `json:"research_interests,omitempty"`
	Credentials       *string `json:"credentials,omitempty"`
}

// --- analysis outputs ---

// SummaryStats holds per-column summary statistics. Statistic fields are nil
// when the column has no valid numeric values.
type SummaryStats struct {
	Column     string   `json:"column"`
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	Mean       *float64 `json:"mean"`
	Median     *float64 `json:"median"`
	StdDev     *float64 `json:"std_dev"`
	ValidCount int      `json:"valid_count"`
}

// UniqueValue is one value/count pair; Value may be a string or a number.
type UniqueValue struct {
	Value any `json:"value"`
	Count int `json:"count"`
}

type UniqueValuesOutput struct {
	UniqueCount int           `json:"unique_count"`
	TopValues   []UniqueValue `json:"top_values"`
}

type MissingAnalysis struct {
	Column         string  `json:"column"`
	MissingPercent float64 `json:"missing_percent"`
	PatternSummary *string `json:"pattern_summary,omitempty"`
}

type HistogramBin struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type HistogramOutput struct {
	Bins      []HistogramBin `json:"bins"`
	Narrative *string        `json:"narrative,omitempty"`
}

type BoxplotOutput struct {
	Median       float64   `json:"median"`
	IQR          []float64 `json:"iqr"`
	OutlierCount int       `json:"outlier_count"`
}

type PercentilesOutput struct {
	Percentiles map[string]float64 `json:"percentiles"`
}

// CorrelationItem is one cell of the correlation matrix. Value is nil when the
// pair has too few overlapping observations.
type CorrelationItem struct {
	X        string   `json:"x"`
	Y        string   `json:"y"`
	Strength string   `json:"strength"`
	Value    *float64 `json:"value"`
}

type CorrelationOutput struct {
	Matrix []CorrelationItem `json:"matrix"`
}

type ScatterPoint struct {
	XBin string  `json:"x_bin"`
	YAvg float64 `json:"y_avg"`
}

type ScatterOutput struct {
	Points []ScatterPoint `json:"points"`
	Trend  *string        `json:"trend,omitempty"`
}

// GroupItem is one group aggregate; Group may be a string or a number.
type GroupItem struct {
	Group any     `json:"group"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

type GroupByOutput struct {
	Groups    []GroupItem `json:"groups"`
	Narrative *string     `json:"narrative,omitempty"`
}

// SegmentRule filters rows by a single column comparison.
type SegmentRule struct {
	Column   string `json:"column"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type SegmentOutput struct {
	SegmentSize int            `json:"segment_size"`
	Summary     map[string]any `json:"summary"`
}

type TimeSeriesItem struct {
	TimePeriod string  `json:"time_period"`
	Mean       float64 `json:"mean"`
}

type TimeTrendOutput struct {
	Series     []TimeSeriesItem `json:"series"`
	KeyChanges *string          `json:"key_changes,omitempty"`
}

type OutlierOutput struct {
	OutlierCount int       `json:"outlier_count"`
	Range        []float64 `json:"range"`
	Hint         *string   `json:"hint,omitempty"`
}

type ReportOutput struct {
	ReportURL string `json:"report_url"`
}
