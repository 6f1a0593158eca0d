// Package eda coordinates analysis requests against the MedIQ API: it gates
// each call on an active research session, tracks the loading/error/result
// lifecycle, and holds the single current result together with its view type.
package eda

import (
	"context"
	"errors"
	"sync"

	"github.com/mediq-health/mediq/internal/api"
)

// ErrNoActiveSession is returned when an analysis is attempted without a
// selected research session. No network call is made in that case.
var ErrNoActiveSession = errors.New("Please select an active research session first")

// genericFailure is shown when an error carries no server detail.
const genericFailure = "Analysis failed"

// Analyzer is the facade surface the orchestrator dispatches to.
type Analyzer interface {
	SummaryStats(ctx context.Context, datasetID string, columns []string) ([]api.SummaryStats, error)
	UniqueValues(ctx context.Context, datasetID, column string) (*api.UniqueValuesOutput, error)
	MissingAnalysis(ctx context.Context, datasetID string, columns []string) ([]api.MissingAnalysis, error)
	Histogram(ctx context.Context, datasetID, column string, bins int) (*api.HistogramOutput, error)
	Boxplot(ctx context.Context, datasetID, column string) (*api.BoxplotOutput, error)
	Percentiles(ctx context.Context, datasetID, column string, percentiles []float64) (*api.PercentilesOutput, error)
	Correlation(ctx context.Context, datasetID string, columns []string) (*api.CorrelationOutput, error)
	Scatter(ctx context.Context, datasetID, x, y string) (*api.ScatterOutput, error)
	GroupBy(ctx context.Context, datasetID, groupColumn, metricColumn string) (*api.GroupByOutput, error)
	Segment(ctx context.Context, datasetID string, rules []api.SegmentRule) (*api.SegmentOutput, error)
	TimeTrend(ctx context.Context, datasetID, column, timeUnit string) (*api.TimeTrendOutput, error)
	Outliers(ctx context.Context, datasetID, column string) (*api.OutlierOutput, error)
	Report(ctx context.Context, datasetID string, sections []string) (*api.ReportOutput, error)
}

// SessionSource reports the currently selected research session.
type SessionSource interface {
	Active() *api.ResearchSession
}

// Snapshot is the orchestrator state exposed to the view layer. Data is
// non-nil exactly when ViewType is set.
type Snapshot struct {
	Loading  bool
	Err      string
	ViewType Kind
	Data     any
}

// Orchestrator owns the single current analysis result. A new request
// overwrites the prior result; there is no history.
type Orchestrator struct {
	client   Analyzer
	sessions SessionSource

	mu       sync.Mutex
	gen      uint64
	loading  bool
	errMsg   string
	viewType Kind
	data     any
}

// New creates an Orchestrator in the idle state.
func New(client Analyzer, sessions SessionSource) *Orchestrator {
	return &Orchestrator{client: client, sessions: sessions}
}

// Run dispatches one analysis request. With no active session it fails
// synchronously with ErrNoActiveSession and never touches the network.
//
// Overlapping calls are permitted; a settlement is discarded when a newer
// request, a Reset, or an active-session change superseded it, so the most
// recently issued surviving call wins.
func (o *Orchestrator) Run(ctx context.Context, req Request) (any, error) {
	o.mu.Lock()
	active := o.sessions.Active()
	if active == nil {
		o.errMsg = ErrNoActiveSession.Error()
		o.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	sessionID := active.ID
	o.gen++
	myGen := o.gen
	o.loading = true
	o.errMsg = ""
	o.mu.Unlock()

	result, err := o.dispatch(ctx, req)

	o.mu.Lock()
	defer o.mu.Unlock()

	if myGen != o.gen {
		// Superseded while in flight; whoever bumped the generation owns the state.
		return result, err
	}

	o.loading = false

	cur := o.sessions.Active()
	if cur == nil || cur.ID != sessionID {
		// The session context changed under us; drop the stale response.
		return result, err
	}

	if err != nil {
		o.errMsg = normalizeError(err)
		o.data = nil
		o.viewType = ""
		return nil, err
	}

	o.data = result
	o.viewType = req.Kind()
	return result, nil
}

// dispatch routes a request variant to the matching facade operation.
func (o *Orchestrator) dispatch(ctx context.Context, req Request) (any, error) {
	switch r := req.(type) {
	case SummaryRequest:
		return orNil(o.client.SummaryStats(ctx, r.DatasetID, r.Columns))
	case UniqueRequest:
		return orNil(o.client.UniqueValues(ctx, r.DatasetID, r.Column))
	case MissingRequest:
		return orNil(o.client.MissingAnalysis(ctx, r.DatasetID, r.Columns))
	case HistogramRequest:
		return orNil(o.client.Histogram(ctx, r.DatasetID, r.Column, r.Bins))
	case BoxplotRequest:
		return orNil(o.client.Boxplot(ctx, r.DatasetID, r.Column))
	case PercentilesRequest:
		return orNil(o.client.Percentiles(ctx, r.DatasetID, r.Column, r.Percentiles))
	case CorrelationRequest:
		return orNil(o.client.Correlation(ctx, r.DatasetID, r.Columns))
	case ScatterRequest:
		return orNil(o.client.Scatter(ctx, r.DatasetID, r.X, r.Y))
	case GroupByRequest:
		return orNil(o.client.GroupBy(ctx, r.DatasetID, r.GroupColumn, r.MetricColumn))
	case SegmentRequest:
		return orNil(o.client.Segment(ctx, r.DatasetID, r.Rules))
	case TrendRequest:
		return orNil(o.client.TimeTrend(ctx, r.DatasetID, r.Column, r.TimeUnit))
	case OutliersRequest:
		return orNil(o.client.Outliers(ctx, r.DatasetID, r.Column))
	case ReportRequest:
		return orNil(o.client.Report(ctx, r.DatasetID, r.Sections))
	}
	// Unreachable: Request is sealed.
	return nil, errors.New("unknown analysis request")
}

// orNil collapses typed results into (any, error) without wrapping a typed nil
// pointer in a non-nil interface.
func orNil[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Reset returns the orchestrator to the idle state from any state, discarding
// any in-flight request's eventual settlement.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.gen++
	o.loading = false
	o.errMsg = ""
	o.viewType = ""
	o.data = nil
}

// Snapshot returns the current lifecycle state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Snapshot{
		Loading:  o.loading,
		Err:      o.errMsg,
		ViewType: o.viewType,
		Data:     o.data,
	}
}

// normalizeError reduces any failure to the single user-facing string: the
// server's detail message when present, else a generic fallback.
func normalizeError(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return genericFailure
}
