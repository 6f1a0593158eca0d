package eda

import "github.com/mediq-health/mediq/internal/api"

// Kind identifies one of the analysis operations and doubles as the view-type
// tag paired with a held result.
type Kind string

const (
	KindSummary     Kind = "summary"
	KindUnique      Kind = "unique"
	KindMissing     Kind = "missing"
	KindHistogram   Kind = "histogram"
	KindBoxplot     Kind = "boxplot"
	KindPercentiles Kind = "percentiles"
	KindCorrelation Kind = "correlation"
	KindScatter     Kind = "scatter"
	KindGroupBy     Kind = "groupby"
	KindSegment     Kind = "segment"
	KindTrend       Kind = "trend"
	KindOutliers    Kind = "outliers"
	KindReport      Kind = "report"
)

// Kinds lists every analysis kind in display order.
var Kinds = []Kind{
	KindSummary, KindUnique, KindMissing, KindHistogram, KindBoxplot,
	KindPercentiles, KindCorrelation, KindScatter, KindGroupBy,
	KindSegment, KindTrend, KindOutliers, KindReport,
}

// Request is a closed set of analysis requests; each variant carries its own
// parameters. The unexported method keeps the set sealed so dispatch can be
// exhaustive.
type Request interface {
	Kind() Kind
	isRequest()
}

type SummaryRequest struct {
	DatasetID string
	Columns   []string
}

type UniqueRequest struct {
	DatasetID string
	Column    string
}

type MissingRequest struct {
	DatasetID string
	Columns   []string
}

type HistogramRequest struct {
	DatasetID string
	Column    string
	Bins      int
}

type BoxplotRequest struct {
	DatasetID string
	Column    string
}

type PercentilesRequest struct {
	DatasetID   string
	Column      string
	Percentiles []float64
}

type CorrelationRequest struct {
	DatasetID string
	Columns   []string
}

type ScatterRequest struct {
	DatasetID string
	X         string
	Y         string
}

type GroupByRequest struct {
	DatasetID    string
	GroupColumn  string
	MetricColumn string
}

type SegmentRequest struct {
	DatasetID string
	Rules     []api.SegmentRule
}

type TrendRequest struct {
	DatasetID string
	Column    string
	TimeUnit  string
}

type OutliersRequest struct {
	DatasetID string
	Column    string
}

type ReportRequest struct {
	DatasetID string
	Sections  []string
}

func (SummaryRequest) Kind() Kind     { return KindSummary }
func (UniqueRequest) Kind() Kind      { return KindUnique }
func (MissingRequest) Kind() Kind     { return KindMissing }
func (HistogramRequest) Kind() Kind   { return KindHistogram }
func (BoxplotRequest) Kind() Kind     { return KindBoxplot }
func (PercentilesRequest) Kind() Kind { return KindPercentiles }
func (CorrelationRequest) Kind() Kind { return KindCorrelation }
func (ScatterRequest) Kind() Kind     { return KindScatter }
func (GroupByRequest) Kind() Kind     { return KindGroupBy }
func (SegmentRequest) Kind() Kind     { return KindSegment }
func (TrendRequest) Kind() Kind       { return KindTrend }
func (OutliersRequest) Kind() Kind    { return KindOutliers }
func (ReportRequest) Kind() Kind      { return KindReport }

func (SummaryRequest) isRequest()     {}
func (UniqueRequest) isRequest()      {}
func (MissingRequest) isRequest()     {}
func (HistogramRequest) isRequest()   {}
func (BoxplotRequest) isRequest()     {}
func (PercentilesRequest) isRequest() {}
func (CorrelationRequest) isRequest() {}
func (ScatterRequest) isRequest()     {}
func (GroupByRequest) isRequest()     {}
func (SegmentRequest) isRequest()     {}
func (TrendRequest) isRequest()       {}
func (OutliersRequest) isRequest()    {}
func (ReportRequest) isRequest()      {}

// DatasetID returns the dataset the request targets.
func DatasetID(req Request) string {
	switch r := req.(type) {
	case SummaryRequest:
		return r.DatasetID
	case UniqueRequest:
		return r.DatasetID
	case MissingRequest:
		return r.DatasetID
	case HistogramRequest:
		return r.DatasetID
	case BoxplotRequest:
		return r.DatasetID
	case PercentilesRequest:
		return r.DatasetID
	case CorrelationRequest:
		return r.DatasetID
	case ScatterRequest:
		return r.DatasetID
	case GroupByRequest:
		return r.DatasetID
	case SegmentRequest:
		return r.DatasetID
	case TrendRequest:
		return r.DatasetID
	case OutliersRequest:
		return r.DatasetID
	case ReportRequest:
		return r.DatasetID
	}
	return ""
}
