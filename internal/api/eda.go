package api

import (
	"context"
	"net/http"
)

// Analysis endpoints. Each is a POST of {dataset_id, ...} and returns the
// kind-specific output shape.

func (c *Client) SummaryStats(ctx context.Context, datasetID string, columns []string) ([]SummaryStats, error) {
	body := struct {
		DatasetID string   `json:"dataset_id"`
		Columns   []string `json:"columns"`
	}{datasetID, columns}

	var out []SummaryStats
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/summary-stats", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UniqueValues(ctx context.Context, datasetID, column string) (*UniqueValuesOutput, error) {
	body := struct {
		DatasetID string `json:"dataset_id"`
		Column    string `json:"column"`
	}{datasetID, column}

	var out UniqueValuesOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/unique-values", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MissingAnalysis(ctx context.Context, datasetID string, columns []string) ([]MissingAnalysis, error) {
	body := struct {
		DatasetID string   `json:"dataset_id"`
		Columns   []string `json:"columns"`
	}{datasetID, columns}

	var out []MissingAnalysis
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/missing-analysis", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Histogram(ctx context.Context, datasetID, column string, bins int) (*HistogramOutput, error) {
	body := struct {
		DatasetID string `json:"dataset_id"`
		Column    string `json:"column"`
		Bins      int    `json:"bins"`
	}{datasetID, column, bins}

	var out HistogramOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/histogram", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Boxplot(ctx context.Context, datasetID, column string) (*BoxplotOutput, error) {
	body := struct {
		DatasetID string `json:"dataset_id"`
		Column    string `json:"column"`
	}{datasetID, column}

	var out BoxplotOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/boxplot", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Percentiles(ctx context.Context, datasetID, column string, percentiles []float64) (*PercentilesOutput, error) {
	body := struct {
		DatasetID   string    `json:"dataset_id"`
		Column      string    `json:"column"`
		Percentiles []float64 `json:"percentiles"`
	}{datasetID, column, percentiles}

	var out PercentilesOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/percentiles", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Correlation(ctx context.Context, datasetID string, columns []string) (*CorrelationOutput, error) {
	body := struct {
		DatasetID string   `json:"dataset_id"`
		Columns   []string `json:"columns"`
	}{datasetID, columns}

	var out CorrelationOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/correlation", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Scatter(ctx context.Context, datasetID, x, y string) (*ScatterOutput, error) {
	body := struct {
		DatasetID string `json:"dataset_id"`
		X         string `json:"x"`
		Y         string `json:"y"`
	}{datasetID, x, y}

	var out ScatterOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/scatter", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GroupBy(ctx context.Context, datasetID, groupColumn, metricColumn string) (*GroupByOutput, error) {
	body := struct {
		DatasetID    string `json:"dataset_id"`
		GroupColumn  string `json:"group_column"`
		MetricColumn string `json:"metric_column"`
	}{datasetID, groupColumn, metricColumn}

	var out GroupByOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/group-by", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Segment(ctx context.Context, datasetID string, rules []SegmentRule) (*SegmentOutput, error) {
	body := struct {
		DatasetID string        `json:"dataset_id"`
		Rules     []SegmentRule `json:"rules"`
	}{datasetID, rules}

	var out SegmentOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/segment", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TimeTrend(ctx context.Context, datasetID, column, timeUnit string) (*TimeTrendOutput, error) {
	body := struct {
		DatasetID string `json:"dataset_id"`
		Column    string `json:"column"`
		TimeUnit  string `json:"time_unit"`
	}{datasetID, column, timeUnit}

	var out TimeTrendOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/time-trend", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Outliers(ctx context.Context, datasetID, column string) (*OutlierOutput, error) {
	body := struct {
		DatasetID string `json:"dataset_id"`
		Column    string `json:"column"`
	}{datasetID, column}

	var out OutlierOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/outliers", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Report(ctx context.Context, datasetID string, sections []string) (*ReportOutput, error) {
	body := struct {
		DatasetID string   `json:"dataset_id"`
		Sections  []string `json:"sections"`
	}{datasetID, sections}

	var out ReportOutput
	if err := c.do(ctx, http.MethodPost, "/api/v1/eda/report", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
