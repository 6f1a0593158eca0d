// Package render composes analysis outputs into markdown for the CLI and the
// local dashboard.
package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mediq-health/mediq/internal/api"
	"github.com/mediq-health/mediq/internal/eda"
)

// Markdown renders one analysis result as a markdown document body.
func Markdown(kind eda.Kind, data any) string {
	switch out := data.(type) {
	case []api.SummaryStats:
		return summaryMarkdown(out)
	case *api.UniqueValuesOutput:
		return uniqueMarkdown(out)
	case []api.MissingAnalysis:
		return missingMarkdown(out)
	case *api.HistogramOutput:
		return histogramMarkdown(out)
	case *api.BoxplotOutput:
		return boxplotMarkdown(out)
	case *api.PercentilesOutput:
		return percentilesMarkdown(out)
	case *api.CorrelationOutput:
		return correlationMarkdown(out)
	case *api.ScatterOutput:
		return scatterMarkdown(out)
	case *api.GroupByOutput:
		return groupByMarkdown(out)
	case *api.SegmentOutput:
		return segmentMarkdown(out)
	case *api.TimeTrendOutput:
		return trendMarkdown(out)
	case *api.OutlierOutput:
		return outliersMarkdown(out)
	case *api.ReportOutput:
		return reportMarkdown(out)
	}
	return fmt.Sprintf("Unrenderable %s result.", kind)
}

func summaryMarkdown(stats []api.SummaryStats) string {
	var b strings.Builder
	b.WriteString("## Summary Statistics\n\n")
	b.WriteString("| Column | Min | Max | Mean | Median | Std Dev | Valid |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %d |\n",
			s.Column, num(s.Min), num(s.Max), num(s.Mean), num(s.Median), num(s.StdDev), s.ValidCount)
	}
	return b.String()
}

func uniqueMarkdown(out *api.UniqueValuesOutput) string {
	var b strings.Builder
	b.WriteString("## Unique Values\n\n")
	fmt.Fprintf(&b, "%d distinct values.\n\n", out.UniqueCount)
	if len(out.TopValues) > 0 {
		b.WriteString("| Value | Count |\n|---|---|\n")
		for _, v := range out.TopValues {
			fmt.Fprintf(&b, "| %v | %d |\n", v.Value, v.Count)
		}
	}
	return b.String()
}

func missingMarkdown(items []api.MissingAnalysis) string {
	var b strings.Builder
	b.WriteString("## Missing Data\n\n")
	b.WriteString("| Column | Missing % | Pattern |\n|---|---|---|\n")
	for _, m := range items {
		fmt.Fprintf(&b, "| %s | %.1f%% | %s |\n", m.Column, m.MissingPercent, deref(m.PatternSummary))
	}
	return b.String()
}

func histogramMarkdown(out *api.HistogramOutput) string {
	var b strings.Builder
	b.WriteString("## Histogram\n\n")
	b.WriteString("| Range | Count |\n|---|---|\n")
	for _, bin := range out.Bins {
		fmt.Fprintf(&b, "| %s | %d |\n", bin.Range, bin.Count)
	}
	if out.Narrative != nil {
		fmt.Fprintf(&b, "\n%s\n", *out.Narrative)
	}
	return b.String()
}

func boxplotMarkdown(out *api.BoxplotOutput) string {
	var b strings.Builder
	b.WriteString("## Box Plot\n\n")
	fmt.Fprintf(&b, "- Median: %g\n", out.Median)
	if len(out.IQR) == 2 {
		fmt.Fprintf(&b, "- IQR: %g – %g\n", out.IQR[0], out.IQR[1])
	}
	fmt.Fprintf(&b, "- Outliers: %d\n", out.OutlierCount)
	return b.String()
}

func percentilesMarkdown(out *api.PercentilesOutput) string {
	keys := make([]string, 0, len(out.Percentiles))
	for k := range out.Percentiles {
		keys = append(keys, k)
	}
	// Numeric sort where possible so p5 sorts before p25.
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseFloat(strings.TrimPrefix(keys[i], "p"), 64)
		b, errB := strconv.ParseFloat(strings.TrimPrefix(keys[j], "p"), 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})

	var b strings.Builder
	b.WriteString("## Percentiles\n\n")
	b.WriteString("| Percentile | Value |\n|---|---|\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "| %s | %g |\n", k, out.Percentiles[k])
	}
	return b.String()
}

func correlationMarkdown(out *api.CorrelationOutput) string {
	var b strings.Builder
	b.WriteString("## Correlation\n\n")
	b.WriteString("| X | Y | Strength | Value |\n|---|---|---|---|\n")
	for _, item := range out.Matrix {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", item.X, item.Y, item.Strength, num(item.Value))
	}
	return b.String()
}

func scatterMarkdown(out *api.ScatterOutput) string {
	var b strings.Builder
	b.WriteString("## Scatter\n\n")
	b.WriteString("| X Bin | Y Avg |\n|---|---|\n")
	for _, p := range out.Points {
		fmt.Fprintf(&b, "| %s | %g |\n", p.XBin, p.YAvg)
	}
	if out.Trend != nil {
		fmt.Fprintf(&b, "\nTrend: %s\n", *out.Trend)
	}
	return b.String()
}

func groupByMarkdown(out *api.GroupByOutput) string {
	var b strings.Builder
	b.WriteString("## Group Comparison\n\n")
	b.WriteString("| Group | Mean | Count |\n|---|---|---|\n")
	for _, g := range out.Groups {
		fmt.Fprintf(&b, "| %v | %g | %d |\n", g.Group, g.Mean, g.Count)
	}
	if out.Narrative != nil {
		fmt.Fprintf(&b, "\n%s\n", *out.Narrative)
	}
	return b.String()
}

func segmentMarkdown(out *api.SegmentOutput) string {
	var b strings.Builder
	b.WriteString("## Segment\n\n")
	fmt.Fprintf(&b, "%d rows matched.\n", out.SegmentSize)
	if len(out.Summary) > 0 {
		keys := make([]string, 0, len(out.Summary))
		for k := range out.Summary {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\n| Metric | Value |\n|---|---|\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "| %s | %v |\n", k, out.Summary[k])
		}
	}
	return b.String()
}

func trendMarkdown(out *api.TimeTrendOutput) string {
	var b strings.Builder
	b.WriteString("## Time Trend\n\n")
	b.WriteString("| Period | Mean |\n|---|---|\n")
	for _, item := range out.Series {
		fmt.Fprintf(&b, "| %s | %g |\n", item.TimePeriod, item.Mean)
	}
	if out.KeyChanges != nil {
		fmt.Fprintf(&b, "\n%s\n", *out.KeyChanges)
	}
	return b.String()
}

func outliersMarkdown(out *api.OutlierOutput) string {
	var b strings.Builder
	b.WriteString("## Outliers\n\n")
	fmt.Fprintf(&b, "%d outliers detected.\n", out.OutlierCount)
	if len(out.Range) == 2 {
		fmt.Fprintf(&b, "\nExpected range: %g – %g\n", out.Range[0], out.Range[1])
	}
	if out.Hint != nil {
		fmt.Fprintf(&b, "\n%s\n", *out.Hint)
	}
	return b.String()
}

func reportMarkdown(out *api.ReportOutput) string {
	return fmt.Sprintf("## Report\n\nGenerated: [%s](%s)\n", out.ReportURL, out.ReportURL)
}

func num(v *float64) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
