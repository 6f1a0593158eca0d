package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mediq-health/mediq/internal/api"
	"github.com/mediq-health/mediq/internal/database"
	"github.com/mediq-health/mediq/internal/eda"
	"github.com/mediq-health/mediq/internal/render"
	"github.com/mediq-health/mediq/internal/session"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run an analysis against the selected research session",
}

var (
	datasetID    string
	columnsFlag  []string
	columnFlag   string
	binsFlag     int
	pctFlag      []float64
	xFlag        string
	yFlag        string
	groupFlag    string
	metricFlag   string
	rulesFlag    string
	unitFlag     string
	sectionsFlag []string
)

// runAnalysis drives the orchestrator for one request and records the result.
func runAnalysis(build func() (eda.Request, error)) error {
	req, err := build()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := session.NewStore(newClient(), db)
	if err != nil {
		return err
	}

	orch := eda.New(newClient(), store)
	result, err := orch.Run(context.Background(), req)
	if err != nil {
		if errors.Is(err, eda.ErrNoActiveSession) {
			return fmt.Errorf("%s (run 'mediq sessions list' or 'mediq sessions create')", err)
		}
		snap := orch.Snapshot()
		return fmt.Errorf("%s", snap.Err)
	}

	body := render.Markdown(req.Kind(), result)
	fmt.Println(body)

	if err := recordRun(db, store, req, result, body); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

func recordRun(db *database.DB, store *session.Store, req eda.Request, result any, body string) error {
	active := store.Active()
	if active == nil {
		return nil
	}

	params, err := json.Marshal(req)
	if err != nil {
		return err
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	paramsStr := string(params)
	return db.InsertRun(database.AnalysisRun{
		ID:           uuid.NewString(),
		SessionID:    active.ID,
		DatasetID:    eda.DatasetID(req),
		Kind:         string(req.Kind()),
		Params:       &paramsStr,
		Result:       string(resultJSON),
		BodyMarkdown: body,
	})
}

func requireDataset() error {
	if datasetID == "" {
		return fmt.Errorf("--dataset is required")
	}
	return nil
}

func requireColumn() error {
	if err := requireDataset(); err != nil {
		return err
	}
	if columnFlag == "" {
		return fmt.Errorf("--column is required")
	}
	return nil
}

func requireColumns() error {
	if err := requireDataset(); err != nil {
		return err
	}
	if len(columnsFlag) == 0 {
		return fmt.Errorf("--columns is required (comma-separated)")
	}
	return nil
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summary statistics for numeric columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireColumns(); err != nil {
				return nil, err
			}
			return eda.SummaryRequest{DatasetID: datasetID, Columns: columnsFlag}, nil
		})
	},
}

var uniqueCmd = &cobra.Command{
	Use:   "unique",
	Short: "Distinct values and their counts for a column",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireColumn(); err != nil {
				return nil, err
			}
			return eda.UniqueRequest{DatasetID: datasetID, Column: columnFlag}, nil
		})
	},
}

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "Missing-data percentages per column",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireColumns(); err != nil {
				return nil, err
			}
			return eda.MissingRequest{DatasetID: datasetID, Columns: columnsFlag}, nil
		})
	},
}

var histogramCmd = &cobra.Command{
	Use:   "histogram",
	Short: "Binned distribution of a numeric column",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireColumn(); err != nil {
				return nil, err
			}
			bins := binsFlag
			if bins == 0 {
				bins = cfg.Analysis.HistogramBins
			}
			return eda.HistogramRequest{DatasetID: datasetID, Column: columnFlag, Bins: bins}, nil
		})
	},
}

var boxplotCmd = &cobra.Command{
	Use:   "boxplot",
	Short: "Median, IQR, and outlier count for a column",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireColumn(); err != nil {
				return nil, err
			}
			return eda.BoxplotRequest{DatasetID: datasetID, Column: columnFlag}, nil
		})
	},
}

var percentilesCmd = &cobra.Command{
	Use:   "percentiles",
	Short: "Requested percentiles of a column",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireColumn(); err != nil {
				return nil, err
			}
			pct := pctFlag
			if len(pct) == 0 {
				pct = cfg.Analysis.Percentiles
			}
			return eda.PercentilesRequest{DatasetID: datasetID, Column: columnFlag, Percentiles: pct}, nil
		})
	},
}

var correlationCmd = &cobra.Command{
	Use:   "correlation",
	Short: "Pairwise correlation across columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireColumns(); err != nil {
				return nil, err
			}
			return eda.CorrelationRequest{DatasetID: datasetID, Columns: columnsFlag}, nil
		})
	},
}

var scatterCmd = &cobra.Command{
	Use:   "scatter",
	Short: "Binned scatter relationship between two columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireDataset(); err != nil {
				return nil, err
			}
			if xFlag == "" || yFlag == "" {
				return nil, fmt.Errorf("--x and --y are required")
			}
			return eda.ScatterRequest{DatasetID: datasetID, X: xFlag, Y: yFlag}, nil
		})
	},
}

var groupbyCmd = &cobra.Command{
	Use:   "groupby",
	Short: "Compare a metric across groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireDataset(); err != nil {
				return nil, err
			}
			if groupFlag == "" || metricFlag == "" {
				return nil, fmt.Errorf("--group and --metric are required")
			}
			return eda.GroupByRequest{DatasetID: datasetID, GroupColumn: groupFlag, MetricColumn: metricFlag}, nil
		})
	},
}

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Profile the rows matching filter rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireDataset(); err != nil {
				return nil, err
			}
			if rulesFlag == "" {
				return nil, fmt.Errorf(`--rules is required, e.g. '[{"column":"age","operator":">","value":40}]'`)
			}
			var rules []api.SegmentRule
			if err := json.Unmarshal([]byte(rulesFlag), &rules); err != nil {
				return nil, fmt.Errorf("parsing --rules: %w", err)
			}
			return eda.SegmentRequest{DatasetID: datasetID, Rules: rules}, nil
		})
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Mean of a column over time",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireColumn(); err != nil {
				return nil, err
			}
			unit := unitFlag
			if unit == "" {
				unit = cfg.Analysis.TimeUnit
			}
			return eda.TrendRequest{DatasetID: datasetID, Column: columnFlag, TimeUnit: unit}, nil
		})
	},
}

var outliersCmd = &cobra.Command{
	Use:   "outliers",
	Short: "Outlier count and expected range for a column",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireColumn(); err != nil {
				return nil, err
			}
			return eda.OutliersRequest{DatasetID: datasetID, Column: columnFlag}, nil
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a server-side report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(func() (eda.Request, error) {
			if err := requireDataset(); err != nil {
				return nil, err
			}
			if len(sectionsFlag) == 0 {
				return nil, fmt.Errorf("--sections is required (comma-separated)")
			}
			return eda.ReportRequest{DatasetID: datasetID, Sections: sectionsFlag}, nil
		})
	},
}

func init() {
	analyzeCmd.PersistentFlags().StringVarP(&datasetID, "dataset", "d", "", "Dataset id to analyze")

	for _, c := range []*cobra.Command{summaryCmd, missingCmd, correlationCmd} {
		c.Flags().StringSliceVar(&columnsFlag, "columns", nil, "Column names")
	}
	for _, c := range []*cobra.Command{uniqueCmd, histogramCmd, boxplotCmd, percentilesCmd, trendCmd, outliersCmd} {
		c.Flags().StringVar(&columnFlag, "column", "", "Column name")
	}
	histogramCmd.Flags().IntVar(&binsFlag, "bins", 0, "Bin count (default from config)")
	percentilesCmd.Flags().Float64SliceVar(&pctFlag, "percentiles", nil, "Percentiles to compute (default from config)")
	scatterCmd.Flags().StringVar(&xFlag, "x", "", "X column")
	scatterCmd.Flags().StringVar(&yFlag, "y", "", "Y column")
	groupbyCmd.Flags().StringVar(&groupFlag, "group", "", "Grouping column")
	groupbyCmd.Flags().StringVar(&metricFlag, "metric", "", "Metric column")
	segmentCmd.Flags().StringVar(&rulesFlag, "rules", "", "Filter rules as JSON")
	trendCmd.Flags().StringVar(&unitFlag, "unit", "", "Time unit: day, week, month, year (default from config)")
	reportCmd.Flags().StringSliceVar(&sectionsFlag, "sections", nil, "Report sections")

	analyzeCmd.AddCommand(summaryCmd)
	analyzeCmd.AddCommand(uniqueCmd)
	analyzeCmd.AddCommand(missingCmd)
	analyzeCmd.AddCommand(histogramCmd)
	analyzeCmd.AddCommand(boxplotCmd)
	analyzeCmd.AddCommand(percentilesCmd)
	analyzeCmd.AddCommand(correlationCmd)
	analyzeCmd.AddCommand(scatterCmd)
	analyzeCmd.AddCommand(groupbyCmd)
	analyzeCmd.AddCommand(segmentCmd)
	analyzeCmd.AddCommand(trendCmd)
	analyzeCmd.AddCommand(outliersCmd)
	analyzeCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(analyzeCmd)
}
