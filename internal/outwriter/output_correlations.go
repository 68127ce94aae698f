package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/internal/parquet"
	"github.com/egorpavlikhin/git-correlation-graph/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Width of the Rank, Correlation, Co-Commits, Min Commits and Level columns.
const correlationFixedWidth = 52

// correlationCSVHeader is shared by the top and related reports.
var correlationCSVHeader = []string{"rank", "source", "target", "correlation", "co_commits", "min_commits", "level"}

// PrintCorrelationResults outputs ranked pairs, dispatching based on the output format configured.
func PrintCorrelationResults(results []schema.CorrelationResult, meta schema.ReportMeta, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, results)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCorrelationCSV(w, results, cfg)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetReport(cfg.OutputFile, func(path string) error {
			return parquet.WriteCorrelationsParquet(parquet.ConvertCorrelationResults(results), path)
		})
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCorrelationTable(w, results, meta, cfg, duration)
		}, "Wrote table")
	}
}

// PrintRelatedResults outputs the ranked neighbours of one file.
// Text output drops the source column because it is always path.
func PrintRelatedResults(path string, results []schema.CorrelationResult, meta schema.ReportMeta, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output != schema.TextOut && cfg.Output != "" {
		return PrintCorrelationResults(results, meta, cfg, duration)
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeRelatedTable(w, path, results, meta, cfg, duration)
	}, "Wrote table")
}

// writeCorrelationCSV writes ranked pairs in CSV format.
func writeCorrelationCSV(w io.Writer, results []schema.CorrelationResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return writeCSVWithHeader(w, correlationCSVHeader, func(cw *csv.Writer) error {
		for _, r := range results {
			rec := []string{
				strconv.Itoa(r.Rank),
				r.Source,
				r.Target,
				fmtFloat(r.Correlation),
				strconv.Itoa(r.CoCommits),
				strconv.Itoa(r.MinCommits),
				string(r.Level),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCorrelationTable generates and writes the human-readable table.
func writeCorrelationTable(w io.Writer, results []schema.CorrelationResult, meta schema.ReportMeta, cfg *contract.Config, duration time.Duration) error {
	if err := writeTitle(w, meta.Title); err != nil {
		return err
	}
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No correlations recorded yet.")
		return err
	}

	_, fmtPercent := createFormatters(cfg.Precision)
	pathWidth := GetMaxTablePathWidth(cfg, correlationFixedWidth, 2)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Source", "Target", "Correlation", "Co-Commits", "Min Commits", "Level"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(results))
	for _, r := range results {
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			contract.TruncatePath(r.Source, pathWidth),
			contract.TruncatePath(r.Target, pathWidth),
			fmtPercent(r.Correlation),
			strconv.Itoa(r.CoCommits),
			strconv.Itoa(r.MinCommits),
			levelLabel(r.Correlation, cfg),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeReportFooter(w, len(results), meta, duration)
}

// writeRelatedTable renders the neighbours of path.
func writeRelatedTable(w io.Writer, path string, results []schema.CorrelationResult, meta schema.ReportMeta, cfg *contract.Config, duration time.Duration) error {
	if err := writeTitle(w, meta.Title); err != nil {
		return err
	}
	if len(results) == 0 {
		_, err := fmt.Fprintf(w, "No files have been committed together with %s.\n", path)
		return err
	}

	_, fmtPercent := createFormatters(cfg.Precision)
	pathWidth := GetMaxTablePathWidth(cfg, correlationFixedWidth, 1)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "File", "Correlation", "Co-Commits", "Min Commits", "Level"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(results))
	for _, r := range results {
		other := r.Target
		if other == path {
			other = r.Source
		}
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			contract.TruncatePath(other, pathWidth),
			fmtPercent(r.Correlation),
			strconv.Itoa(r.CoCommits),
			strconv.Itoa(r.MinCommits),
			levelLabel(r.Correlation, cfg),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeReportFooter(w, len(results), meta, duration)
}

func writeTitle(w io.Writer, title string) error {
	if title == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, title)
	return err
}

func writeReportFooter(w io.Writer, shown int, meta schema.ReportMeta, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Showing %d of %d correlations (files: %d, commits processed: %d)\n",
		shown, meta.TotalEdges, meta.TotalFiles, meta.TotalCommits); err != nil {
		return err
	}
	last := meta.LastCommitHash
	if last == "" {
		last = "none"
	}
	_, err := fmt.Fprintf(w, "Report built in %v. Last processed commit: %s\n", duration.Round(time.Millisecond), last)
	return err
}

// levelLabel returns the level of a correlation, colored when enabled.
func levelLabel(correlation float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(correlation)
	}
	return contract.GetPlainLabel(correlation)
}
