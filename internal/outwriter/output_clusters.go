package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/internal/parquet"
	"github.com/egorpavlikhin/git-correlation-graph/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Width of the Correlation and Co-Commits columns of a cluster table.
const clusterFixedWidth = 26

// PrintClusterResults outputs file clusters, dispatching based on the output format configured.
func PrintClusterResults(clusters []schema.ClusterResult, meta schema.ReportMeta, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, clusters)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, clusters)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeClusterCSV(w, clusters)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquetReport(cfg.OutputFile, func(path string) error {
			return parquet.WriteClustersParquet(parquet.ConvertClusterResults(clusters), path)
		})
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeClusterText(w, clusters, meta, cfg, duration)
		}, "Wrote table")
	}
}

// writeClusterCSV writes one row per cluster member.
func writeClusterCSV(w io.Writer, clusters []schema.ClusterResult) error {
	header := []string{"cluster_id", "cluster_size", "file", "commit_count"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range clusters {
			for _, f := range c.Files {
				rec := []string{
					strconv.Itoa(c.ID),
					strconv.Itoa(c.Size),
					f.Path,
					strconv.Itoa(f.CommitCount),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeClusterText prints each cluster's members followed by its strong connections.
func writeClusterText(w io.Writer, clusters []schema.ClusterResult, meta schema.ReportMeta, cfg *contract.Config, duration time.Duration) error {
	if err := writeTitle(w, meta.Title); err != nil {
		return err
	}
	if len(clusters) == 0 {
		_, err := fmt.Fprintln(w, "No clusters found. Try lowering --min-correlation or --min-commits.")
		return err
	}

	_, fmtPercent := createFormatters(cfg.Precision)
	pathWidth := GetMaxTablePathWidth(cfg, clusterFixedWidth, 2)

	for _, c := range clusters {
		members := make([]string, len(c.Files))
		for i, f := range c.Files {
			members[i] = fmt.Sprintf("%s (%d)", f.Path, f.CommitCount)
		}
		if _, err := fmt.Fprintf(w, "\n🧩 Cluster %d: %d files\n   %s\n", c.ID, c.Size, strings.Join(members, ", ")); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Source", "Target", "Correlation", "Co-Commits"})
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignRight
		})
		data := make([][]string, 0, len(c.Connections))
		for _, conn := range c.Connections {
			data = append(data, []string{
				contract.TruncatePath(conn.Source, pathWidth),
				contract.TruncatePath(conn.Target, pathWidth),
				fmtPercent(conn.Correlation),
				strconv.Itoa(conn.CoCommits),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Found %d clusters among %d files in %v\n", len(clusters), meta.TotalFiles, duration.Round(time.Millisecond))
	return err
}
