// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"os"
	"time"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

var _ contract.ResultWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCorrelations prints ranked file pairs using the configured output format.
func (ow *OutWriter) WriteCorrelations(results []schema.CorrelationResult, meta schema.ReportMeta, cfg *contract.Config, duration time.Duration) error {
	return PrintCorrelationResults(results, meta, cfg, duration)
}

// WriteRelated prints the neighbours of one file using the configured output format.
func (ow *OutWriter) WriteRelated(path string, results []schema.CorrelationResult, meta schema.ReportMeta, cfg *contract.Config, duration time.Duration) error {
	return PrintRelatedResults(path, results, meta, cfg, duration)
}

// WriteClusters prints file clusters using the configured output format.
func (ow *OutWriter) WriteClusters(clusters []schema.ClusterResult, meta schema.ReportMeta, cfg *contract.Config, duration time.Duration) error {
	return PrintClusterResults(clusters, meta, cfg, duration)
}

// writeParquetReport runs write against the output file and reports where it went.
// Parquet needs a seekable file, so stdout is never an option.
func writeParquetReport(outputFile string, write func(path string) error) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	if err := write(outputFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}
