// Package main provides a performance benchmarking tool for the corrgraph CLI.
// It measures how long the correlation graph takes to build across repository
// sizes and graph stores: one full pass, an incremental build in fixed-size
// batches, an idle run with nothing new, and a query against the stored graph.
// Results are written as CSV for performance analysis and documentation.
//
// Prerequisites:
// - corrgraph binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one repository and store combination.
type BenchmarkResult struct {
	Repository       string
	Store            string
	FullTime         string
	IncrementalTime  string
	IncrementalRuns  int
	IdleTime         string
	TopTime          string
	ProcessedCommits string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase        string
	WorkDir         string
	Timeout         time.Duration
	FullRuns        int
	QueryRuns       int
	FullBatchSize   int
	StepBatchSize   int
	MaxSteps        int
	TestRepos       []string
	Stores          []string
	RepoBatchSizes  map[string]int
	NothingNewLabel string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	workDir, err := os.MkdirTemp("", "corrgraph-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	config := BenchmarkConfig{
		RepoBase:      repoBase,
		WorkDir:       workDir,
		Timeout:       10 * time.Minute,
		FullRuns:      3,
		QueryRuns:     4,
		FullBatchSize: 10000000,
		StepBatchSize: 1000,
		MaxSteps:      2000,
		TestRepos:     []string{"csv-parser", "fd", "git", "kubernetes"},
		Stores:        []string{"json", "sqlite"},
		RepoBatchSizes: map[string]int{
			"git":        5000,
			"kubernetes": 10000,
		},
		NothingNewLabel: "No new commits to process",
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that corrgraph binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("corrgraph"); err != nil {
		return fmt.Errorf("corrgraph binary not found in PATH")
	}

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured repositories and stores
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %d stores, %v timeout, full: %d runs, query: %d runs\n",
		len(config.TestRepos), len(config.Stores), config.Timeout, config.FullRuns, config.QueryRuns)

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		for _, store := range config.Stores {
			fmt.Printf("Benchmarking %s (%s store)\n", repo, store)
			results = append(results, runBenchmarkSuite(config, repo, repoPath, store))
		}
	}

	return results
}

// runBenchmarkSuite measures every phase for one repository and store
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, store string) BenchmarkResult {
	result := BenchmarkResult{Repository: repo, Store: store}

	// Phase 1: full build from an empty store, repeated
	fmt.Printf("  Full build phase (%d runs)\n", config.FullRuns)
	var fullTimes []float64
	for run := 1; run <= config.FullRuns; run++ {
		target := storeTarget(config, repo, store, fmt.Sprintf("full-%d", run))
		elapsed, output, ok := runCorrgraph(config, repoPath, store, target,
			"analyze", "--batch-size", strconv.Itoa(config.FullBatchSize), "--limit", "1")
		if ok {
			fullTimes = append(fullTimes, elapsed)
			result.ProcessedCommits = processedCommits(output)
		}
	}
	result.FullTime = average(fullTimes)

	// Phase 2: incremental build in fixed-size batches until nothing is left
	batchSize := config.StepBatchSize
	if size, ok := config.RepoBatchSizes[repo]; ok {
		batchSize = size
	}
	fmt.Printf("  Incremental phase (batch size %d)\n", batchSize)
	target := storeTarget(config, repo, store, "incremental")
	var total float64
	result.IncrementalTime = "TIMEOUT"
	for step := 1; step <= config.MaxSteps; step++ {
		elapsed, output, ok := runCorrgraph(config, repoPath, store, target,
			"analyze", "--batch-size", strconv.Itoa(batchSize), "--limit", "1")
		if !ok {
			break
		}
		if strings.Contains(output, config.NothingNewLabel) {
			result.IncrementalTime = fmt.Sprintf("%.3fs", total)
			result.IncrementalRuns = step - 1

			// Phase 3: the run that found nothing new is the idle timing
			result.IdleTime = fmt.Sprintf("%.3fs", elapsed)
			break
		}
		total += elapsed
	}
	if result.IdleTime == "" {
		result.IdleTime = "TIMEOUT"
	}

	// Phase 4: query the stored graph
	fmt.Printf("  Query phase (%d runs)\n", config.QueryRuns)
	var topTimes []float64
	for run := 1; run <= config.QueryRuns; run++ {
		elapsed, _, ok := runCorrgraph(config, repoPath, store, target, "top", "--limit", "20")
		if ok {
			topTimes = append(topTimes, elapsed)
		}
	}
	result.TopTime = average(topTimes)

	fmt.Printf("  Full: %s, Incremental: %s in %d runs, Idle: %s, Top: %s\n",
		result.FullTime, result.IncrementalTime, result.IncrementalRuns, result.IdleTime, result.TopTime)
	return result
}

// storeTarget returns a fresh graph location for the store under test
func storeTarget(config BenchmarkConfig, repo, store, phase string) string {
	if store == "sqlite" {
		return filepath.Join(config.WorkDir, fmt.Sprintf("%s-%s.db", repo, phase))
	}
	return filepath.Join(config.WorkDir, fmt.Sprintf("%s-%s.json", repo, phase))
}

// runCorrgraph executes one corrgraph command and returns its elapsed seconds and output
func runCorrgraph(config BenchmarkConfig, repoPath, store, target string, args ...string) (float64, string, bool) {
	args = append(args, "--store", store)
	if store == "sqlite" {
		args = append(args, "--store-connect", target)
	} else {
		args = append(args, "--graph-file", target)
	}

	cmd := exec.Command("corrgraph", args...)
	cmd.Dir = repoPath

	done := make(chan bool)
	var output []byte
	var cmdErr error

	start := time.Now()
	go func() {
		output, cmdErr = cmd.CombinedOutput()
		done <- true
	}()

	select {
	case <-done:
		if cmdErr != nil {
			fmt.Printf("    corrgraph %s failed: %v\n", strings.Join(args, " "), cmdErr)
			return 0, string(output), false
		}
		return time.Since(start).Seconds(), string(output), true
	case <-time.After(config.Timeout):
		_ = cmd.Process.Kill()
		<-done
		return 0, "", false
	}
}

// processedCommits extracts the commit total from the analysis header
func processedCommits(output string) string {
	for line := range strings.SplitSeq(output, "\n") {
		if _, rest, ok := strings.Cut(line, "(total: "); ok {
			if total, _, ok := strings.Cut(rest, ","); ok {
				return total
			}
		}
	}
	return "unknown"
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/corrgraph_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"repo", "store", "commits", "full_avg", "incremental_total", "incremental_runs", "idle", "top_avg"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		record := []string{
			r.Repository, r.Store, r.ProcessedCommits, r.FullTime,
			r.IncrementalTime, strconv.Itoa(r.IncrementalRuns), r.IdleTime, r.TopTime,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, store := range []string{"json", "sqlite"} {
		fmt.Printf("%s store:\n", store)
		for _, r := range results {
			if r.Store == store {
				fmt.Printf("  %-12s: Commits: %s, Full: %s, Incremental: %s (%d runs), Idle: %s, Top: %s\n",
					r.Repository, r.ProcessedCommits, r.FullTime, r.IncrementalTime, r.IncrementalRuns, r.IdleTime, r.TopTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
