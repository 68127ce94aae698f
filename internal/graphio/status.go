package graphio

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/egorpavlikhin/git-correlation-graph/schema"
)

// PrintStoreStatus prints graph store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Location: %s\n", status.Location)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	if status.TotalGraphs > 1 {
		fmt.Printf("Graphs Stored: %s\n", humanize.Comma(int64(status.TotalGraphs)))
	}
	if status.SizeBytes > 0 {
		fmt.Printf("Size: %s\n", humanize.Bytes(uint64(status.SizeBytes)))
	}
	if !status.Exists {
		fmt.Println("Graph: not yet built")
		return
	}
	fmt.Printf("Files: %s\n", humanize.Comma(int64(status.TotalNodes)))
	fmt.Printf("Edges: %s\n", humanize.Comma(int64(status.TotalEdges)))
	fmt.Printf("Commits Processed: %s\n", humanize.Comma(int64(status.TotalCommits)))
	if status.LastCommitHash != "" {
		fmt.Printf("Last Commit: %s (%s)\n", status.LastCommitHash, humanizeTime(status.LastCommitDate))
	}
	if !status.UpdatedAt.IsZero() {
		fmt.Printf("Updated: %s\n", humanizeTime(status.UpdatedAt))
	}
}

func humanizeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%s, %s", t.Format("2006-01-02 15:04:05"), humanize.Time(t))
}
