package outwriter

import (
	"os"

	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
	"golang.org/x/term"
)

// Column budgets used when splitting the terminal between path columns.
const (
	fallbackTermWidth = 80 // Conservative default for narrow terminals and CI
	minPathWidth      = 15
	maxPathWidth      = 60
	tableChromeWidth  = 20 // Borders, separators and padding
)

// GetMaxTablePathWidth calculates the maximum width of each path column in
// table output. fixedWidth is the room taken by the non-path columns and
// pathColumns is how many path columns share what is left.
func GetMaxTablePathWidth(cfg *contract.Config, fixedWidth, pathColumns int) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = fallbackTermWidth
		} else {
			termWidth = detectedWidth
		}
	}

	pathColumns = max(pathColumns, 1)
	available := (termWidth - fixedWidth - tableChromeWidth) / pathColumns
	if available < minPathWidth {
		return minPathWidth
	}
	if available > maxPathWidth {
		return maxPathWidth
	}
	return available
}
