// main is the entry point for the corrgraph CLI.
package main

import (
	"github.com/egorpavlikhin/git-correlation-graph/cmd"
	"github.com/egorpavlikhin/git-correlation-graph/internal/contract"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Error", err)
	}
}
