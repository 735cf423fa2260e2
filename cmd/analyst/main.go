package main

import (
	"os"

	"github.com/wonny/analystlens/cmd/analyst/commands"
)

// main is the entry point for the AnalystLens CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/analyst [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
