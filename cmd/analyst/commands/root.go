package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "AnalystLens - sell-side analyst track records",
	Long: `AnalystLens Unified CLI

애널리스트 목표주가 예측의 실현 수익률과 정확도를 계산하고,
어닝콜 질문을 LLM으로 분석하는 대시보드 백엔드.

Usage:
  go run ./cmd/analyst [command]

Examples:
  go run ./cmd/analyst api
  go run ./cmd/analyst scheduler start
  go run ./cmd/analyst search "smith"
  go run ./cmd/analyst predictions 1234 --page 2
  go run ./cmd/analyst test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug|info|warn|error)")
}
