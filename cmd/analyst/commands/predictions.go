package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/analystlens/internal/accuracy"
)

// predictionsCmd represents the predictions command
var predictionsCmd = &cobra.Command{
	Use:   "predictions [analyst_id]",
	Short: "애널리스트 예측 이력 조회",
	Long: `목표주가 예측 한 페이지를 실현 수익률/정확도와 함께 표시합니다.

Columns:
  Start   - 발표일 이후 첫 종가
  End     - 만기일 이전 마지막 종가
  Return  - 방향 기준 실현 수익률
  Acc     - 만기 종가 대비 목표가 오차 (0에 가까울수록 정확)

Example:
  go run ./cmd/analyst predictions 1234
  go run ./cmd/analyst predictions 1234 --page 2`,
	Args: cobra.ExactArgs(1),
	RunE: runPredictions,
}

var predictionsPage int

func init() {
	rootCmd.AddCommand(predictionsCmd)

	predictionsCmd.Flags().IntVar(&predictionsPage, "page", 1, "페이지 (1부터)")
}

func runPredictions(cmd *cobra.Command, args []string) error {
	analystID, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	history, err := a.predictions.Page(cmd.Context(), analystID, predictionsPage-1)
	if err != nil {
		return fmt.Errorf("load predictions: %w", err)
	}

	PrintHeader(fmt.Sprintf("Analyst #%d predictions (page %d/%d, %d total)",
		analystID, history.Page.Page+1, max(history.TotalPages, 1), history.Total))

	widths := []int{10, 8, 9, 9, 9, 9, 9, 9}
	PrintTableHeader([]string{"Date", "Ticker", "Horizon", "Target", "Start", "End", "Return", "Acc"}, widths)
	for _, p := range history.Items {
		m := p.PredictionMetrics.Finite()
		target := p.Value
		PrintTableRow([]string{
			p.AnnouncedAt.String(),
			p.Ticker,
			accuracy.FormatHorizon(p.Horizon),
			accuracy.FormatPrice(&target),
			accuracy.FormatPrice(m.StartPrice),
			accuracy.FormatPrice(m.EndPrice),
			accuracy.FormatPercent(m.ReturnPct),
			accuracy.FormatPercent(m.AccuracyPct),
		}, widths)
	}

	s := history.Summary
	PrintSeparator()
	fmt.Printf("Favorable: %d/%d  Close: %d/%d  Mean return: %s  Mean |acc|: %s\n",
		s.Favorable, s.WithReturn, s.Close, s.WithAccuracy,
		accuracy.FormatPercent(s.MeanReturnPct), accuracy.FormatPercent(s.MeanAbsAccuracyPct))
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid analyst id %q", arg)
	}
	return id, nil
}
