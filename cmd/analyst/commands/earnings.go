package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/analystlens/internal/earnings"
	"github.com/wonny/analystlens/internal/insights"
)

// earningsCmd represents the earnings command
var earningsCmd = &cobra.Command{
	Use:   "earnings [analyst_id]",
	Short: "어닝콜 질문 조회",
	Args:  cobra.ExactArgs(1),
	RunE:  runEarnings,
}

// scorecardCmd represents the scorecard command
var scorecardCmd = &cobra.Command{
	Use:   "scorecard [analyst_id]",
	Short: "LLM 질문 스타일 스코어카드",
	Long: `애널리스트의 모든 어닝콜 질문을 LLM으로 분석합니다.
OPENAI_API_KEY가 필요합니다.

Example:
  go run ./cmd/analyst scorecard 1234`,
	Args: cobra.ExactArgs(1),
	RunE: runScorecard,
}

var earningsPage int

func init() {
	rootCmd.AddCommand(earningsCmd)
	rootCmd.AddCommand(scorecardCmd)

	earningsCmd.Flags().IntVar(&earningsPage, "page", 1, "페이지 (1부터)")
}

func runEarnings(cmd *cobra.Command, args []string) error {
	analystID, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.earnings.Page(cmd.Context(), analystID, earningsPage-1)
	if err != nil {
		return fmt.Errorf("load earnings questions: %w", err)
	}

	PrintHeader(fmt.Sprintf("Analyst #%d earnings questions (%d-%d of %d)", analystID, page.From, page.To, page.Total))
	for _, q := range page.Items {
		date := earnings.UnknownDate
		if q.AskedAt != nil {
			date = q.AskedAt.UTC().Format("2006-01-02")
		}
		fmt.Printf("[%s - %s]\n%s\n\n", date, q.Ticker, q.Text)
	}
	return nil
}

func runScorecard(cmd *cobra.Command, args []string) error {
	analystID, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	profile, err := a.analysts.Profile(ctx, analystID)
	if err != nil {
		return fmt.Errorf("load analyst: %w", err)
	}
	questions, err := a.earnings.All(ctx, analystID)
	if err != nil {
		return fmt.Errorf("load earnings questions: %w", err)
	}

	card, err := a.analyzer.Scorecard(ctx, analystID, profile.Analyst.FullName, earnings.QuestionTexts(questions))
	switch {
	case errors.Is(err, insights.ErrNoQuestions):
		fmt.Println("No earnings questions on record")
		return nil
	case err != nil:
		return fmt.Errorf("scorecard: %w", err)
	}

	PrintHeader(fmt.Sprintf("%s - %s (%d questions)", profile.Analyst.FullName, card.OverallStyleLabel, card.NumQuestions))
	for _, dim := range insights.Dimensions {
		score, ok := card.Scores[dim]
		value := "-"
		if ok {
			value = strconv.FormatFloat(score.Score, 'g', -1, 64) + "  " + score.Explanation
		}
		PrintKeyValue(dim, value, 24)
	}

	if len(card.KeyStrengths) > 0 {
		fmt.Println("\nStrengths:")
		PrintList(card.KeyStrengths)
	}
	if len(card.KeyWeaknesses) > 0 {
		fmt.Println("\nWeaknesses:")
		PrintList(card.KeyWeaknesses)
	}
	return nil
}
