package earnings

import (
	"fmt"
	"strings"

	"github.com/wonny/analystlens/internal/contracts"
)

// UnknownDate labels a question without a call date
const UnknownDate = "Unknown date"

const blockSeparator = "\n---\n\n"

// BuildChatContext renders questions as the chat system context:
//
//	[2023-04-27 - AAPL]
//	question text
//
// with blocks joined by a "---" line. Input order is kept.
func BuildChatContext(questions []contracts.EarningsQuestion) string {
	blocks := make([]string, len(questions))
	for i, q := range questions {
		date := UnknownDate
		if q.AskedAt != nil && !q.AskedAt.IsZero() {
			date = q.AskedAt.UTC().Format(contracts.DateLayout)
		}
		blocks[i] = fmt.Sprintf("[%s - %s]\n%s\n", date, q.Ticker, q.Text)
	}
	return strings.Join(blocks, blockSeparator)
}

// QuestionTexts returns the non-blank question previews for scorecard input
func QuestionTexts(questions []contracts.EarningsQuestion) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		out = append(out, q.Text)
	}
	return out
}
