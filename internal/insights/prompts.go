package insights

import (
	"fmt"
	"strings"
)

const scorecardSystemPrompt = "You are an expert at evaluating equity research analysts. Return only valid JSON."

const scorecardPromptHeader = `You are evaluating the style and skill of an equity research analyst based ONLY on the questions they ask on earnings calls.

You will be given one or more questions asked by a single analyst. Ignore management answers. Rate the analyst along general behavioral dimensions AND finance-specific analytical dimensions.

Return ONLY valid JSON following the schema at the end.

## GENERAL DIMENSIONS (1–5)

1. politeness_respect
2. aggressiveness_pressure
3. analytical_depth
4. preparation_company_knowledge
5. clarity_structure
6. constructiveness

## FINANCE-SPECIFIC DIMENSIONS (1–5)

7. accounting_skepticism
   - Probing on accounting quality, KPIs, margins, working capital, adjustments.

8. guidance_interrogation
   - How well they drill into forward guidance, embedded assumptions, bridges.

9. risk_focus
   - Attention to demand risk, execution risk, regulatory risk, supply chain, macro.

10. capital_allocation_focus
   - Depth of questions on capex, leverage, buybacks, dividends, ROIC, M&A.

11. industry_contextualization
   - References to peers, competitive dynamics, regulatory environment, global macro.

12. model_rigorousness
   - Use of numbers, deltas, decomposition, margin math, sensitivity analysis.

For each dimension:
- Score 1–5
- 1–3 sentence explanation
- 1–3 short evidence snippets

## ADDITIONAL LABELS
- overall_style_label (short tag: e.g., "analytical-and-tough", "polite-and-generic")
- key_strengths (2–4 bullets)
- key_weaknesses (2–4 bullets)
- notable_questions (2–5 items: snippet + why it stands out)

## OUTPUT SCHEMA (JSON ONLY)

{
  "analyst_name": "<string or null>",
  "num_questions": <int>,
  "scores": {
%s
  },
  "overall_style_label": "<string>",
  "key_strengths": ["<string>", "..."],
  "key_weaknesses": ["<string>", "..."],
  "notable_questions": [
    {"reference": "<snippet>", "comment": "<string>"},
    ...
  ]
}

Here are the analyst's questions:

`

// BuildScorecardPrompt renders the user prompt with numbered questions
func BuildScorecardPrompt(questions []string) string {
	schema := make([]string, len(Dimensions))
	for i, d := range Dimensions {
		schema[i] = fmt.Sprintf(`    "%s": {"score": <int>, "explanation": "<string>", "evidence": ["<string>", ...]}`, d)
	}

	numbered := make([]string, len(questions))
	for i, q := range questions {
		numbered[i] = fmt.Sprintf("Question %d: %s", i+1, q)
	}

	return fmt.Sprintf(scorecardPromptHeader, strings.Join(schema, ",\n")) + strings.Join(numbered, "\n\n")
}

// BuildChatSystemPrompt embeds the commentary context for chat
func BuildChatSystemPrompt(commentary string) string {
	return `You are an AI assistant helping users understand and analyze an analyst's earnings call commentary.

The analyst has made the following comments during earnings calls:

` + commentary + `

Answer questions about the analyst's commentary, insights, and perspectives. Be specific and cite examples from their actual comments when possible. If asked about something not in their commentary, let the user know.`
}
