package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wonny/analystlens/pkg/logger"
	"github.com/wonny/analystlens/pkg/redis"
)

// Dimensions are the scored axes, general first then finance-specific
var Dimensions = []string{
	"politeness_respect",
	"aggressiveness_pressure",
	"analytical_depth",
	"preparation_company_knowledge",
	"clarity_structure",
	"constructiveness",
	"accounting_skepticism",
	"guidance_interrogation",
	"risk_focus",
	"capital_allocation_focus",
	"industry_contextualization",
	"model_rigorousness",
}

// DimensionScore is one 1-5 rating with its reasoning.
// Models sometimes answer with half points, so Score is fractional.
type DimensionScore struct {
	Score       float64  `json:"score"`
	Explanation string   `json:"explanation"`
	Evidence    []string `json:"evidence"`
}

// NotableQuestion is a quoted question and why it stands out
type NotableQuestion struct {
	Reference string `json:"reference"`
	Comment   string `json:"comment"`
}

// Scorecard is the model's assessment of an analyst.
// The typed fields are a lenient reading of the model output; the object
// itself is passed through unchanged on the wire, extra keys included.
type Scorecard struct {
	AnalystName       *string
	NumQuestions      int
	Scores            map[string]DimensionScore
	OverallStyleLabel string
	KeyStrengths      []string
	KeyWeaknesses     []string
	NotableQuestions  []NotableQuestion

	raw map[string]any
}

// MissingDimensions lists the axes the model did not score
func (s *Scorecard) MissingDimensions() []string {
	var missing []string
	for _, d := range Dimensions {
		if _, ok := s.Scores[d]; !ok {
			missing = append(missing, d)
		}
	}
	return missing
}

// SetAnalystName fills analyst_name in both views of the card
func (s *Scorecard) SetAnalystName(name string) {
	s.AnalystName = &name
	if s.raw == nil {
		s.raw = map[string]any{}
	}
	s.raw["analyst_name"] = name
}

// MarshalJSON writes the model object as received. A card built in code
// (no model object behind it) is written from its typed fields.
func (s Scorecard) MarshalJSON() ([]byte, error) {
	if s.raw != nil {
		return json.Marshal(s.raw)
	}
	return json.Marshal(struct {
		AnalystName       *string                   `json:"analyst_name"`
		NumQuestions      int                       `json:"num_questions"`
		Scores            map[string]DimensionScore `json:"scores"`
		OverallStyleLabel string                    `json:"overall_style_label"`
		KeyStrengths      []string                  `json:"key_strengths"`
		KeyWeaknesses     []string                  `json:"key_weaknesses"`
		NotableQuestions  []NotableQuestion         `json:"notable_questions"`
	}{s.AnalystName, s.NumQuestions, s.Scores, s.OverallStyleLabel, s.KeyStrengths, s.KeyWeaknesses, s.NotableQuestions})
}

// UnmarshalJSON accepts any JSON object and reads what it can
func (s *Scorecard) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	*s = scorecardFromMap(raw)
	return nil
}

func scorecardFromMap(raw map[string]any) Scorecard {
	card := Scorecard{
		NumQuestions:      int(asNumber(raw["num_questions"])),
		Scores:            map[string]DimensionScore{},
		OverallStyleLabel: asString(raw["overall_style_label"]),
		KeyStrengths:      asStrings(raw["key_strengths"]),
		KeyWeaknesses:     asStrings(raw["key_weaknesses"]),
		raw:               raw,
	}
	if name, ok := raw["analyst_name"].(string); ok {
		card.AnalystName = &name
	}

	if scores, ok := raw["scores"].(map[string]any); ok {
		for dim, v := range scores {
			switch sv := v.(type) {
			case map[string]any:
				card.Scores[dim] = DimensionScore{
					Score:       asNumber(sv["score"]),
					Explanation: asString(sv["explanation"]),
					Evidence:    asStrings(sv["evidence"]),
				}
			default:
				// bare "dimension": 4
				card.Scores[dim] = DimensionScore{Score: asNumber(sv)}
			}
		}
	}

	if notable, ok := raw["notable_questions"].([]any); ok {
		for _, v := range notable {
			switch nv := v.(type) {
			case map[string]any:
				card.NotableQuestions = append(card.NotableQuestions, NotableQuestion{
					Reference: asString(nv["reference"]),
					Comment:   asString(nv["comment"]),
				})
			default:
				if ref := asString(nv); ref != "" {
					card.NotableQuestions = append(card.NotableQuestions, NotableQuestion{Reference: ref})
				}
			}
		}
	}
	return card
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// asNumber reads numbers and numeric strings; anything else is 0
func asNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// asStrings accepts a list or a single value
func asStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := asString(t); s != "" {
			return []string{s}
		}
		return nil
	}
}

// Analyzer runs scorecards and chat against a Completer
type Analyzer struct {
	completer Completer
	cache     *redis.Cache
	log       *logger.Logger
}

// NewAnalyzer creates an Analyzer. completer may be nil when no provider
// is configured; every call then fails with ErrNotConfigured.
func NewAnalyzer(completer Completer, cache *redis.Cache, log *logger.Logger) *Analyzer {
	return &Analyzer{
		completer: completer,
		cache:     cache,
		log:       log.WithComponent("insights.analyzer"),
	}
}

// Configured reports whether a completion provider is available
func (a *Analyzer) Configured() bool {
	return a.completer != nil
}

// Scorecard rates an analyst from their questions.
// analystID keys the cache; pass 0 for ad-hoc question sets.
func (a *Analyzer) Scorecard(ctx context.Context, analystID int64, analystName string, questions []string) (*Scorecard, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if a.completer == nil {
		return nil, ErrNotConfigured
	}

	key := redis.ScorecardKey(analystID, digest(analystName, questions))
	var cached Scorecard
	found, err := a.cache.Get(ctx, key, &cached)
	if err != nil {
		a.log.WithError(err).Warn("scorecard cache read failed")
	}
	if found {
		return &cached, nil
	}

	text, err := a.completer.Complete(ctx, CompletionRequest{
		Operation: "scorecard",
		Messages: []Message{
			{Role: RoleSystem, Content: scorecardSystemPrompt},
			{Role: RoleUser, Content: BuildScorecardPrompt(questions)},
		},
		Temperature: 0.3,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	card, err := parseScorecard(text)
	if err != nil {
		return nil, err
	}
	if (card.AnalystName == nil || *card.AnalystName == "") && analystName != "" {
		card.SetAnalystName(analystName)
	}

	if missing := card.MissingDimensions(); len(missing) > 0 {
		a.log.WithContext(ctx).WithField("missing", missing).Warn("scorecard is missing dimensions")
	}

	if err := a.cache.Set(ctx, key, card, redis.TTLDaily); err != nil {
		a.log.WithError(err).Warn("scorecard cache write failed")
	}
	return card, nil
}

// parseScorecard decodes the model output; blank output is an empty card.
// Only output that is not a JSON object is an error.
func parseScorecard(text string) (*Scorecard, error) {
	var card Scorecard
	if strings.TrimSpace(text) == "" {
		card.raw = map[string]any{}
		return &card, nil
	}
	if err := json.Unmarshal([]byte(text), &card); err != nil {
		return nil, fmt.Errorf("decode scorecard: %w", err)
	}
	return &card, nil
}

// digest identifies a question set for caching
func digest(analystName string, questions []string) string {
	h := sha256.New()
	h.Write([]byte(analystName))
	for _, q := range questions {
		h.Write([]byte{0})
		h.Write([]byte(q))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Chat answers the latest user turn with the commentary as system context.
// The reply is the assistant text.
func (a *Analyzer) Chat(ctx context.Context, commentary string, messages []Message) (string, error) {
	if a.completer == nil {
		return "", ErrNotConfigured
	}

	convo := make([]Message, 0, len(messages)+1)
	convo = append(convo, Message{Role: RoleSystem, Content: BuildChatSystemPrompt(commentary)})
	convo = append(convo, messages...)

	return a.completer.Complete(ctx, CompletionRequest{
		Operation:   "chat",
		Messages:    convo,
		Temperature: 0.7,
		MaxTokens:   500,
	})
}
