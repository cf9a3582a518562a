// Package evaluator scores a candidate translation against its source
// across nine fixed quality dimensions using a structured language-model
// prompt. Parsing is strict: a response missing any metric, or with a score
// outside 1..5, is a ParseError — never a partially-populated scorecard.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/msolvik/fintrans/internal/llm"
	"github.com/msolvik/fintrans/internal/models"
	"github.com/msolvik/fintrans/internal/postprocess"
	"github.com/msolvik/fintrans/internal/rules"
)

// Metric is one of the nine fixed quality dimensions. Dimensions are not
// fungible: a fluent but inaccurate translation must stay distinguishable
// from an accurate but awkward one.
type Metric string

const (
	Accuracy                  Metric = "accuracy"
	Fluency                   Metric = "fluency"
	Adequacy                  Metric = "adequacy"
	Consistency               Metric = "consistency"
	ContextualAppropriateness Metric = "contextual_appropriateness"
	TerminologyAccuracy       Metric = "terminology_accuracy"
	Readability               Metric = "readability"
	FormatPreservation        Metric = "format_preservation"
	ErrorRate                 Metric = "error_rate"
)

// Metrics returns the nine metrics in their canonical order.
func Metrics() []Metric {
	return []Metric{
		Accuracy, Fluency, Adequacy, Consistency, ContextualAppropriateness,
		TerminologyAccuracy, Readability, FormatPreservation, ErrorRate,
	}
}

// metricHints describe each dimension inside the prompt.
var metricHints = map[Metric]string{
	Accuracy:                  "semantic correctness of the translation",
	Fluency:                   "grammatical quality and naturalness",
	Adequacy:                  "completeness of the conveyed information",
	Consistency:               "uniform terminology and style throughout",
	ContextualAppropriateness: "suitability for financial/investment content",
	TerminologyAccuracy:       "correct use of domain terminology",
	Readability:               "ease of reading for a native speaker",
	FormatPreservation:        "preservation of placeholders, numbers and structure",
	ErrorRate:                 "freedom from errors (5 = error-free)",
}

// Score is one scored metric with its justification.
type Score struct {
	Metric      Metric `json:"metric"`
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// Scorecard holds all nine metric scores for one (source, translation)
// pair, plus the model's overall comments.
type Scorecard struct {
	Scores   map[Metric]Score `json:"scores"`
	Comments string           `json:"comments,omitempty"`
}

// ParseError reports a model response that did not contain all nine metrics
// in range. Raw carries the response for diagnostics.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("evaluation response unusable: %s", e.Reason)
}

// Engine issues scoring prompts and parses scorecards.
type Engine struct {
	client   llm.Client
	registry *models.Registry
}

func New(client llm.Client, registry *models.Registry) *Engine {
	return &Engine{client: client, registry: registry}
}

// Evaluate scores candidate as a translation of source into targetLang.
// modelID selects the scoring model explicitly; when empty the tier policy
// routes by language. The returned CostInfo is valid even when parsing
// fails — the call was made and must be accounted.
func (e *Engine) Evaluate(ctx context.Context, source, candidate, targetLang, modelID string) (*Scorecard, models.CostInfo, error) {
	cfg, err := e.registry.Resolve(modelID, targetLang)
	if err != nil {
		return nil, models.CostInfo{}, err
	}

	name := rules.LanguageName(targetLang)

	completion, err := e.client.Complete(ctx, llm.Request{
		Model:      cfg.ID,
		System:     fmt.Sprintf("You are a %s language expert evaluating financial translations. Respond only with the exact JSON object requested.", name),
		Prompt:     buildPrompt(name, targetLang, source, candidate),
		JSONFormat: true,
	})
	if err != nil {
		return nil, models.CostInfo{}, err
	}

	cost := models.NewCostInfo(cfg, completion.InputTokens, completion.OutputTokens)

	card, err := parseScorecard(completion.Content)
	if err != nil {
		return nil, cost, err
	}
	return card, cost, nil
}

func buildPrompt(name, code, source, candidate string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Evaluate the following translation from English to %s in the context of financial and investment content.\n\n", name))
	sb.WriteString(fmt.Sprintf("Original English text: %s\n", source))
	sb.WriteString(fmt.Sprintf("%s translation: %s\n\n", name, candidate))

	sb.WriteString("Score each of these dimensions as an integer from 1 (worst) to 5 (best) with a short justification:\n")
	for _, m := range Metrics() {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", m, metricHints[m]))
	}

	sb.WriteString("\nRespond ONLY with JSON of this exact shape:\n{\n")
	for _, m := range Metrics() {
		sb.WriteString(fmt.Sprintf("  %q: {\"score\": <1-5>, \"explanation\": \"...\"},\n", string(m)))
	}
	sb.WriteString("  \"comments\": \"<overall assessment>\"\n}\n")

	if sheet, ok := rules.For(code); ok && sheet.EvaluationExamples != "" {
		sb.WriteString("\nCommon pitfalls for this language:\n")
		sb.WriteString(sheet.EvaluationExamples)
	}

	return sb.String()
}

// parseScorecard validates the structured response. All nine metrics must
// be present with integral scores in 1..5.
func parseScorecard(response string) (*Scorecard, error) {
	raw := postprocess.ExtractJSON(response)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("not valid JSON: %v", err), Raw: response}
	}

	card := &Scorecard{Scores: make(map[Metric]Score, 9)}

	for _, m := range Metrics() {
		entry, ok := fields[string(m)]
		if !ok {
			return nil, &ParseError{Reason: fmt.Sprintf("metric %q missing", m), Raw: response}
		}

		var parsed struct {
			Score       float64 `json:"score"`
			Explanation string  `json:"explanation"`
		}
		if err := json.Unmarshal(entry, &parsed); err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("metric %q malformed: %v", m, err), Raw: response}
		}
		if parsed.Score != math.Trunc(parsed.Score) || parsed.Score < 1 || parsed.Score > 5 {
			return nil, &ParseError{Reason: fmt.Sprintf("metric %q score %v out of range 1..5", m, parsed.Score), Raw: response}
		}

		card.Scores[m] = Score{Metric: m, Score: int(parsed.Score), Explanation: parsed.Explanation}
	}

	if entry, ok := fields["comments"]; ok {
		_ = json.Unmarshal(entry, &card.Comments)
	}

	return card, nil
}
