// Package batch runs the evaluation pipeline over a set of rows: each row's
// source text is re-translated, then the reference translation and the new
// translation are scored independently, and per-metric averages plus the
// total spend are aggregated once all rows have joined.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/msolvik/fintrans/internal/evaluator"
	"github.com/msolvik/fintrans/internal/models"
	"github.com/msolvik/fintrans/internal/translator"
)

// ErrEmptyBatch is returned when Run is given zero rows; averages over an
// empty batch are undefined and must not silently read as zero.
var ErrEmptyBatch = errors.New("evaluation batch contains no rows")

const defaultFanOut = 4

// Row is one input pair: the English source and its reference translation.
type Row struct {
	Source    string
	Reference string
}

// RowResult is the outcome for one row. Err non-nil means the row failed
// (translation or either evaluation); failed rows keep whatever cost was
// already spent and are excluded from the averages.
type RowResult struct {
	Source         string               `json:"source_text"`
	Reference      string               `json:"reference_translation"`
	NewTranslation string               `json:"new_translation,omitempty"`
	ReferenceEval  *evaluator.Scorecard `json:"reference_evaluation,omitempty"`
	NewEval        *evaluator.Scorecard `json:"new_evaluation,omitempty"`
	Cost           models.CostInfo      `json:"cost_info"`
	Err            error                `json:"-"`
	ErrMessage     string               `json:"error,omitempty"`
}

// Summary holds the per-metric arithmetic means over succeeded rows and the
// total cost of every model call the batch issued.
type Summary struct {
	Averages          map[evaluator.Metric]float64 `json:"averages"`
	ReferenceAverages map[evaluator.Metric]float64 `json:"reference_averages"`
	Rows              int                          `json:"rows"`
	Succeeded         int                          `json:"succeeded"`
	TotalCost         float64                      `json:"total_cost"`
}

// Report is the complete batch outcome.
type Report struct {
	Results []RowResult `json:"results"`
	Summary Summary     `json:"summary"`
}

// Aggregator wires the two engines together. FanOut bounds how many rows
// are in flight at once.
type Aggregator struct {
	translator *translator.Engine
	evaluator  *evaluator.Engine
	fanOut     int
}

func New(t *translator.Engine, e *evaluator.Engine, fanOut int) *Aggregator {
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	return &Aggregator{translator: t, evaluator: e, fanOut: fanOut}
}

// Run processes every row and aggregates the results. Row failures are
// recorded on the row and never abort the batch; cancelling ctx stops new
// rows from starting while completed rows remain in the report.
func (a *Aggregator) Run(ctx context.Context, rows []Row, targetLang, translationModel, evaluationModel string) (*Report, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}

	results := make([]RowResult, len(rows))

	var g errgroup.Group
	g.SetLimit(a.fanOut)

	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			results[i] = a.processRow(ctx, row, targetLang, translationModel, evaluationModel)
			return nil
		})
	}
	g.Wait()

	report := &Report{Results: results}
	report.Summary = summarize(results)
	return report, nil
}

// processRow translates the source, then scores the reference and the new
// translation concurrently. The translation must complete first: evaluation
// needs its output.
func (a *Aggregator) processRow(ctx context.Context, row Row, targetLang, translationModel, evaluationModel string) RowResult {
	rr := RowResult{Source: row.Source, Reference: row.Reference}

	fail := func(err error) RowResult {
		rr.Err = err
		rr.ErrMessage = err.Error()
		return rr
	}

	if row.Source == "" || row.Reference == "" {
		return fail(fmt.Errorf("row contains empty values"))
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	tr, err := a.translator.Translate(ctx, row.Source, []string{targetLang}, translationModel)
	if err != nil {
		var terr *translator.TranslationError
		if errors.As(err, &terr) {
			rr.Cost = rr.Cost.Add(terr.Cost)
		}
		return fail(err)
	}
	rr.Cost = rr.Cost.Add(tr.Cost)
	rr.NewTranslation = tr.Translations[targetLang]

	// Reference and new evaluations are independent of each other.
	var wg sync.WaitGroup
	var refCard, newCard *evaluator.Scorecard
	var refCost, newCost models.CostInfo
	var refErr, newErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		refCard, refCost, refErr = a.evaluator.Evaluate(ctx, row.Source, row.Reference, targetLang, evaluationModel)
	}()
	go func() {
		defer wg.Done()
		newCard, newCost, newErr = a.evaluator.Evaluate(ctx, row.Source, rr.NewTranslation, targetLang, evaluationModel)
	}()
	wg.Wait()

	rr.Cost = rr.Cost.Add(refCost).Add(newCost)

	if refErr != nil {
		return fail(fmt.Errorf("reference evaluation: %w", refErr))
	}
	if newErr != nil {
		return fail(fmt.Errorf("new translation evaluation: %w", newErr))
	}

	rr.ReferenceEval = refCard
	rr.NewEval = newCard
	return rr
}

// summarize reduces the accumulated results once: means over succeeded
// rows, total cost over every call made.
func summarize(results []RowResult) Summary {
	s := Summary{
		Averages:          make(map[evaluator.Metric]float64, 9),
		ReferenceAverages: make(map[evaluator.Metric]float64, 9),
		Rows:              len(results),
	}

	newSums := make(map[evaluator.Metric]int, 9)
	refSums := make(map[evaluator.Metric]int, 9)

	for _, rr := range results {
		s.TotalCost += rr.Cost.TotalCost
		if rr.Err != nil {
			continue
		}
		s.Succeeded++
		for _, m := range evaluator.Metrics() {
			newSums[m] += rr.NewEval.Scores[m].Score
			refSums[m] += rr.ReferenceEval.Scores[m].Score
		}
	}

	if s.Succeeded > 0 {
		for _, m := range evaluator.Metrics() {
			s.Averages[m] = float64(newSums[m]) / float64(s.Succeeded)
			s.ReferenceAverages[m] = float64(refSums[m]) / float64(s.Succeeded)
		}
	}

	return s
}
