// Package translator orchestrates the content-to-translation pipeline: it
// masks dynamic parameters, routes each target language to a model, issues
// the model calls concurrently, restores parameters, and accounts the cost
// of the whole request.
package translator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/msolvik/fintrans/internal/extractor"
	"github.com/msolvik/fintrans/internal/llm"
	"github.com/msolvik/fintrans/internal/models"
	"github.com/msolvik/fintrans/internal/placeholder"
	"github.com/msolvik/fintrans/internal/postprocess"
)

// LanguageChecker verifies that translated text is in the target language.
// A failed check is reported as a warning, not an error.
type LanguageChecker interface {
	Check(text, target string) error
}

// Engine produces one translation per requested target language for one
// input. checker may be nil to skip language verification.
type Engine struct {
	client   llm.Client
	registry *models.Registry
	checker  LanguageChecker
}

func New(client llm.Client, registry *models.Registry, checker LanguageChecker) *Engine {
	return &Engine{client: client, registry: registry, checker: checker}
}

// Result is a completed multi-language translation of one text. It is
// immutable once returned; Translations holds exactly one entry per
// requested language.
type Result struct {
	OriginalText string            `json:"original_text"`
	Translations map[string]string `json:"translations"`
	Warnings     map[string]string `json:"warnings,omitempty"`
	Cost         models.CostInfo   `json:"cost_info"`
}

// HTMLResult is a completed multi-language translation of one HTML page.
type HTMLResult struct {
	OriginalHTML string            `json:"original_html"`
	Pages        map[string]string `json:"pages"`
	Warnings     map[string]string `json:"warnings,omitempty"`
	Cost         models.CostInfo   `json:"cost_info"`
}

// TranslationError reports which target languages failed and why. A request
// never returns a partial translations mapping: one failed language fails
// the whole call. Cost carries the spend of the calls that were made before
// the failure so callers can still account it.
type TranslationError struct {
	Failed map[string]error
	Cost   models.CostInfo
}

func (e *TranslationError) Error() string {
	langs := make([]string, 0, len(e.Failed))
	for lang := range e.Failed {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	parts := make([]string, len(langs))
	for i, lang := range langs {
		parts[i] = fmt.Sprintf("%s: %v", lang, e.Failed[lang])
	}
	return "translation failed for " + strings.Join(parts, "; ")
}

// outcome is the per-language join record.
type outcome struct {
	lang    string
	text    string
	warning string
	cost    models.CostInfo
	err     error
}

// Translate renders text into every requested target language. Calls for
// different languages are independent and run concurrently; their token
// usage is merged into a single CostInfo at join time.
func (e *Engine) Translate(ctx context.Context, text string, targetLangs []string, modelOverride string) (*Result, error) {
	if len(targetLangs) == 0 {
		return nil, fmt.Errorf("no target languages given")
	}

	outcomes := e.fanOut(ctx, targetLangs, modelOverride, func(ctx context.Context, cfg models.Config, lang string) (string, string, models.CostInfo, error) {
		return e.translateOne(ctx, cfg, text, lang)
	})

	result := &Result{
		OriginalText: text,
		Translations: make(map[string]string, len(targetLangs)),
	}
	if err := collect(outcomes, result.Translations, &result.Warnings, &result.Cost); err != nil {
		return nil, err
	}
	return result, nil
}

// TranslateHTML extracts the visible text of doc, translates it into every
// requested language, and reinserts each language's blocks into a copy of
// the original structure.
func (e *Engine) TranslateHTML(ctx context.Context, doc string, targetLangs []string, modelOverride string) (*HTMLResult, error) {
	if len(targetLangs) == 0 {
		return nil, fmt.Errorf("no target languages given")
	}

	blocks, err := extractor.Extract(doc)
	if err != nil {
		return nil, err
	}

	outcomes := e.fanOut(ctx, targetLangs, modelOverride, func(ctx context.Context, cfg models.Config, lang string) (string, string, models.CostInfo, error) {
		return e.translateBlocks(ctx, cfg, doc, blocks, lang)
	})

	result := &HTMLResult{
		OriginalHTML: doc,
		Pages:        make(map[string]string, len(targetLangs)),
	}
	if err := collect(outcomes, result.Pages, &result.Warnings, &result.Cost); err != nil {
		return nil, err
	}
	return result, nil
}

// fanOut runs work once per target language on its own goroutine and joins
// the outcomes. Each call carries its own cost accumulator; nothing is
// shared until the join.
func (e *Engine) fanOut(ctx context.Context, targetLangs []string, modelOverride string,
	work func(ctx context.Context, cfg models.Config, lang string) (string, string, models.CostInfo, error)) []outcome {

	ch := make(chan outcome, len(targetLangs))

	var wg sync.WaitGroup
	for _, lang := range targetLangs {
		wg.Add(1)
		go func(lang string) {
			defer wg.Done()

			cfg, err := e.registry.Resolve(modelOverride, lang)
			if err != nil {
				ch <- outcome{lang: lang, err: err}
				return
			}

			text, warning, cost, err := work(ctx, cfg, lang)
			ch <- outcome{lang: lang, text: text, warning: warning, cost: cost, err: err}
		}(lang)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var outcomes []outcome
	for o := range ch {
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// collect merges per-language outcomes into the result maps. Cost is summed
// over every call made, including languages that later failed.
func collect(outcomes []outcome, translations map[string]string, warnings *map[string]string, cost *models.CostInfo) error {
	failed := make(map[string]error)
	for _, o := range outcomes {
		*cost = cost.Add(o.cost)
		if o.err != nil {
			failed[o.lang] = o.err
			continue
		}
		translations[o.lang] = o.text
		if o.warning != "" {
			if *warnings == nil {
				*warnings = make(map[string]string)
			}
			(*warnings)[o.lang] = o.warning
		}
	}
	if len(failed) > 0 {
		return &TranslationError{Failed: failed, Cost: *cost}
	}
	return nil
}

// translateOne performs the full pipeline for a single (text, language)
// pair: mask, prompt, complete, clean, unmask, verify.
func (e *Engine) translateOne(ctx context.Context, cfg models.Config, text, lang string) (string, string, models.CostInfo, error) {
	masked, mappings := placeholder.Mask(text)

	// A parameters-only text round-trips without a model call.
	if placeholder.OnlyPlaceholders(text) {
		restored, err := placeholder.Unmask(masked, mappings)
		if err != nil {
			return "", "", models.CostInfo{}, err
		}
		return restored, "", models.CostInfo{Model: cfg.ID}, nil
	}

	completion, err := e.client.Complete(ctx, llm.Request{
		Model:       cfg.ID,
		System:      systemPrompt(lang),
		Prompt:      masked,
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	if err != nil {
		return "", "", models.CostInfo{}, err
	}

	cost := models.NewCostInfo(cfg, completion.InputTokens, completion.OutputTokens)

	cleaned := postprocess.Clean(completion.Content)
	if cleaned == "" {
		return "", "", cost, fmt.Errorf("model returned empty translation")
	}

	final, err := placeholder.Unmask(cleaned, mappings)
	if err != nil {
		return "", "", cost, err
	}

	var warning string
	if e.checker != nil {
		if checkErr := e.checker.Check(final, lang); checkErr != nil {
			warning = checkErr.Error()
		}
	}

	return final, warning, cost, nil
}

// translateBlocks translates every extracted block of a page into lang,
// sequentially within the language, and reinserts the results.
func (e *Engine) translateBlocks(ctx context.Context, cfg models.Config, doc string, blocks []extractor.Block, lang string) (string, string, models.CostInfo, error) {
	translated := make([]string, len(blocks))
	var cost models.CostInfo
	var warnings []string

	for i, block := range blocks {
		text, warning, blockCost, err := e.translateOne(ctx, cfg, block.Text, lang)
		cost = cost.Add(blockCost)
		if err != nil {
			return "", "", cost, fmt.Errorf("block %d (%s): %w", block.ID, block.Path, err)
		}
		translated[i] = text
		if warning != "" {
			warnings = append(warnings, fmt.Sprintf("block %d: %s", block.ID, warning))
		}
	}

	page, err := extractor.Reinsert(doc, translated)
	if err != nil {
		return "", "", cost, err
	}
	return page, strings.Join(warnings, "; "), cost, nil
}
