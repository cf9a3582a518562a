package translator_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/msolvik/fintrans/internal/llm"
	"github.com/msolvik/fintrans/internal/models"
	"github.com/msolvik/fintrans/internal/placeholder"
	"github.com/msolvik/fintrans/internal/translator"
)

// mockClient routes completions through a caller-supplied function and
// counts calls.
type mockClient struct {
	calls int64
	fn    func(req llm.Request) (*llm.Completion, error)
}

func (m *mockClient) Complete(_ context.Context, req llm.Request) (*llm.Completion, error) {
	atomic.AddInt64(&m.calls, 1)
	return m.fn(req)
}

type failingChecker struct{ msg string }

func (f failingChecker) Check(_, _ string) error { return errors.New(f.msg) }

func testRegistry(t *testing.T) *models.Registry {
	t.Helper()
	r, err := models.NewRegistry(
		[]models.Config{
			{ID: "fast", InputCostPer1K: 0.001, OutputCostPer1K: 0.002, Tier: models.TierLow},
			{ID: "standard", InputCostPer1K: 0.01, OutputCostPer1K: 0.03, Tier: models.TierMedium},
			{ID: "premium", InputCostPer1K: 0.03, OutputCostPer1K: 0.06, Tier: models.TierHigh},
		},
		map[string]models.Tier{"hu": models.TierHigh, "de": models.TierMedium, "nl": models.TierLow},
		map[models.Tier]string{models.TierLow: "fast", models.TierMedium: "standard", models.TierHigh: "premium"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestTranslate_Hungarian(t *testing.T) {
	client := &mockClient{fn: func(req llm.Request) (*llm.Completion, error) {
		if req.Model != "premium" {
			t.Errorf("Hungarian should route to the high tier, got %s", req.Model)
		}
		if strings.Contains(req.Prompt, "[brokerName]") {
			t.Error("prompt leaked an unmasked parameter")
		}
		if !strings.Contains(req.Prompt, "[PH0]") || !strings.Contains(req.Prompt, "[PH1]") {
			t.Errorf("prompt should carry masked markers: %q", req.Prompt)
		}
		return &llm.Completion{
			Content:      "Üdvözöljük, [PH0]! Elérhető [PH1]-ban.",
			InputTokens:  120,
			OutputTokens: 40,
		}, nil
	}}

	eng := translator.New(client, testRegistry(t), nil)
	res, err := eng.Translate(context.Background(), "Welcome, [brokerName]! Available in [countryName].", []string{"hu"}, "")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	hu := res.Translations["hu"]
	if !strings.Contains(hu, "[brokerName]") {
		t.Errorf("brokerName not restored verbatim: %q", hu)
	}
	if !strings.Contains(hu, "[countryName]-ban") {
		t.Errorf("case suffix lost around countryName: %q", hu)
	}
	if res.Cost.TotalCost <= 0 {
		t.Errorf("expected positive cost, got %+v", res.Cost)
	}
	if res.Cost.Model != "premium" {
		t.Errorf("cost model = %q", res.Cost.Model)
	}
	if res.OriginalText != "Welcome, [brokerName]! Available in [countryName]." {
		t.Errorf("original text mutated: %q", res.OriginalText)
	}
}

func TestTranslate_MultiLanguage(t *testing.T) {
	client := &mockClient{fn: func(req llm.Request) (*llm.Completion, error) {
		return &llm.Completion{Content: "translated by " + req.Model, InputTokens: 10, OutputTokens: 10}, nil
	}}

	eng := translator.New(client, testRegistry(t), nil)
	res, err := eng.Translate(context.Background(), "Hello world", []string{"hu", "de", "nl"}, "")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if len(res.Translations) != 3 {
		t.Fatalf("expected one entry per language, got %d", len(res.Translations))
	}
	if res.Translations["hu"] != "translated by premium" ||
		res.Translations["de"] != "translated by standard" ||
		res.Translations["nl"] != "translated by fast" {
		t.Errorf("tier routing wrong: %+v", res.Translations)
	}
	if atomic.LoadInt64(&client.calls) != 3 {
		t.Errorf("expected 3 model calls, got %d", client.calls)
	}
	if res.Cost.Model != "mixed" {
		t.Errorf("multi-model cost should be mixed, got %q", res.Cost.Model)
	}
}

func TestTranslate_ModelOverride(t *testing.T) {
	client := &mockClient{fn: func(req llm.Request) (*llm.Completion, error) {
		if req.Model != "fast" {
			t.Errorf("override ignored, got %s", req.Model)
		}
		return &llm.Completion{Content: "ok", InputTokens: 1, OutputTokens: 1}, nil
	}}

	eng := translator.New(client, testRegistry(t), nil)
	if _, err := eng.Translate(context.Background(), "Hello", []string{"hu"}, "fast"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
}

func TestTranslate_OneLanguageFailsAll(t *testing.T) {
	client := &mockClient{fn: func(req llm.Request) (*llm.Completion, error) {
		if req.Model == "standard" {
			return nil, &llm.UnavailableError{Err: errors.New("connection reset")}
		}
		return &llm.Completion{Content: "ok", InputTokens: 100, OutputTokens: 100}, nil
	}}

	eng := translator.New(client, testRegistry(t), nil)
	res, err := eng.Translate(context.Background(), "Hello", []string{"hu", "de"}, "")
	if err == nil {
		t.Fatal("expected error when one language fails")
	}
	if res != nil {
		t.Error("no partial result on failure")
	}

	var trErr *translator.TranslationError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TranslationError, got %T", err)
	}
	if _, ok := trErr.Failed["de"]; !ok {
		t.Errorf("failed map should name de: %v", trErr.Failed)
	}
	if _, ok := trErr.Failed["hu"]; ok {
		t.Error("hu succeeded and must not appear in the failed map")
	}
	// The successful Hungarian call still cost money.
	if trErr.Cost.TotalCost <= 0 {
		t.Errorf("error should carry the spend of completed calls: %+v", trErr.Cost)
	}
}

func TestTranslate_DroppedPlaceholderFatal(t *testing.T) {
	client := &mockClient{fn: func(req llm.Request) (*llm.Completion, error) {
		// Model dropped [PH1].
		return &llm.Completion{Content: "Üdvözöljük, [PH0]!", InputTokens: 10, OutputTokens: 5}, nil
	}}

	eng := translator.New(client, testRegistry(t), nil)
	_, err := eng.Translate(context.Background(), "Welcome, [brokerName]! Available in [countryName].", []string{"hu"}, "")
	if err == nil {
		t.Fatal("expected error for dropped marker")
	}

	var missing *placeholder.MissingPlaceholderError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingPlaceholderError, got %v", err)
	}
	if len(missing.Missing) != 1 || missing.Missing[0].Original != "[countryName]" {
		t.Errorf("wrong missing set: %+v", missing.Missing)
	}
}

func TestTranslate_PlaceholderOnlySkipsModel(t *testing.T) {
	client := &mockClient{fn: func(req llm.Request) (*llm.Completion, error) {
		t.Error("parameters-only text must not reach the model")
		return nil, errors.New("unexpected call")
	}}

	eng := translator.New(client, testRegistry(t), nil)
	res, err := eng.Translate(context.Background(), "[brokerName] [countryName]", []string{"hu"}, "")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if res.Translations["hu"] != "[brokerName] [countryName]" {
		t.Errorf("parameters-only text should round-trip verbatim: %q", res.Translations["hu"])
	}
	if res.Cost.TotalCost != 0 {
		t.Errorf("no model call means zero cost, got %+v", res.Cost)
	}
	if atomic.LoadInt64(&client.calls) != 0 {
		t.Errorf("expected 0 model calls, got %d", client.calls)
	}
}

func TestTranslate_CheckerWarns(t *testing.T) {
	client := &mockClient{fn: func(req llm.Request) (*llm.Completion, error) {
		return &llm.Completion{Content: "still english somehow", InputTokens: 5, OutputTokens: 5}, nil
	}}

	eng := translator.New(client, testRegistry(t), failingChecker{msg: "detected en, expected hu"})
	res, err := eng.Translate(context.Background(), "Hello world", []string{"hu"}, "")
	if err != nil {
		t.Fatalf("a failed language check must not fail the request: %v", err)
	}
	if res.Warnings["hu"] != "detected en, expected hu" {
		t.Errorf("warning not surfaced: %+v", res.Warnings)
	}
}

func TestTranslate_EmptyResponse(t *testing.T) {
	client := &mockClient{fn: func(req llm.Request) (*llm.Completion, error) {
		return &llm.Completion{Content: "  ", InputTokens: 5, OutputTokens: 0}, nil
	}}

	eng := translator.New(client, testRegistry(t), nil)
	_, err := eng.Translate(context.Background(), "Hello", []string{"de"}, "")
	if err == nil {
		t.Fatal("expected error for empty model output")
	}
}

func TestTranslate_NoLanguages(t *testing.T) {
	eng := translator.New(&mockClient{fn: nil}, testRegistry(t), nil)
	if _, err := eng.Translate(context.Background(), "Hello", nil, ""); err == nil {
		t.Fatal("expected error for empty language list")
	}
}

func TestTranslateHTML(t *testing.T) {
	const page = `<html><head><title>Reviews</title></head><body><p>Welcome, <b>[brokerName]</b>!</p></body></html>`

	client := &mockClient{fn: func(req llm.Request) (*llm.Completion, error) {
		// Pseudo-translate each block so reinsertion is observable.
		return &llm.Completion{Content: "HU:" + req.Prompt, InputTokens: 10, OutputTokens: 10}, nil
	}}

	eng := translator.New(client, testRegistry(t), nil)
	res, err := eng.TranslateHTML(context.Background(), page, []string{"hu"}, "")
	if err != nil {
		t.Fatalf("TranslateHTML failed: %v", err)
	}

	out := res.Pages["hu"]
	if !strings.Contains(out, "HU:Reviews") {
		t.Errorf("title not translated: %q", out)
	}
	if !strings.Contains(out, "HU:Welcome,") {
		t.Errorf("paragraph text not translated: %q", out)
	}
	if !strings.Contains(out, "<b>[brokerName]</b>") {
		t.Errorf("parameters-only node should survive verbatim inside its tag: %q", out)
	}
	if !strings.Contains(out, "<title>") || !strings.Contains(out, "</b>") {
		t.Errorf("markup not preserved: %q", out)
	}
	if res.Cost.TotalCost <= 0 {
		t.Error("expected positive cost for translated blocks")
	}
}

func TestTranslateHTML_BlockFailureNamesBlock(t *testing.T) {
	const page = `<html><body><p>First</p><p>Second</p></body></html>`

	client := &mockClient{fn: func(req llm.Request) (*llm.Completion, error) {
		if strings.Contains(req.Prompt, "Second") {
			return nil, fmt.Errorf("model refused")
		}
		return &llm.Completion{Content: "Első", InputTokens: 5, OutputTokens: 5}, nil
	}}

	eng := translator.New(client, testRegistry(t), nil)
	_, err := eng.TranslateHTML(context.Background(), page, []string{"hu"}, "")
	if err == nil {
		t.Fatal("expected error when a block fails")
	}

	var trErr *translator.TranslationError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TranslationError, got %T", err)
	}
	if !strings.Contains(trErr.Failed["hu"].Error(), "block") {
		t.Errorf("block failure should identify the block: %v", trErr.Failed["hu"])
	}
}
