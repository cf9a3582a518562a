package ledger_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/msolvik/fintrans/internal/ledger"
	"github.com/msolvik/fintrans/internal/models"
)

func openTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndTotals(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	premium := models.Config{ID: "premium", InputCostPer1K: 0.03, OutputCostPer1K: 0.06}
	fast := models.Config{ID: "fast", InputCostPer1K: 0.001, OutputCostPer1K: 0.002}

	reqID := uuid.NewString()
	if err := l.Record(ctx, reqID, "translate", "hu", models.NewCostInfo(premium, 1000, 500)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := l.Record(ctx, reqID, "translate", "hu", models.NewCostInfo(premium, 2000, 1000)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := l.Record(ctx, uuid.NewString(), "evaluate", "de", models.NewCostInfo(fast, 100, 100)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	totals, err := l.Totals(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(totals), totals)
	}

	// Ordered by spend: the premium translate group first.
	top := totals[0]
	if top.Model != "premium" || top.Purpose != "translate" {
		t.Errorf("top group = %+v", top)
	}
	if top.Calls != 2 {
		t.Errorf("calls = %d", top.Calls)
	}
	if top.InputTokens != 3000 || top.OutputTokens != 1500 {
		t.Errorf("token sums wrong: %+v", top)
	}
	wantCost := models.NewCostInfo(premium, 1000, 500).TotalCost + models.NewCostInfo(premium, 2000, 1000).TotalCost
	if math.Abs(top.TotalCost-wantCost) > 1e-9 {
		t.Errorf("total cost = %v, want %v", top.TotalCost, wantCost)
	}

	if totals[1].Model != "fast" || totals[1].Purpose != "evaluate" {
		t.Errorf("second group = %+v", totals[1])
	}
}

func TestTotals_SinceFilter(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	cfg := models.Config{ID: "standard", InputCostPer1K: 0.01, OutputCostPer1K: 0.03}
	if err := l.Record(ctx, uuid.NewString(), "translate", "hu", models.NewCostInfo(cfg, 10, 10)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	totals, err := l.Totals(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if len(totals) != 0 {
		t.Errorf("future cutoff should exclude everything: %+v", totals)
	}
}

func TestTotals_Empty(t *testing.T) {
	l := openTestLedger(t)

	totals, err := l.Totals(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if len(totals) != 0 {
		t.Errorf("fresh ledger should have no totals: %+v", totals)
	}
}
