// Package ledger keeps a local record of model-call spend: token counts and
// derived costs per request and purpose. It intentionally stores no source
// or translated text — only the accounting.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/msolvik/fintrans/internal/models"
)

type Ledger struct {
	db *sql.DB
}

func Open(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return l, nil
}

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL,
		purpose TEXT NOT NULL,
		model TEXT NOT NULL,
		target_lang TEXT,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		input_cost REAL NOT NULL,
		output_cost REAL NOT NULL,
		total_cost REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_usage_request ON usage_records(request_id);
	CREATE INDEX IF NOT EXISTS idx_usage_model_time ON usage_records(model, created_at);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Record stores one cost record under a request id. purpose is the pipeline
// stage that spent it ("translate", "evaluate", "batch").
func (l *Ledger) Record(ctx context.Context, requestID, purpose, targetLang string, cost models.CostInfo) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO usage_records
			(request_id, purpose, model, target_lang, input_tokens, output_tokens, input_cost, output_cost, total_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		requestID, purpose, cost.Model, targetLang,
		cost.InputTokens, cost.OutputTokens,
		cost.InputCost, cost.OutputCost, cost.TotalCost,
	)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// ModelTotal aggregates spend for one (model, purpose) pair.
type ModelTotal struct {
	Model        string
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	TotalCost    float64
}

// Totals returns aggregated spend since the given time, grouped by model
// and purpose, most expensive first.
func (l *Ledger) Totals(ctx context.Context, since time.Time) ([]ModelTotal, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT model, purpose, COUNT(*), SUM(input_tokens), SUM(output_tokens), SUM(total_cost)
		FROM usage_records
		WHERE created_at >= ?
		GROUP BY model, purpose
		ORDER BY SUM(total_cost) DESC`,
		since.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	defer rows.Close()

	var out []ModelTotal
	for rows.Next() {
		var t ModelTotal
		if err := rows.Scan(&t.Model, &t.Purpose, &t.Calls, &t.InputTokens, &t.OutputTokens, &t.TotalCost); err != nil {
			return nil, fmt.Errorf("failed to scan total: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (l *Ledger) Close() error {
	return l.db.Close()
}
