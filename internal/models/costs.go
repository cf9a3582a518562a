package models

// CostInfo is the deterministic cost accounting for one or more model calls.
// TotalCost is always InputCost + OutputCost; both derive from the token
// counts and the per-1K rates of the model that served the call.
type CostInfo struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	InputCost    float64 `json:"input_cost"`
	OutputCost   float64 `json:"output_cost"`
	TotalCost    float64 `json:"total_cost"`
	Model        string  `json:"model"`
}

// NewCostInfo prices a single call against a model's per-1K-token rates.
func NewCostInfo(cfg Config, inputTokens, outputTokens int) CostInfo {
	in := float64(inputTokens) / 1000 * cfg.InputCostPer1K
	out := float64(outputTokens) / 1000 * cfg.OutputCostPer1K
	return CostInfo{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		InputCost:    in,
		OutputCost:   out,
		TotalCost:    in + out,
		Model:        cfg.ID,
	}
}

// Add merges two cost records. When the calls went to different models the
// merged record carries the "mixed" marker instead of a model id.
func (c CostInfo) Add(o CostInfo) CostInfo {
	model := c.Model
	switch {
	case c.Model == "":
		model = o.Model
	case o.Model == "" || o.Model == c.Model:
		// keep c.Model
	default:
		model = "mixed"
	}
	return CostInfo{
		InputTokens:  c.InputTokens + o.InputTokens,
		OutputTokens: c.OutputTokens + o.OutputTokens,
		InputCost:    c.InputCost + o.InputCost,
		OutputCost:   c.OutputCost + o.OutputCost,
		TotalCost:    c.TotalCost + o.TotalCost,
		Model:        model,
	}
}
