// Package llm is the language-model capability boundary: submit a prompt,
// receive content plus token usage. The rest of the pipeline depends only on
// the Client interface; the OpenAI-compatible implementation lives in
// openai.go.
package llm

import (
	"context"
	"fmt"
)

// Request is one completion request. JSONFormat asks the provider to return
// a single JSON object (used by the evaluator).
type Request struct {
	Model       string
	System      string
	Prompt      string
	JSONFormat  bool
	MaxTokens   int
	Temperature float64
}

// Completion is the structured result of one model call.
type Completion struct {
	Content      string
	InputTokens  int
	OutputTokens int
}

// Client abstracts a token-metered language model.
type Client interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// UnavailableError wraps transport or auth failures: the provider could not
// be reached or refused the call.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("model provider unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// ResponseError reports a malformed or empty provider response.
type ResponseError struct {
	Status int
	Detail string
}

func (e *ResponseError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("model provider returned status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("malformed model response: %s", e.Detail)
}
