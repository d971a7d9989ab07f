package domain

import "context"

// CompletionClient is the port to the LLM text-generation backend. Given one
// prompt it returns one raw text blob; the caller owns all parsing and
// validation of that blob. Implementations make a single attempt with a
// bounded timeout and never retry.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
