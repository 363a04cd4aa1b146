package ai

import "context"

// Completer is the contract the interview pipeline has with a text-generation
// model: a single prompt in, free text out. No streaming, no function calling.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
