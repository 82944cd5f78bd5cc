package adapter

import "context"

// CompletionRequest carries one text-completion call.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// AIServiceAdapter is the port for LLM text completion. Implementations
// must honor ctx cancellation; the pipeline relies on it for its timeout.
type AIServiceAdapter interface {
	// Complete returns the raw assistant text for the request.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// ModelName reports the model the adapter will call, for logs/metrics.
	ModelName() string
}
