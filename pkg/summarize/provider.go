package summarize

import (
	"context"
	"fmt"

	"promptpack/pkg/bundle"
)

// Request carries one completion request to a provider.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response carries the raw completion from a provider.
type Response struct {
	Content    string
	TokensUsed int
}

// Provider is the model backend abstraction.
type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Name() string
}

// NewProvider creates a provider by name with its default model.
func NewProvider(name string) (Provider, error) {
	switch name {
	case "anthropic":
		return NewAnthropic("")
	case "deepseek":
		return NewDeepseek("")
	case "ollama":
		return NewOllama("")
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", bundle.ErrConfig, name)
	}
}
