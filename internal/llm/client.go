// Package llm wraps the OpenAI-compatible chat completion endpoint the
// platform talks to (typically a self-hosted vLLM server).
package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the slice of the OpenAI client the pipeline uses.
// *openai.Client satisfies it; tests substitute scripted fakes.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config locates the provider.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewClient builds a client for an OpenAI-compatible server. BaseURL should
// include the /v1 prefix (vLLM convention).
func NewClient(cfg Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}
