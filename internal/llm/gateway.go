// internal/llm/gateway.go

package llm

import (
	"context"
	"fmt"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	genai "github.com/google/generative-ai-go/genai"
	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	googleopt "google.golang.org/api/option"

	"fedscope/internal/domain/status"
)

// Chunk is one streamed element of a provider's response. Text always holds
// the full accumulated output so far, not a delta; consumers wanting deltas
// diff consecutive chunks themselves. A terminal failure arrives as a final
// chunk with Err set.
type Chunk struct {
	Text string
	Err  error
}

// Config selects the credentials and model for each backend.
type Config struct {
	OpenAIKey      string
	OpenAIModel    string
	AnthropicKey   string
	AnthropicModel string
	GoogleKey      string
	GeminiModel    string
	TogetherKey    string
	TogetherURL    string
	LlamaModel     string
}

// Gateway drives a uniform streaming classification over four LLM backends.
// Clients are injected at construction so tests can substitute fakes.
type Gateway struct {
	cfg       Config
	openai    *openai.Client
	llama     *openai.Client
	anthropic *anthropic.Client
	gemini    *genai.Client
}

// NewGateway creates a gateway with one shared client per provider.
func NewGateway(ctx context.Context, cfg Config) (*Gateway, error) {
	geminiClient, err := genai.NewClient(ctx, googleopt.WithAPIKey(cfg.GoogleKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gateway{
		cfg:    cfg,
		openai: openai.NewClient(openaiopt.WithAPIKey(cfg.OpenAIKey)),
		llama: openai.NewClient(
			openaiopt.WithAPIKey(cfg.TogetherKey),
			openaiopt.WithBaseURL(cfg.TogetherURL),
		),
		anthropic: anthropic.NewClient(anthropicopt.WithAPIKey(cfg.AnthropicKey)),
		gemini:    geminiClient,
	}, nil
}

// Close releases provider resources.
func (g *Gateway) Close() {
	if g.gemini != nil {
		g.gemini.Close()
	}
}

// Analyze streams a classification of the snapshot through the selected
// provider. An unrecognized selector fails here, before any network call.
// The returned channel is closed when generation completes or fails; callers
// must drain it until then. Cancelling ctx ends provider generation and
// arrives as a final Err chunk, never as a silently truncated sequence.
func (g *Gateway) Analyze(ctx context.Context, snap status.ToCheck, provider Provider) (<-chan Chunk, error) {
	prompt := BuildPrompt(snap, time.Now())
	out := make(chan Chunk)

	switch provider {
	case ProviderOpenAI:
		go g.streamChatCompletion(ctx, g.openai, g.cfg.OpenAIModel, prompt, out)
	case ProviderLlama:
		go g.streamChatCompletion(ctx, g.llama, g.cfg.LlamaModel, prompt, out)
	case ProviderClaude:
		go g.streamAnthropic(ctx, prompt, out)
	case ProviderGemini:
		go g.streamGemini(ctx, prompt, out)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	return out, nil
}
