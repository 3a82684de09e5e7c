// internal/llm/anthropic.go

package llm

import (
	"context"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
)

func (g *Gateway) streamAnthropic(ctx context.Context, prompt string, out chan<- Chunk) {
	defer close(out)

	stream := g.anthropic.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(g.cfg.AnthropicModel)),
		MaxTokens: anthropic.F(int64(1024)),
		System: anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(systemPrompt),
		}),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	})

	var acc strings.Builder
	for stream.Next() {
		event := stream.Current()
		switch delta := event.Delta.(type) {
		case anthropic.ContentBlockDeltaEventDelta:
			if delta.Text == "" {
				continue
			}
			acc.WriteString(delta.Text)
			out <- Chunk{Text: acc.String()}
		}
	}
	if err := stream.Err(); err != nil {
		out <- Chunk{Err: err}
	}
}
