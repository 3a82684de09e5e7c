// internal/llm/openai.go

package llm

import (
	"context"
	"strings"

	openai "github.com/openai/openai-go"
)

// streamChatCompletion serves both the OpenAI and the Together (Llama)
// backends, which share the chat-completions wire format.
func (g *Gateway) streamChatCompletion(ctx context.Context, client *openai.Client, model, prompt string, out chan<- Chunk) {
	defer close(out)

	stream := client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(openai.ChatModel(model)),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		}),
	})

	var acc strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		acc.WriteString(delta)
		out <- Chunk{Text: acc.String()}
	}
	// Cancellation lands here too: the SDK stops the stream and reports the
	// context error, which consumers see as the terminal chunk.
	if err := stream.Err(); err != nil {
		out <- Chunk{Err: err}
	}
}
