// internal/llm/gemini.go

package llm

import (
	"context"
	"errors"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
)

func (g *Gateway) streamGemini(ctx context.Context, prompt string, out chan<- Chunk) {
	defer close(out)

	model := g.gemini.GenerativeModel(g.cfg.GeminiModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	iter := model.GenerateContentStream(ctx, genai.Text(prompt))

	var acc strings.Builder
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return
		}
		if err != nil {
			out <- Chunk{Err: err}
			return
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				text, ok := part.(genai.Text)
				if !ok || text == "" {
					continue
				}
				acc.WriteString(string(text))
				out <- Chunk{Text: acc.String()}
			}
		}
	}
}
