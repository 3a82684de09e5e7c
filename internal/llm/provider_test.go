// internal/llm/provider_test.go

package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedscope/internal/domain/status"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in   string
		want Provider
	}{
		{"openai", ProviderOpenAI},
		{"OpenAI", ProviderOpenAI},
		{"claude", ProviderClaude},
		{"gemini", ProviderGemini},
		{"LLAMA", ProviderLlama},
	}
	for _, tt := range tests {
		got, err := ParseProvider(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseProvider("mistral")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestAnalyzeRejectsUnknownProvider(t *testing.T) {
	g := &Gateway{}
	_, err := g.Analyze(context.Background(), status.ToCheck{}, Provider("mistral"))
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestBuildPromptIncludesSnapshot(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := status.ToCheck{
		ID:                   "114000000000000001",
		CreatedAt:            now.Add(-2 * time.Hour),
		Language:             "en",
		URL:                  "https://mastodon.social/@alice/114000000000000001",
		Content:              "big news everyone",
		AuthorFollowersCount: 3,
		AuthorFollowingCount: 7,
		AuthorStatusesCount:  12,
		AuthorCreatedAt:      now.Add(-48 * time.Hour),
	}

	prompt := BuildPrompt(snap, now)
	assert.Contains(t, prompt, "big news everyone")
	assert.Contains(t, prompt, "Number of followers: 3")
	assert.Contains(t, prompt, "2025-03-01 12:00:00 UTC")
	assert.Contains(t, prompt, "2025-02-27 12:00:00")
}
