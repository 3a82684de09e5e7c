// internal/llm/prompt.go

package llm

import (
	"fmt"
	"time"

	"fedscope/internal/domain/status"
)

const systemPrompt = "You are a helpful assistant skilled in analyzing social media posts. " +
	"Always respond with valid JSON."

const promptTemplate = `
You are an expert in social media content analysis with specialized knowledge in detecting AI-generated or suspicious
posts.
Your task is to analyze the following fediverse post and evaluate whether it is likely suspicious or AI-generated.

**Current Date and Time:** %s

**Post Analysis Details:**

1. **Post Text:**
   "%s"

2. **Author Details:**
   - Number of followers: %d
   - Number of followings: %d
   - Total posts written by the author: %d
   - Date of registration: %s

3. **Post Metadata:**
   - Hashtags used in the post: check hashtags in the post text

**Guidelines for Evaluation:**
- Consider whether the post text contains patterns commonly found in AI-generated content
- Assess the author's activity profile (registration date, posting frequency, follower ratio)
- Examine the hashtags: Are they relevant or spammy?
- Combine all factors to determine the likelihood of being suspicious

**Response Format (JSON ONLY):**
{
    "is_suspicious": true/false,
    "confidence": 0.0-1.0,
    "likelihood": "Low/Medium/High",
    "reasoning": "detailed explanation based on the parameters",
    "red_flags": ["flag1", "flag2", ...]
}

Confidence scale:
- 0.9-1.0: Very certain
- 0.7-0.89: Confident
- 0.5-0.69: Moderately confident
- 0.3-0.49: Uncertain
- 0.0-0.29: Very uncertain
`

// BuildPrompt renders the provider-independent analysis prompt for a flagged
// status snapshot.
func BuildPrompt(snap status.ToCheck, now time.Time) string {
	return fmt.Sprintf(
		promptTemplate,
		now.UTC().Format("2006-01-02 15:04:05 UTC"),
		snap.Content,
		snap.AuthorFollowersCount,
		snap.AuthorFollowingCount,
		snap.AuthorStatusesCount,
		snap.AuthorCreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
}
