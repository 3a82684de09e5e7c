// internal/domain/status/model.go

package status

import (
	"time"
)

// Tag is a hashtag attached to a status, as delivered by the feed.
type Tag struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Account is the author sub-object of a feed status. Accounts are upserted
// keyed by Acct; the mutable counters are overwritten on every observation.
type Account struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Acct           string    `json:"acct"`
	DisplayName    string    `json:"display_name"`
	Note           string    `json:"note"`
	URL            string    `json:"url"`
	Avatar         string    `json:"avatar"`
	Bot            bool      `json:"bot"`
	Locked         bool      `json:"locked"`
	CreatedAt      time.Time `json:"created_at"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	StatusesCount  int       `json:"statuses_count"`
	LastStatusAt   time.Time `json:"last_status_at"`
	InstanceURL    string    `json:"instance_url"`
}

// Status is one post from the public feed. The raw capture keeps the full
// record; the filtered copy stored at the end of listener processing carries
// the same fields with tags reduced to plain names.
type Status struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Language        string    `json:"language"`
	URI             string    `json:"uri"`
	URL             string    `json:"url"`
	Content         string    `json:"content"`
	Visibility      string    `json:"visibility"`
	Sensitive       bool      `json:"sensitive"`
	SpoilerText     string    `json:"spoiler_text"`
	InReplyToID     string    `json:"in_reply_to_id"`
	RepliesCount    int       `json:"replies_count"`
	ReblogsCount    int       `json:"reblogs_count"`
	FavouritesCount int       `json:"favourites_count"`
	Tags            []Tag     `json:"tags"`
	Account         Account   `json:"account"`
}

// TagNames returns the plain tag names in feed order.
func (s Status) TagNames() []string {
	names := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Verdict is one provider's classification result on a flagged status. All
// fields stay nil until that provider has run; a re-run overwrites them.
type Verdict struct {
	Response     *string    `json:"response"`
	Confidence   *float64   `json:"confidence"`
	IsSuspicious *bool      `json:"is_suspicious"`
	CheckedAt    *time.Time `json:"checked_at"`
}

// ToCheck is a flagged post snapshot awaiting or holding per-provider AI
// classification verdicts. Created once per flagged post; never deleted.
type ToCheck struct {
	ID                   string    `json:"id"`
	CreatedAt            time.Time `json:"created_at"`
	Language             string    `json:"language"`
	URL                  string    `json:"url"`
	Content              string    `json:"content"`
	AuthorFollowersCount int       `json:"author_followers_count"`
	AuthorFollowingCount int       `json:"author_following_count"`
	AuthorStatusesCount  int       `json:"author_statuses_count"`
	AuthorCreatedAt      time.Time `json:"author_created_at"`
	OpenAI               Verdict   `json:"openai"`
	Claude               Verdict   `json:"claude"`
	Gemini               Verdict   `json:"gemini"`
	Llama                Verdict   `json:"llama"`
}
