// internal/client/aggregate/client.go

package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fedscope/internal/domain/trend"
)

// Client talks to a fediverse server's aggregate-trend API. Every call is a
// fresh network request; nothing is cached and nothing is retried.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a new aggregate-trend client
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TagInfo is the seven-day aggregate picture of one hashtag.
type TagInfo struct {
	URL      string
	Accounts int
	Uses     int
}

type tagHistory struct {
	Uses     string `json:"uses"`
	Accounts string `json:"accounts"`
}

type tagResponse struct {
	Name    string       `json:"name"`
	URL     string       `json:"url"`
	History []tagHistory `json:"history"`
	Error   string       `json:"error"`
}

// GetTagInfo fetches the aggregate usage and account counts for a tag over
// the last seven days.
func (c *Client) GetTagInfo(ctx context.Context, tag string) (*TagInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v1/tags/%s", c.BaseURL, url.PathEscape(tag))

	var payload tagResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("aggregate service error for tag %q: %s", tag, payload.Error)
	}

	info := &TagInfo{URL: payload.URL}
	for _, day := range payload.History {
		uses, err := strconv.Atoi(day.Uses)
		if err != nil {
			return nil, fmt.Errorf("parsing tag uses %q: %w", day.Uses, err)
		}
		accounts, err := strconv.Atoi(day.Accounts)
		if err != nil {
			return nil, fmt.Errorf("parsing tag accounts %q: %w", day.Accounts, err)
		}
		info.Uses += uses
		if accounts > info.Accounts {
			info.Accounts = accounts
		}
	}

	return info, nil
}

type trendingTag struct {
	Name    string       `json:"name"`
	URL     string       `json:"url"`
	History []tagHistory `json:"history"`
}

// GetTrendingTags fetches the server's currently trending tags, with usage
// summed over the reported history window.
func (c *Client) GetTrendingTags(ctx context.Context) ([]trend.Trend, error) {
	endpoint := fmt.Sprintf("%s/api/v1/trends/tags?limit=20", c.BaseURL)

	var payload []trendingTag
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	trends := make([]trend.Trend, 0, len(payload))
	for _, t := range payload {
		uses := 0
		for _, day := range t.History {
			n, err := strconv.Atoi(day.Uses)
			if err != nil {
				return nil, fmt.Errorf("parsing trend uses %q: %w", day.Uses, err)
			}
			uses += n
		}
		trends = append(trends, trend.Trend{
			Name:                t.Name,
			URL:                 t.URL,
			UsesInLastSevenDays: uses,
		})
	}

	return trends, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling aggregate service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("aggregate service returned status code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding aggregate response: %w", err)
	}

	return nil
}
