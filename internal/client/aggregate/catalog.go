// internal/client/aggregate/catalog.go

package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fedscope/internal/domain/instance"
)

// Catalog talks to the instances catalog service that tracks known fediverse
// servers.
type Catalog struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewCatalog creates a new instances catalog client
func NewCatalog(baseURL, token string, timeout time.Duration) *Catalog {
	return &Catalog{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

const catalogTimeLayout = "2006-01-02T15:04:05.000Z"

type catalogInstance struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	AddedAt           string `json:"added_at"`
	UpdatedAt         string `json:"updated_at"`
	CheckedAt         string `json:"checked_at"`
	Up                bool   `json:"up"`
	Dead              bool   `json:"dead"`
	Version           string `json:"version"`
	Users             string `json:"users"`
	Statuses          string `json:"statuses"`
	ActiveUsers       int    `json:"active_users"`
	OpenRegistrations bool   `json:"open_registrations"`
	Thumbnail         string `json:"thumbnail"`
}

type catalogResponse struct {
	Instances []catalogInstance `json:"instances"`
}

// ListInstances fetches the catalog's directory of live instances with a
// meaningful user base.
func (c *Catalog) ListInstances(ctx context.Context) ([]instance.Instance, error) {
	endpoint := fmt.Sprintf(
		"%s/api/1.0/instances/list?count=10000&include_down=false&min_active_users=100",
		c.BaseURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling instances catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instances catalog returned status code %d", resp.StatusCode)
	}

	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}

	instances := make([]instance.Instance, 0, len(payload.Instances))
	for _, in := range payload.Instances {
		instances = append(instances, instance.Instance{
			ID:                in.ID,
			Name:              in.Name,
			AddedAt:           parseCatalogTime(in.AddedAt),
			UpdatedAt:         parseCatalogTime(in.UpdatedAt),
			CheckedAt:         parseCatalogTime(in.CheckedAt),
			Up:                in.Up,
			Dead:              in.Dead,
			Version:           in.Version,
			Users:             in.Users,
			Statuses:          in.Statuses,
			ActiveUsers:       in.ActiveUsers,
			OpenRegistrations: in.OpenRegistrations,
			Thumbnail:         in.Thumbnail,
		})
	}

	return instances, nil
}

func parseCatalogTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(catalogTimeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
