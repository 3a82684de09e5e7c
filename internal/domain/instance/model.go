// internal/domain/instance/model.go

package instance

import (
	"time"
)

// Instance is one known fediverse server from the instances catalog. The
// directory is replaced wholesale on each refresh.
type Instance struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	AddedAt           time.Time `json:"added_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	CheckedAt         time.Time `json:"checked_at"`
	Up                bool      `json:"up"`
	Dead              bool      `json:"dead"`
	Version           string    `json:"version"`
	Users             string    `json:"users"`
	Statuses          string    `json:"statuses"`
	ActiveUsers       int       `json:"active_users"`
	OpenRegistrations bool      `json:"open_registrations"`
	Thumbnail         string    `json:"thumbnail"`
}
