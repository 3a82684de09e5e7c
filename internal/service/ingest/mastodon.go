// internal/service/ingest/mastodon.go

// Package ingest bridges the public Mastodon streaming API onto the internal
// NATS firehose, decoupling capture from detection.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	mastodon "github.com/mattn/go-mastodon"
	"github.com/nats-io/nats.go"

	"fedscope/internal/config"
	"fedscope/internal/domain/status"
)

type Bridge struct {
	client   *mastodon.Client
	eventBus *nats.Conn
	subject  string
	logger   *slog.Logger
}

func NewBridge(cfg config.MastodonConfig, subject string, eventBus *nats.Conn, logger *slog.Logger) *Bridge {
	client := mastodon.NewClient(&mastodon.Config{
		Server:      cfg.Endpoint,
		AccessToken: cfg.AccessToken,
	})
	return &Bridge{
		client:   client,
		eventBus: eventBus,
		subject:  subject,
		logger:   logger,
	}
}

// Run consumes the federated public timeline and republishes each status on
// the firehose subject until the context is cancelled. The underlying client
// reconnects on its own; a closed event channel is the only exit besides
// cancellation.
func (b *Bridge) Run(ctx context.Context) error {
	events, err := b.client.StreamingPublic(ctx, false)
	if err != nil {
		return fmt.Errorf("opening public stream: %w", err)
	}

	b.logger.Info("ingest bridge started", "server", b.client.Config.Server, "subject", b.subject)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("public stream closed")
			}
			switch ev := event.(type) {
			case *mastodon.UpdateEvent:
				b.forward(ev.Status)
			case *mastodon.ErrorEvent:
				b.logger.Warn("stream error", "error", ev.Error())
			}
		}
	}
}

func (b *Bridge) forward(src *mastodon.Status) {
	if src == nil {
		return
	}
	payload, err := json.Marshal(convert(src))
	if err != nil {
		b.logger.Error("encoding status", "status_id", src.ID, "error", err)
		return
	}
	if err := b.eventBus.Publish(b.subject, payload); err != nil {
		b.logger.Error("publishing status", "status_id", src.ID, "error", err)
	}
}

func convert(src *mastodon.Status) status.Status {
	tags := make([]status.Tag, 0, len(src.Tags))
	for _, t := range src.Tags {
		tags = append(tags, status.Tag{Name: t.Name, URL: t.URL})
	}

	var inReplyTo string
	if id, ok := src.InReplyToID.(string); ok {
		inReplyTo = id
	}

	return status.Status{
		ID:              string(src.ID),
		CreatedAt:       src.CreatedAt,
		Language:        src.Language,
		URI:             src.URI,
		URL:             src.URL,
		Content:         src.Content,
		Visibility:      src.Visibility,
		Sensitive:       src.Sensitive,
		SpoilerText:     src.SpoilerText,
		InReplyToID:     inReplyTo,
		RepliesCount:    int(src.RepliesCount),
		ReblogsCount:    int(src.ReblogsCount),
		FavouritesCount: int(src.FavouritesCount),
		Tags:            tags,
		Account: status.Account{
			ID:             string(src.Account.ID),
			Username:       src.Account.Username,
			Acct:           src.Account.Acct,
			DisplayName:    src.Account.DisplayName,
			Note:           src.Account.Note,
			URL:            src.Account.URL,
			Avatar:         src.Account.Avatar,
			Bot:            src.Account.Bot,
			Locked:         src.Account.Locked,
			CreatedAt:      src.Account.CreatedAt,
			FollowersCount: int(src.Account.FollowersCount),
			FollowingCount: int(src.Account.FollowingCount),
			StatusesCount:  int(src.Account.StatusesCount),
		},
	}
}
