// internal/service/listening/listener.go

package listening

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"fedscope/internal/analysis"
	"fedscope/internal/client/aggregate"
	"fedscope/internal/config"
	"fedscope/internal/domain/status"
	"fedscope/internal/domain/trend"
)

// TrendStore defines trend storage as needed by the listener
type TrendStore interface {
	IsPopular(ctx context.Context, name string) (bool, error)
	FindSuspicious(ctx context.Context, name string) (*trend.Suspicious, error)
	UpsertSuspicious(ctx context.Context, t trend.Suspicious) (*trend.Suspicious, error)
	SetSimilarStatusCount(ctx context.Context, id int64, count int) error
}

// StatusStore defines status storage as needed by the listener
type StatusStore interface {
	SaveRaw(ctx context.Context, st status.Status) error
	SaveFiltered(ctx context.Context, st status.Status) error
	FindByTag(ctx context.Context, tag string) ([]status.Status, error)
	SaveToCheck(ctx context.Context, tc status.ToCheck) error
}

// AccountStore defines account storage as needed by the listener
type AccountStore interface {
	Upsert(ctx context.Context, a status.Account) error
}

// Corroborator checks a hashtag's usage against an independent aggregate
// before the tag may be marked suspicious
type Corroborator interface {
	GetTagInfo(ctx context.Context, tag string) (*aggregate.TagInfo, error)
}

// Listener consumes the status firehose and flags low-footprint trends
type Listener struct {
	config    config.ListenerConfig
	trends    TrendStore
	statuses  StatusStore
	accounts  AccountStore
	aggregate Corroborator
	eventBus  *nats.Conn
	logger    *slog.Logger
	now       func() time.Time
}

// NewListener creates a listener. eventBus may be nil, in which case no
// detection events are published.
func NewListener(
	cfg config.ListenerConfig,
	trends TrendStore,
	statuses StatusStore,
	accounts AccountStore,
	corroborator Corroborator,
	eventBus *nats.Conn,
	logger *slog.Logger,
) *Listener {
	return &Listener{
		config:    cfg,
		trends:    trends,
		statuses:  statuses,
		accounts:  accounts,
		aggregate: corroborator,
		eventBus:  eventBus,
		logger:    logger,
		now:       time.Now,
	}
}

// Run subscribes to the firehose subject and processes statuses one at a
// time until the context is cancelled. Processing is sequential so counter
// updates for the same tag never race.
func (l *Listener) Run(ctx context.Context) error {
	if l.eventBus == nil {
		return fmt.Errorf("listener requires a NATS connection")
	}

	msgs := make(chan *nats.Msg, 64)
	sub, err := l.eventBus.ChanSubscribe(l.config.Subject, msgs)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", l.config.Subject, err)
	}
	defer sub.Unsubscribe()

	l.logger.Info("listener started", "subject", l.config.Subject)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-msgs:
			var st status.Status
			if err := json.Unmarshal(msg.Data, &st); err != nil {
				l.logger.Warn("dropping undecodable status", "error", err)
				continue
			}
			if err := l.OnStatus(ctx, st); err != nil {
				l.logger.Error("processing status", "status_id", st.ID, "error", err)
			}
		}
	}
}

// OnStatus runs the full detection pass for one status. Content is
// normalized to plain text up front, so every persisted copy (raw, filtered,
// review snapshot) and the downstream classification prompt see markup-free
// text.
func (l *Listener) OnStatus(ctx context.Context, st status.Status) error {
	st.Content = analysis.StripHTML(st.Content)

	if err := l.statuses.SaveRaw(ctx, st); err != nil {
		l.logger.Error("saving raw status", "status_id", st.ID, "error", err)
	}

	if len(st.Tags) > 0 && l.authorInRiskCohort(st.Account) {
		for _, tag := range st.Tags {
			if err := l.checkTag(ctx, tag, st); err != nil {
				l.logger.Warn("tag check skipped", "tag", tag.Name, "error", err)
			}
		}
	}

	return l.statuses.SaveFiltered(ctx, st)
}

// authorInRiskCohort reports whether the author's profile matches the
// low-footprint cohort worth watching: recently registered, few followers,
// few posts.
func (l *Listener) authorInRiskCohort(a status.Account) bool {
	age := l.now().Sub(a.CreatedAt)
	return age < l.config.MaxAuthorAge &&
		a.FollowersCount <= l.config.MaxAuthorFollowers &&
		a.StatusesCount <= l.config.MaxAuthorStatuses
}

func (l *Listener) checkTag(ctx context.Context, tag status.Tag, st status.Status) error {
	popular, err := l.trends.IsPopular(ctx, tag.Name)
	if err != nil {
		return fmt.Errorf("checking popular trends: %w", err)
	}
	if popular {
		return nil
	}

	known, err := l.trends.FindSuspicious(ctx, tag.Name)
	if err != nil {
		return fmt.Errorf("checking known suspicious trends: %w", err)
	}
	if known != nil {
		if l.config.RecheckKnownTrends {
			return l.accumulateSimilar(ctx, *known, tag.Name, st)
		}
		return nil
	}

	info, err := l.aggregate.GetTagInfo(ctx, tag.Name)
	if err != nil {
		return fmt.Errorf("corroborating tag: %w", err)
	}
	if info.Accounts > l.config.MaxTagAccounts || info.Uses > l.config.MaxTagUses {
		return nil
	}

	author := st.Account
	author.InstanceURL = instanceRoot(author.URL)
	if err := l.accounts.Upsert(ctx, author); err != nil {
		return fmt.Errorf("saving account: %w", err)
	}

	saved, err := l.trends.UpsertSuspicious(ctx, trend.Suspicious{
		Name:                tag.Name,
		URL:                 info.URL,
		UsesInLastSevenDays: info.Uses,
		NumberOfAccounts:    info.Accounts,
		InstanceURL:         author.InstanceURL,
	})
	if err != nil {
		return fmt.Errorf("saving suspicious trend: %w", err)
	}

	l.logger.Info("suspicious trend flagged",
		"tag", tag.Name,
		"uses", info.Uses,
		"accounts", info.Accounts,
		"instance", saved.InstanceURL,
		"status_id", st.ID,
	)

	if err := l.accumulateSimilar(ctx, *saved, tag.Name, st); err != nil {
		l.logger.Warn("similarity accounting failed", "tag", tag.Name, "error", err)
	}

	if err := l.statuses.SaveToCheck(ctx, toCheckSnapshot(st)); err != nil {
		return fmt.Errorf("queueing status for review: %w", err)
	}

	l.publishDetection(*saved)
	return nil
}

// accumulateSimilar counts previously captured posts under the same tag whose
// text is close to the current post, and records the updated absolute count.
func (l *Listener) accumulateSimilar(ctx context.Context, t trend.Suspicious, tag string, st status.Status) error {
	others, err := l.statuses.FindByTag(ctx, tag)
	if err != nil {
		return fmt.Errorf("loading posts for tag: %w", err)
	}

	similar := 0
	for _, other := range others {
		if other.ID == st.ID {
			continue
		}
		if analysis.Similarity(st.Content, analysis.StripHTML(other.Content)) >= l.config.SimilarityThreshold {
			similar++
		}
	}
	if similar == 0 {
		return nil
	}
	return l.trends.SetSimilarStatusCount(ctx, t.ID, t.NumberOfSimilarStatuses+similar)
}

func (l *Listener) publishDetection(t trend.Suspicious) {
	if l.eventBus == nil {
		return
	}
	payload, err := json.Marshal(t)
	if err != nil {
		l.logger.Error("encoding detection event", "tag", t.Name, "error", err)
		return
	}
	if err := l.eventBus.Publish(l.config.EventsSubject, payload); err != nil {
		l.logger.Error("publishing detection event", "tag", t.Name, "error", err)
	}
}

// toCheckSnapshot freezes the author metrics alongside the post so later
// classification sees the profile as it was at detection time.
func toCheckSnapshot(st status.Status) status.ToCheck {
	return status.ToCheck{
		ID:                   st.ID,
		CreatedAt:            st.CreatedAt,
		Language:             st.Language,
		URL:                  st.URL,
		Content:              st.Content,
		AuthorFollowersCount: st.Account.FollowersCount,
		AuthorFollowingCount: st.Account.FollowingCount,
		AuthorStatusesCount:  st.Account.StatusesCount,
		AuthorCreatedAt:      st.Account.CreatedAt,
	}
}

var instanceRootRe = regexp.MustCompile(`^(https?://[\w.-]+)`)

// instanceRoot derives the home instance base URL from an account URL.
// mastodon.social accounts are normalized to the canonical host; anything the
// pattern cannot parse falls back to the raw URL.
func instanceRoot(accountURL string) string {
	if strings.Contains(accountURL, "mastodon.social") {
		return "https://mastodon.social"
	}
	if m := instanceRootRe.FindStringSubmatch(accountURL); m != nil {
		return m[1]
	}
	return accountURL
}
