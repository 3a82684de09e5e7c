// internal/service/listening/listener_test.go

package listening

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedscope/internal/client/aggregate"
	"fedscope/internal/config"
	"fedscope/internal/domain/status"
	"fedscope/internal/domain/trend"
)

type fakeTrendStore struct {
	popular   map[string]bool
	known     map[string]*trend.Suspicious
	upserted  []trend.Suspicious
	nextID    int64
	setCounts map[int64]int
}

func newFakeTrendStore() *fakeTrendStore {
	return &fakeTrendStore{
		popular:   map[string]bool{},
		known:     map[string]*trend.Suspicious{},
		nextID:    1,
		setCounts: map[int64]int{},
	}
}

func (f *fakeTrendStore) IsPopular(_ context.Context, name string) (bool, error) {
	return f.popular[name], nil
}

func (f *fakeTrendStore) FindSuspicious(_ context.Context, name string) (*trend.Suspicious, error) {
	return f.known[name], nil
}

func (f *fakeTrendStore) UpsertSuspicious(_ context.Context, t trend.Suspicious) (*trend.Suspicious, error) {
	t.ID = f.nextID
	f.nextID++
	f.upserted = append(f.upserted, t)
	return &t, nil
}

func (f *fakeTrendStore) SetSimilarStatusCount(_ context.Context, id int64, count int) error {
	f.setCounts[id] = count
	return nil
}

type fakeStatusStore struct {
	raw      []status.Status
	filtered []status.Status
	byTag    map[string][]status.Status
	toCheck  []status.ToCheck
}

func newFakeStatusStore() *fakeStatusStore {
	return &fakeStatusStore{byTag: map[string][]status.Status{}}
}

func (f *fakeStatusStore) SaveRaw(_ context.Context, st status.Status) error {
	f.raw = append(f.raw, st)
	return nil
}

func (f *fakeStatusStore) SaveFiltered(_ context.Context, st status.Status) error {
	f.filtered = append(f.filtered, st)
	return nil
}

func (f *fakeStatusStore) FindByTag(_ context.Context, tag string) ([]status.Status, error) {
	return f.byTag[tag], nil
}

func (f *fakeStatusStore) SaveToCheck(_ context.Context, tc status.ToCheck) error {
	f.toCheck = append(f.toCheck, tc)
	return nil
}

type fakeAccountStore struct {
	upserted []status.Account
}

func (f *fakeAccountStore) Upsert(_ context.Context, a status.Account) error {
	f.upserted = append(f.upserted, a)
	return nil
}

type fakeCorroborator struct {
	info map[string]*aggregate.TagInfo
	err  error
}

func (f *fakeCorroborator) GetTagInfo(_ context.Context, tag string) (*aggregate.TagInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	if info, ok := f.info[tag]; ok {
		return info, nil
	}
	return &aggregate.TagInfo{}, nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestListener(trends *fakeTrendStore, statuses *fakeStatusStore, accounts *fakeAccountStore, agg *fakeCorroborator) *Listener {
	cfg := config.ListenerConfig{
		Subject:             "firehose.status",
		EventsSubject:       "trend.suspicious",
		MaxAuthorAge:        30 * 24 * time.Hour,
		MaxAuthorFollowers:  1000,
		MaxAuthorStatuses:   100,
		MaxTagAccounts:      10,
		MaxTagUses:          10,
		SimilarityThreshold: 0.5,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := NewListener(cfg, trends, statuses, accounts, agg, nil, logger)
	l.now = func() time.Time { return testNow }
	return l
}

func freshAuthor() status.Account {
	return status.Account{
		ID:             "9001",
		Acct:           "newbie@social.example.org",
		URL:            "https://social.example.org/@newbie",
		CreatedAt:      testNow.Add(-48 * time.Hour),
		FollowersCount: 3,
		FollowingCount: 10,
		StatusesCount:  5,
	}
}

func taggedStatus(id, content string, tags ...string) status.Status {
	st := status.Status{
		ID:        id,
		CreatedAt: testNow.Add(-time.Hour),
		Language:  "en",
		URL:       "https://social.example.org/@newbie/" + id,
		Content:   content,
		Account:   freshAuthor(),
	}
	for _, t := range tags {
		st.Tags = append(st.Tags, status.Tag{Name: t, URL: "https://social.example.org/tags/" + t})
	}
	return st
}

func TestOnStatusWithoutTags(t *testing.T) {
	trends := newFakeTrendStore()
	statuses := newFakeStatusStore()
	accounts := &fakeAccountStore{}
	l := newTestListener(trends, statuses, accounts, &fakeCorroborator{})

	st := taggedStatus("1", "<p>just saying hello</p>")
	require.NoError(t, l.OnStatus(context.Background(), st))

	assert.Len(t, statuses.raw, 1)
	assert.Len(t, statuses.filtered, 1)
	assert.Empty(t, trends.upserted)
	assert.Empty(t, accounts.upserted)
	assert.Empty(t, statuses.toCheck)
}

func TestOnStatusFlagsLowFootprintTag(t *testing.T) {
	trends := newFakeTrendStore()
	statuses := newFakeStatusStore()
	accounts := &fakeAccountStore{}
	agg := &fakeCorroborator{info: map[string]*aggregate.TagInfo{
		"obscuretag": {URL: "https://mastodon.social/tags/obscuretag", Accounts: 2, Uses: 4},
	}}
	l := newTestListener(trends, statuses, accounts, agg)

	st := taggedStatus("2", "<p>check this out #obscuretag</p>", "obscuretag")
	require.NoError(t, l.OnStatus(context.Background(), st))

	require.Len(t, trends.upserted, 1)
	flagged := trends.upserted[0]
	assert.Equal(t, "obscuretag", flagged.Name)
	assert.Equal(t, "https://mastodon.social/tags/obscuretag", flagged.URL)
	assert.Equal(t, 4, flagged.UsesInLastSevenDays)
	assert.Equal(t, 2, flagged.NumberOfAccounts)
	assert.Equal(t, "https://social.example.org", flagged.InstanceURL)

	require.Len(t, accounts.upserted, 1)
	assert.Equal(t, "https://social.example.org", accounts.upserted[0].InstanceURL)
	require.Len(t, statuses.toCheck, 1)
	snap := statuses.toCheck[0]
	assert.Equal(t, "2", snap.ID)
	assert.Equal(t, 3, snap.AuthorFollowersCount)
	assert.Equal(t, freshAuthor().CreatedAt, snap.AuthorCreatedAt)

	assert.Empty(t, trends.setCounts)
	assert.Len(t, statuses.filtered, 1)
}

func TestOnStatusNormalizesContent(t *testing.T) {
	trends := newFakeTrendStore()
	statuses := newFakeStatusStore()
	accounts := &fakeAccountStore{}
	agg := &fakeCorroborator{info: map[string]*aggregate.TagInfo{
		"quiettag": {URL: "https://mastodon.social/tags/quiettag", Accounts: 1, Uses: 1},
	}}
	l := newTestListener(trends, statuses, accounts, agg)

	st := taggedStatus("10", "<p>hello <b>world</b></p>", "quiettag")
	require.NoError(t, l.OnStatus(context.Background(), st))

	require.Len(t, statuses.raw, 1)
	assert.Equal(t, "hello world", statuses.raw[0].Content)
	require.Len(t, statuses.filtered, 1)
	assert.Equal(t, "hello world", statuses.filtered[0].Content)
	require.Len(t, statuses.toCheck, 1)
	assert.Equal(t, "hello world", statuses.toCheck[0].Content)
}

func TestOnStatusSkipsPopularTag(t *testing.T) {
	trends := newFakeTrendStore()
	trends.popular["caturday"] = true
	statuses := newFakeStatusStore()
	accounts := &fakeAccountStore{}
	agg := &fakeCorroborator{err: errors.New("corroborator must not be called")}
	l := newTestListener(trends, statuses, accounts, agg)

	st := taggedStatus("3", "<p>happy #caturday</p>", "caturday")
	require.NoError(t, l.OnStatus(context.Background(), st))

	assert.Empty(t, trends.upserted)
	assert.Empty(t, statuses.toCheck)
	assert.Len(t, statuses.filtered, 1)
}

func TestOnStatusSkipsKnownSuspiciousTag(t *testing.T) {
	trends := newFakeTrendStore()
	trends.known["knowntag"] = &trend.Suspicious{ID: 42, Name: "knowntag"}
	statuses := newFakeStatusStore()
	accounts := &fakeAccountStore{}
	l := newTestListener(trends, statuses, accounts, &fakeCorroborator{})

	st := taggedStatus("4", "<p>#knowntag again</p>", "knowntag")
	require.NoError(t, l.OnStatus(context.Background(), st))

	assert.Empty(t, trends.upserted)
	assert.Empty(t, statuses.toCheck)
	assert.Empty(t, trends.setCounts)
}

func TestOnStatusRechecksKnownTagWhenEnabled(t *testing.T) {
	trends := newFakeTrendStore()
	trends.known["knowntag"] = &trend.Suspicious{ID: 42, Name: "knowntag", NumberOfSimilarStatuses: 2}
	statuses := newFakeStatusStore()
	statuses.byTag["knowntag"] = []status.Status{
		taggedStatus("90", "<p>breaking news about the election</p>", "knowntag"),
	}
	accounts := &fakeAccountStore{}
	l := newTestListener(trends, statuses, accounts, &fakeCorroborator{})
	l.config.RecheckKnownTrends = true

	st := taggedStatus("5", "<p>breaking news about the election</p>", "knowntag")
	require.NoError(t, l.OnStatus(context.Background(), st))

	assert.Empty(t, trends.upserted)
	assert.Equal(t, 3, trends.setCounts[42])
}

func TestOnStatusCorroborationErrorSkipsTagOnly(t *testing.T) {
	trends := newFakeTrendStore()
	statuses := newFakeStatusStore()
	accounts := &fakeAccountStore{}
	agg := &fakeCorroborator{err: errors.New("aggregate unavailable")}
	l := newTestListener(trends, statuses, accounts, agg)

	st := taggedStatus("6", "<p>#sometag</p>", "sometag")
	require.NoError(t, l.OnStatus(context.Background(), st))

	assert.Empty(t, trends.upserted)
	assert.Empty(t, statuses.toCheck)
	assert.Len(t, statuses.filtered, 1)
}

func TestOnStatusCountsSimilarPosts(t *testing.T) {
	trends := newFakeTrendStore()
	statuses := newFakeStatusStore()
	statuses.byTag["copytag"] = []status.Status{
		taggedStatus("91", "<p>amazing deal buy now limited offer</p>", "copytag"),
		taggedStatus("92", "<p>amazing deal buy now limited offer</p>", "copytag"),
		taggedStatus("93", "<p>a quiet walk in the autumn forest</p>", "copytag"),
	}
	accounts := &fakeAccountStore{}
	agg := &fakeCorroborator{info: map[string]*aggregate.TagInfo{
		"copytag": {Accounts: 1, Uses: 3},
	}}
	l := newTestListener(trends, statuses, accounts, agg)

	st := taggedStatus("7", "<p>amazing deal buy now limited offer</p>", "copytag")
	require.NoError(t, l.OnStatus(context.Background(), st))

	require.Len(t, trends.upserted, 1)
	assert.Equal(t, 2, trends.setCounts[trends.upserted[0].ID])
}

func TestOnStatusIgnoresEstablishedAuthor(t *testing.T) {
	trends := newFakeTrendStore()
	statuses := newFakeStatusStore()
	accounts := &fakeAccountStore{}
	agg := &fakeCorroborator{err: errors.New("corroborator must not be called")}
	l := newTestListener(trends, statuses, accounts, agg)

	st := taggedStatus("8", "<p>#sometag</p>", "sometag")
	st.Account.CreatedAt = testNow.Add(-365 * 24 * time.Hour)
	st.Account.FollowersCount = 50000
	require.NoError(t, l.OnStatus(context.Background(), st))

	assert.Empty(t, trends.upserted)
	assert.Len(t, statuses.raw, 1)
	assert.Len(t, statuses.filtered, 1)
}

func TestInstanceRoot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://mastodon.social/@alice", "https://mastodon.social"},
		{"https://web.mastodon.social/@alice", "https://mastodon.social"},
		{"https://fosstodon.org/@bob", "https://fosstodon.org"},
		{"http://social.example.org/users/carol", "http://social.example.org"},
		{"not a url at all", "not a url at all"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, instanceRoot(tt.in))
	}
}
