// internal/service/refresh/refresher_test.go

package refresh

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedscope/internal/config"
	"fedscope/internal/domain/instance"
	"fedscope/internal/domain/trend"
)

type fakeTrendSource struct {
	trends []trend.Trend
	err    error
}

func (f *fakeTrendSource) GetTrendingTags(context.Context) ([]trend.Trend, error) {
	return f.trends, f.err
}

type fakeInstanceSource struct {
	instances []instance.Instance
}

func (f *fakeInstanceSource) ListInstances(context.Context) ([]instance.Instance, error) {
	return f.instances, nil
}

type fakeTrendSink struct {
	replaced [][]trend.Trend
}

func (f *fakeTrendSink) ReplacePopular(_ context.Context, trends []trend.Trend) error {
	f.replaced = append(f.replaced, trends)
	return nil
}

type fakeInstanceSink struct {
	replaced [][]instance.Instance
}

func (f *fakeInstanceSink) ReplaceAll(_ context.Context, instances []instance.Instance) error {
	f.replaced = append(f.replaced, instances)
	return nil
}

func newTestRefresher(ts *fakeTrendSource, is *fakeInstanceSource, tsink *fakeTrendSink, isink *fakeInstanceSink) *Refresher {
	cfg := config.RefreshConfig{TrendsSchedule: "@every 1h", InstancesSchedule: "@every 24h"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRefresher(cfg, ts, is, tsink, isink, logger)
}

func TestStartRunsInitialRefresh(t *testing.T) {
	ts := &fakeTrendSource{trends: []trend.Trend{{Name: "caturday", UsesInLastSevenDays: 900}}}
	is := &fakeInstanceSource{instances: []instance.Instance{{Name: "fosstodon.org"}}}
	tsink := &fakeTrendSink{}
	isink := &fakeInstanceSink{}

	r := newTestRefresher(ts, is, tsink, isink)
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	require.Len(t, tsink.replaced, 1)
	assert.Equal(t, "caturday", tsink.replaced[0][0].Name)
	require.Len(t, isink.replaced, 1)
	assert.Equal(t, "fosstodon.org", isink.replaced[0][0].Name)
}

func TestFetchErrorLeavesSnapshotUntouched(t *testing.T) {
	ts := &fakeTrendSource{err: errors.New("upstream down")}
	is := &fakeInstanceSource{}
	tsink := &fakeTrendSink{}
	isink := &fakeInstanceSink{}

	r := newTestRefresher(ts, is, tsink, isink)
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.Empty(t, tsink.replaced)
	require.Len(t, isink.replaced, 1)
}

func TestBadScheduleFailsStart(t *testing.T) {
	r := newTestRefresher(&fakeTrendSource{}, &fakeInstanceSource{}, &fakeTrendSink{}, &fakeInstanceSink{})
	r.config.TrendsSchedule = "not a schedule"
	assert.Error(t, r.Start(context.Background()))
}
