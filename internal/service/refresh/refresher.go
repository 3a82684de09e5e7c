// internal/service/refresh/refresher.go

// Package refresh keeps the local snapshots of external aggregate data
// (popular trends, live instances) current on a schedule.
package refresh

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"fedscope/internal/config"
	"fedscope/internal/domain/instance"
	"fedscope/internal/domain/trend"
)

// TrendSource provides the upstream trending tags
type TrendSource interface {
	GetTrendingTags(ctx context.Context) ([]trend.Trend, error)
}

// InstanceSource provides the upstream instances catalog
type InstanceSource interface {
	ListInstances(ctx context.Context) ([]instance.Instance, error)
}

// TrendSink replaces the stored popular-trend snapshot
type TrendSink interface {
	ReplacePopular(ctx context.Context, trends []trend.Trend) error
}

// InstanceSink replaces the stored instances snapshot
type InstanceSink interface {
	ReplaceAll(ctx context.Context, instances []instance.Instance) error
}

type Refresher struct {
	config    config.RefreshConfig
	trends    TrendSource
	instances InstanceSource
	trendDB   TrendSink
	instDB    InstanceSink
	logger    *slog.Logger
	cron      *cron.Cron
}

func NewRefresher(
	cfg config.RefreshConfig,
	trends TrendSource,
	instances InstanceSource,
	trendDB TrendSink,
	instDB InstanceSink,
	logger *slog.Logger,
) *Refresher {
	return &Refresher{
		config:    cfg,
		trends:    trends,
		instances: instances,
		trendDB:   trendDB,
		instDB:    instDB,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start registers the refresh jobs and runs each once immediately so the
// snapshots are populated before the first tick.
func (r *Refresher) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.config.TrendsSchedule, func() { r.refreshTrends(ctx) }); err != nil {
		return fmt.Errorf("scheduling trends refresh: %w", err)
	}
	if _, err := r.cron.AddFunc(r.config.InstancesSchedule, func() { r.refreshInstances(ctx) }); err != nil {
		return fmt.Errorf("scheduling instances refresh: %w", err)
	}

	r.refreshTrends(ctx)
	r.refreshInstances(ctx)

	r.cron.Start()
	return nil
}

// Stop halts the schedule. Jobs already running finish on their own.
func (r *Refresher) Stop() {
	r.cron.Stop()
}

func (r *Refresher) refreshTrends(ctx context.Context) {
	trends, err := r.trends.GetTrendingTags(ctx)
	if err != nil {
		r.logger.Error("fetching trending tags", "error", err)
		return
	}
	if err := r.trendDB.ReplacePopular(ctx, trends); err != nil {
		r.logger.Error("storing trending tags", "error", err)
		return
	}
	r.logger.Info("popular trends refreshed", "count", len(trends))
}

func (r *Refresher) refreshInstances(ctx context.Context) {
	instances, err := r.instances.ListInstances(ctx)
	if err != nil {
		r.logger.Error("fetching instances catalog", "error", err)
		return
	}
	if err := r.instDB.ReplaceAll(ctx, instances); err != nil {
		r.logger.Error("storing instances catalog", "error", err)
		return
	}
	r.logger.Info("instances refreshed", "count", len(instances))
}
