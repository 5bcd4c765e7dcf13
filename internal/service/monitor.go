package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"trade_tracker/internal/dedup"
	"trade_tracker/internal/domain"
	"trade_tracker/internal/freshness"
)

const (
	ModeFeed = "feed"
	ModeItem = "item"
)

type Config struct {
	Mode            string
	FetchWorkers    int
	DeliveryWorkers int
	FetchTimeout    time.Duration
	CaptureTimeout  time.Duration
}

// Monitor runs one polling cycle: fetch, parse, filter, deliver, persist.
type Monitor struct {
	source     Source
	parser     AdParser
	targets    TargetStore
	freshness  *freshness.Filter
	suppressor *dedup.Suppressor
	messenger  Messenger

	screenshots Screenshotter
	publisher   Publisher
	recorder    StatsRecorder
	now         func() time.Time

	logger *slog.Logger
	cfg    Config
}

type Option func(*Monitor)

func WithScreenshotter(s Screenshotter) Option {
	return func(m *Monitor) { m.screenshots = s }
}

func WithPublisher(p Publisher) Option {
	return func(m *Monitor) { m.publisher = p }
}

func WithStatsRecorder(r StatsRecorder) Option {
	return func(m *Monitor) { m.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

func NewMonitor(
	source Source,
	parser AdParser,
	targets TargetStore,
	filter *freshness.Filter,
	suppressor *dedup.Suppressor,
	messenger Messenger,
	logger *slog.Logger,
	cfg Config,
	opts ...Option,
) *Monitor {
	if cfg.FetchWorkers < 1 {
		cfg.FetchWorkers = 1
	}
	if cfg.DeliveryWorkers < 1 {
		cfg.DeliveryWorkers = 1
	}

	m := &Monitor{
		source:     source,
		parser:     parser,
		targets:    targets,
		freshness:  filter,
		suppressor: suppressor,
		messenger:  messenger,
		now:        time.Now,
		logger:     logger.With("component", "monitor"),
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// cycle is the mutable state shared by the workers of one RunCycle call.
type cycle struct {
	mu    sync.Mutex
	now   time.Time
	stats domain.CycleStats
	shots map[string][]byte
}

func (c *cycle) add(f func(s *domain.CycleStats)) {
	c.mu.Lock()
	f(&c.stats)
	c.mu.Unlock()
}

func (c *cycle) suppressed(reason string) {
	c.add(func(s *domain.CycleStats) {
		s.Suppressed++
		s.SuppressedBy[reason]++
	})
}

// RunCycle never returns delivery or persistence errors; those are counted
// in the stats. It returns an error only when the cycle could not start or
// the feed fetch failed.
func (m *Monitor) RunCycle(ctx context.Context) (*domain.CycleStats, error) {
	start := time.Now()
	c := &cycle{
		now:   m.now(),
		stats: domain.CycleStats{SuppressedBy: map[string]int{}},
		shots: map[string][]byte{},
	}

	err := m.run(ctx, c)

	c.stats.Duration = time.Since(start)
	if m.recorder != nil {
		m.recorder.ObserveCycle(&c.stats)
	}

	m.logger.Info("cycle completed",
		"targets", c.stats.Targets,
		"parsed", c.stats.Parsed,
		"malformed", c.stats.Malformed,
		"stale", c.stats.Stale,
		"suppressed", c.stats.Suppressed,
		"delivered", c.stats.Delivered,
		"delivery_failures", c.stats.DeliveryFailures,
		"persist_failures", c.stats.PersistFailures,
		"fetch_failures", c.stats.FetchFailures,
		"duration", c.stats.Duration,
	)

	return &c.stats, err
}

func (m *Monitor) run(ctx context.Context, c *cycle) error {
	targets, err := m.targets.ListTargets(ctx)
	if err != nil {
		return fmt.Errorf("%w: list targets: %w", domain.ErrPersistence, err)
	}
	c.stats.Targets = len(targets)

	if len(targets) == 0 {
		m.logger.Debug("no tracked items")
		return nil
	}

	var adsFor func(t domain.TrackingTarget) ([]*domain.TradeAd, bool)

	switch m.cfg.Mode {
	case ModeItem:
		byItem := m.fetchPerItem(ctx, c, targets)
		adsFor = func(t domain.TrackingTarget) ([]*domain.TradeAd, bool) {
			ads, ok := byItem[t.ItemID]
			return ads, ok
		}
	default:
		markup, err := m.source.FetchFeed(ctx)
		if err != nil {
			c.stats.FetchFailures++
			return err
		}
		ads := m.prepare(c, markup)
		adsFor = func(domain.TrackingTarget) ([]*domain.TradeAd, bool) {
			return ads, true
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.DeliveryWorkers)

	for _, target := range targets {
		ads, ok := adsFor(target)
		if !ok || len(ads) == 0 {
			continue
		}
		g.Go(func() error {
			m.processTarget(gctx, c, target, ads)
			return nil
		})
	}

	return g.Wait()
}

func (m *Monitor) fetchPerItem(ctx context.Context, c *cycle, targets []domain.TrackingTarget) map[string][]*domain.TradeAd {
	seen := make(map[string]struct{})
	var items []string
	for _, t := range targets {
		if _, ok := seen[t.ItemID]; ok {
			continue
		}
		seen[t.ItemID] = struct{}{}
		items = append(items, t.ItemID)
	}

	var mu sync.Mutex
	byItem := make(map[string][]*domain.TradeAd, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.FetchWorkers)

	for _, itemID := range items {
		g.Go(func() error {
			fetchCtx := gctx
			if m.cfg.FetchTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(gctx, m.cfg.FetchTimeout)
				defer cancel()
			}

			markup, err := m.source.FetchItemTrades(fetchCtx, itemID)
			if err != nil {
				m.logger.Warn("fetch failed, skipping item this cycle", "item_id", itemID, "error", err)
				c.add(func(s *domain.CycleStats) { s.FetchFailures++ })
				return nil
			}

			ads := m.prepare(c, markup)
			mu.Lock()
			byItem[itemID] = ads
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return byItem
}

// prepare parses markup and keeps only fresh ads, with ParsedAt set.
func (m *Monitor) prepare(c *cycle, markup string) []*domain.TradeAd {
	res, err := m.parser.ParseDocument(markup)
	if err != nil {
		m.logger.Warn("parse failed", "error", err)
		return nil
	}

	fresh := make([]*domain.TradeAd, 0, len(res.Ads))
	stale := 0
	for _, ad := range res.Ads {
		at, ok := m.freshness.Parse(ad.PostedAt, c.now)
		if !ok {
			stale++
			continue
		}
		ad.ParsedAt = &at
		fresh = append(fresh, ad)
	}

	c.add(func(s *domain.CycleStats) {
		s.Parsed += len(res.Ads)
		s.Malformed += res.Malformed
		s.Stale += stale
	})

	return fresh
}

func (m *Monitor) processTarget(ctx context.Context, c *cycle, target domain.TrackingTarget, ads []*domain.TradeAd) {
	log := m.logger.With("target", target.TargetKey.String())

	for _, ad := range ads {
		if ctx.Err() != nil {
			return
		}
		if !target.Matches(ad) {
			continue
		}

		verdict, err := m.suppressor.Check(ctx, ad, target, c.now)
		if err != nil {
			log.Warn("duplicate check failed, skipping ad", "fingerprint", ad.Fingerprint, "error", err)
			c.suppressed("cache_error")
			continue
		}
		if verdict != dedup.Accept {
			log.Debug("ad suppressed", "poster", ad.PosterName, "reason", verdict)
			c.suppressed(string(verdict))
			continue
		}

		delivery := &domain.Delivery{Ad: ad, Target: target, Screenshot: m.screenshot(ctx, c, ad)}

		if err := m.messenger.SendToChannel(ctx, delivery); err != nil {
			c.add(func(s *domain.CycleStats) { s.DeliveryFailures++ })
			if errors.Is(err, domain.ErrChannelNotFound) {
				log.Warn("channel not found, will retry next cycle", "error", err)
			} else {
				log.Error("delivery failed, will retry next cycle", "error", err)
			}
			continue
		}

		sentAt := m.now()
		if err := m.suppressor.Record(ctx, ad, target, sentAt); err != nil {
			log.Warn("record delivery in cache failed", "fingerprint", ad.Fingerprint, "error", err)
		}

		if err := m.targets.UpdateLastSeen(ctx, target.TargetKey, ad.Fingerprint); err != nil {
			c.add(func(s *domain.CycleStats) {
				s.Delivered++
				s.PersistFailures++
			})
			log.Error("persist last seen ad failed, stopping target for this cycle",
				"fingerprint", ad.Fingerprint,
				"error", fmt.Errorf("%w: %w", domain.ErrPersistence, err),
			)
			return
		}
		target.LastSeenAdFingerprint = ad.Fingerprint
		c.add(func(s *domain.CycleStats) { s.Delivered++ })

		log.Info("ad delivered", "poster", ad.PosterName, "fingerprint", ad.Fingerprint)

		if target.ForwardToDMs {
			if err := m.messenger.SendToUser(ctx, delivery); err != nil {
				log.Warn("dm forward failed", "error", err)
			}
		}

		if m.publisher != nil {
			event := &domain.DeliveryEvent{
				Action:      "delivered",
				Fingerprint: ad.Fingerprint,
				Target:      target.TargetKey,
				Poster:      ad.PosterName,
				PostedAt:    *ad.ParsedAt,
				Timestamp:   sentAt.UTC(),
			}
			if err := m.publisher.Publish(ctx, event); err != nil {
				log.Warn("publish delivery event failed", "error", err)
			}
		}
	}
}

// screenshot captures the ad page once per cycle. Failures yield nil.
func (m *Monitor) screenshot(ctx context.Context, c *cycle, ad *domain.TradeAd) []byte {
	if m.screenshots == nil || ad.DetailsURL == "" {
		return nil
	}

	c.mu.Lock()
	shot, ok := c.shots[ad.Fingerprint]
	c.mu.Unlock()
	if ok {
		return shot
	}

	captureCtx := ctx
	if m.cfg.CaptureTimeout > 0 {
		var cancel context.CancelFunc
		captureCtx, cancel = context.WithTimeout(ctx, m.cfg.CaptureTimeout)
		defer cancel()
	}

	shot, err := m.screenshots.Capture(captureCtx, ad.DetailsURL)
	if err != nil {
		m.logger.Warn("screenshot failed, sending without image", "url", ad.DetailsURL, "error", err)
		shot = nil
	}

	c.mu.Lock()
	c.shots[ad.Fingerprint] = shot
	c.mu.Unlock()
	return shot
}
