// Package dedup decides whether an ad was already delivered to a tracking
// target. Every cache key is scoped to one target.
package dedup

import (
	"context"
	"fmt"
	"time"

	"trade_tracker/internal/domain"
)

type Verdict string

const (
	Accept               Verdict = "accept"
	SeenLastDelivered    Verdict = "last_seen"
	SeenPosted           Verdict = "posted"
	SeenUserItem         Verdict = "user_item"
	SeenContent          Verdict = "content"
	BeforeTrackingStart  Verdict = "before_tracking"
	MissingPostedInstant Verdict = "unparsed"
)

type Config struct {
	UserItemWindow time.Duration
	ContentWindow  time.Duration
	// PostedTTL bounds how long a fingerprint stays in the posted set.
	PostedTTL time.Duration
}

type Suppressor struct {
	cache Cache
	cfg   Config
}

func NewSuppressor(cache Cache, cfg Config) *Suppressor {
	return &Suppressor{cache: cache, cfg: cfg}
}

func (s *Suppressor) Check(ctx context.Context, ad *domain.TradeAd, target domain.TrackingTarget, now time.Time) (Verdict, error) {
	if ad.ParsedAt == nil {
		return MissingPostedInstant, nil
	}
	if ad.ParsedAt.Before(target.TrackingStartedAt) {
		return BeforeTrackingStart, nil
	}
	if ad.Fingerprint == target.LastSeenAdFingerprint {
		return SeenLastDelivered, nil
	}

	if _, ok, err := s.cache.Get(ctx, postedKey(ad, target)); err != nil {
		return "", fmt.Errorf("posted lookup: %w", err)
	} else if ok {
		return SeenPosted, nil
	}

	if seen, err := s.within(ctx, userItemKey(ad, target), s.cfg.UserItemWindow, now); err != nil {
		return "", fmt.Errorf("user item lookup: %w", err)
	} else if seen {
		return SeenUserItem, nil
	}

	if seen, err := s.within(ctx, contentKey(ad, target), s.cfg.ContentWindow, now); err != nil {
		return "", fmt.Errorf("content lookup: %w", err)
	} else if seen {
		return SeenContent, nil
	}

	return Accept, nil
}

// Record marks the ad as delivered to target. Call only after the channel
// send succeeded.
func (s *Suppressor) Record(ctx context.Context, ad *domain.TradeAd, target domain.TrackingTarget, now time.Time) error {
	if err := s.cache.Set(ctx, postedKey(ad, target), now, s.cfg.PostedTTL); err != nil {
		return fmt.Errorf("record posted: %w", err)
	}
	if err := s.cache.Set(ctx, userItemKey(ad, target), now, s.cfg.UserItemWindow); err != nil {
		return fmt.Errorf("record user item: %w", err)
	}
	if err := s.cache.Set(ctx, contentKey(ad, target), now, s.cfg.ContentWindow); err != nil {
		return fmt.Errorf("record content: %w", err)
	}
	return nil
}

func (s *Suppressor) within(ctx context.Context, key string, window time.Duration, now time.Time) (bool, error) {
	at, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return now.Sub(at) < window, nil
}

func postedKey(ad *domain.TradeAd, t domain.TrackingTarget) string {
	return fmt.Sprintf("%s|posted|%s", t.TargetKey, ad.Fingerprint)
}

func userItemKey(ad *domain.TradeAd, t domain.TrackingTarget) string {
	return fmt.Sprintf("%s|user|%s|%s", t.TargetKey, ad.PosterName, t.ItemID)
}

func contentKey(ad *domain.TradeAd, t domain.TrackingTarget) string {
	return fmt.Sprintf("%s|content|%s|%s|%s", t.TargetKey, ad.PosterName, t.ItemID, ad.Fingerprint)
}
