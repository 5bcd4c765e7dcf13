package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"trade_tracker/internal/adparse"
	"trade_tracker/internal/domain"
)

type TargetStore interface {
	ListTargets(ctx context.Context) ([]domain.TrackingTarget, error)
	UpdateLastSeen(ctx context.Context, key domain.TargetKey, fingerprint string) error
}

type Source interface {
	FetchFeed(ctx context.Context) (string, error)
	FetchItemTrades(ctx context.Context, itemID string) (string, error)
}

type AdParser interface {
	ParseDocument(markup string) (adparse.Result, error)
}

type Messenger interface {
	SendToChannel(ctx context.Context, d *domain.Delivery) error
	SendToUser(ctx context.Context, d *domain.Delivery) error
}

type Screenshotter interface {
	Capture(ctx context.Context, pageURL string) ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.DeliveryEvent) error
	Close() error
}

type StatsRecorder interface {
	ObserveCycle(stats *domain.CycleStats)
}
