package tracking

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"trade_tracker/internal/domain"
)

type TrackedItemStore interface {
	Create(ctx context.Context, target *domain.TrackingTarget) error
	Delete(ctx context.Context, key domain.TargetKey) error
	ListByUser(ctx context.Context, guildID, channelID, userID string) ([]domain.TrackingTarget, error)
	ListItemsByGuild(ctx context.Context, guildID string) ([]domain.TrackedItem, error)
	SetForwardToDMs(ctx context.Context, key domain.TargetKey, enabled bool) error
	SetForwardToDMsAll(ctx context.Context, guildID, channelID, userID string, enabled bool) error
}

type WhitelistStore interface {
	Add(ctx context.Context, guildID, channelID string) error
	IsWhitelisted(ctx context.Context, guildID, channelID string) (bool, error)
}

type ItemNamer interface {
	ItemName(ctx context.Context, itemID string) (string, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
