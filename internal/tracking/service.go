// Package tracking implements the slash-command use-cases: whitelisting
// channels and managing a user's tracked items.
package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"trade_tracker/internal/domain"
)

const UnknownItemName = "Unknown Item"

var itemIDPattern = regexp.MustCompile(`^\d+$`)

// Caller identifies who issued a command and where.
type Caller struct {
	GuildID   string
	ChannelID string
	UserID    string
}

func (c Caller) key(itemID string) domain.TargetKey {
	return domain.TargetKey{GuildID: c.GuildID, ChannelID: c.ChannelID, UserID: c.UserID, ItemID: itemID}
}

type Service struct {
	items     TrackedItemStore
	whitelist WhitelistStore
	txManager TransactionManager
	names     ItemNamer
	ownerID   string
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(
	items TrackedItemStore,
	whitelist WhitelistStore,
	txManager TransactionManager,
	names ItemNamer,
	ownerID string,
	logger *slog.Logger,
) *Service {
	return &Service{
		items:     items,
		whitelist: whitelist,
		txManager: txManager,
		names:     names,
		ownerID:   ownerID,
		now:       time.Now,
		logger:    logger.With("component", "tracking"),
	}
}

func (s *Service) WhitelistChannel(ctx context.Context, guildID, channelID string) error {
	if err := s.whitelist.Add(ctx, guildID, channelID); err != nil {
		return fmt.Errorf("whitelist channel: %w", err)
	}
	s.logger.Info("channel whitelisted", "guild_id", guildID, "channel_id", channelID)
	return nil
}

// Track starts tracking itemID for the caller. Only ads posted after this
// moment are delivered.
func (s *Service) Track(ctx context.Context, c Caller, itemID string) (*domain.TrackingTarget, error) {
	if !itemIDPattern.MatchString(itemID) {
		return nil, domain.ErrInvalidItemID
	}
	if err := s.requireWhitelisted(ctx, c); err != nil {
		return nil, err
	}

	name, err := s.names.ItemName(ctx, itemID)
	if err != nil {
		s.logger.Warn("item name lookup failed", "item_id", itemID, "error", err)
	}
	if name == "" {
		name = UnknownItemName
	}

	now := s.now().UTC()
	target := &domain.TrackingTarget{
		TargetKey:         c.key(itemID),
		ItemName:          name,
		TrackingStartedAt: now,
		CreatedAt:         now,
	}

	if err := s.items.Create(ctx, target); err != nil {
		return nil, fmt.Errorf("create tracked item: %w", err)
	}

	s.logger.Info("tracking started", "target", target.TargetKey.String(), "item_name", name)
	return target, nil
}

func (s *Service) Untrack(ctx context.Context, c Caller, itemID string) error {
	if err := s.requireWhitelisted(ctx, c); err != nil {
		return err
	}
	return s.delete(ctx, c.key(itemID))
}

// AdminUntrack removes another user's target. userID defaults to the caller.
func (s *Service) AdminUntrack(ctx context.Context, c Caller, userID, itemID string) error {
	if s.ownerID == "" || c.UserID != s.ownerID {
		return domain.ErrNotAuthorized
	}
	if err := s.requireWhitelisted(ctx, c); err != nil {
		return err
	}
	if userID == "" {
		userID = c.UserID
	}

	key := c.key(itemID)
	key.UserID = userID
	return s.delete(ctx, key)
}

// ForwardToDMs toggles DM forwarding for one item, or for every item the
// caller tracks in this channel when itemID is empty. It returns the
// affected item ids.
func (s *Service) ForwardToDMs(ctx context.Context, c Caller, itemID string, enabled bool) ([]string, error) {
	if err := s.requireWhitelisted(ctx, c); err != nil {
		return nil, err
	}

	if itemID != "" {
		if err := s.items.SetForwardToDMs(ctx, c.key(itemID), enabled); err != nil {
			return nil, fmt.Errorf("set dm forwarding: %w", err)
		}
		return []string{itemID}, nil
	}

	var affected []string
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		targets, err := s.items.ListByUser(txCtx, c.GuildID, c.ChannelID, c.UserID)
		if err != nil {
			return fmt.Errorf("list tracked items: %w", err)
		}
		if len(targets) == 0 {
			return domain.ErrNotTracking
		}

		if err := s.items.SetForwardToDMsAll(txCtx, c.GuildID, c.ChannelID, c.UserID, enabled); err != nil {
			return fmt.Errorf("set dm forwarding: %w", err)
		}

		for _, t := range targets {
			affected = append(affected, t.ItemID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return affected, nil
}

// MyTracked lists the caller's targets in this channel, newest first.
func (s *Service) MyTracked(ctx context.Context, c Caller) ([]domain.TrackingTarget, error) {
	if err := s.requireWhitelisted(ctx, c); err != nil {
		return nil, err
	}

	targets, err := s.items.ListByUser(ctx, c.GuildID, c.ChannelID, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("list tracked items: %w", err)
	}
	return targets, nil
}

// ListTracked lists the distinct items tracked anywhere in the guild.
func (s *Service) ListTracked(ctx context.Context, guildID string) ([]domain.TrackedItem, error) {
	items, err := s.items.ListItemsByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list guild items: %w", err)
	}
	for i := range items {
		if items[i].ItemName == "" {
			items[i].ItemName = UnknownItemName
		}
	}
	return items, nil
}

func (s *Service) delete(ctx context.Context, key domain.TargetKey) error {
	if err := s.items.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete tracked item: %w", err)
	}
	s.logger.Info("tracking stopped", "target", key.String())
	return nil
}

func (s *Service) requireWhitelisted(ctx context.Context, c Caller) error {
	ok, err := s.whitelist.IsWhitelisted(ctx, c.GuildID, c.ChannelID)
	if err != nil {
		return fmt.Errorf("check whitelist: %w", err)
	}
	if !ok {
		return domain.ErrChannelNotWhitelisted
	}
	return nil
}
