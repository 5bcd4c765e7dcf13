package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"trade_tracker/internal/domain"
)

const uniqueViolation = "23505"

const targetColumns = `guild_id, channel_id, user_id, item_id, item_name, last_ad_id,
	forward_to_dms, tracking_started_at, created_at`

type TargetStore struct {
	db *sqlx.DB
}

func NewTargetStore(db *sqlx.DB) *TargetStore {
	return &TargetStore{db: db}
}

func (s *TargetStore) ListTargets(ctx context.Context) ([]domain.TrackingTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM tracked_items ORDER BY item_id, created_at`

	var targets []domain.TrackingTarget
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &targets, query); err != nil {
		return nil, fmt.Errorf("%w: list targets: %w", domain.ErrPersistence, err)
	}
	return targets, nil
}

func (s *TargetStore) UpdateLastSeen(ctx context.Context, key domain.TargetKey, fingerprint string) error {
	query := `
		UPDATE tracked_items SET last_ad_id = $5
		WHERE guild_id = $1 AND channel_id = $2 AND user_id = $3 AND item_id = $4`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		key.GuildID, key.ChannelID, key.UserID, key.ItemID, fingerprint)
	if err != nil {
		return fmt.Errorf("%w: update last seen %s: %w", domain.ErrPersistence, key, err)
	}
	return expectAffected(res.RowsAffected())
}

func (s *TargetStore) Create(ctx context.Context, t *domain.TrackingTarget) error {
	query := `
		INSERT INTO tracked_items (
			guild_id, channel_id, user_id, item_id, item_name, last_ad_id,
			forward_to_dms, tracking_started_at, created_at
		) VALUES (
			:guild_id, :channel_id, :user_id, :item_id, :item_name, :last_ad_id,
			:forward_to_dms, :tracking_started_at, :created_at
		)`

	if _, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, t); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyTracking
		}
		return fmt.Errorf("%w: create target %s: %w", domain.ErrPersistence, t.TargetKey, err)
	}
	return nil
}

func (s *TargetStore) Delete(ctx context.Context, key domain.TargetKey) error {
	query := `
		DELETE FROM tracked_items
		WHERE guild_id = $1 AND channel_id = $2 AND user_id = $3 AND item_id = $4`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		key.GuildID, key.ChannelID, key.UserID, key.ItemID)
	if err != nil {
		return fmt.Errorf("%w: delete target %s: %w", domain.ErrPersistence, key, err)
	}
	return expectAffected(res.RowsAffected())
}

// ListByUser returns the user's targets in one channel, newest first.
func (s *TargetStore) ListByUser(ctx context.Context, guildID, channelID, userID string) ([]domain.TrackingTarget, error) {
	query := `SELECT ` + targetColumns + `
		FROM tracked_items
		WHERE guild_id = $1 AND channel_id = $2 AND user_id = $3
		ORDER BY tracking_started_at DESC`

	var targets []domain.TrackingTarget
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &targets, query, guildID, channelID, userID); err != nil {
		return nil, fmt.Errorf("%w: list user targets: %w", domain.ErrPersistence, err)
	}
	return targets, nil
}

func (s *TargetStore) ListItemsByGuild(ctx context.Context, guildID string) ([]domain.TrackedItem, error) {
	query := `
		SELECT DISTINCT ON (item_id) item_id, item_name
		FROM tracked_items
		WHERE guild_id = $1
		ORDER BY item_id, created_at`

	var items []domain.TrackedItem
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &items, query, guildID); err != nil {
		return nil, fmt.Errorf("%w: list guild items: %w", domain.ErrPersistence, err)
	}
	return items, nil
}

func (s *TargetStore) SetForwardToDMs(ctx context.Context, key domain.TargetKey, enabled bool) error {
	query := `
		UPDATE tracked_items SET forward_to_dms = $5
		WHERE guild_id = $1 AND channel_id = $2 AND user_id = $3 AND item_id = $4`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		key.GuildID, key.ChannelID, key.UserID, key.ItemID, enabled)
	if err != nil {
		return fmt.Errorf("%w: set dm forwarding %s: %w", domain.ErrPersistence, key, err)
	}
	return expectAffected(res.RowsAffected())
}

func (s *TargetStore) SetForwardToDMsAll(ctx context.Context, guildID, channelID, userID string, enabled bool) error {
	query := `
		UPDATE tracked_items SET forward_to_dms = $4
		WHERE guild_id = $1 AND channel_id = $2 AND user_id = $3`

	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, guildID, channelID, userID, enabled); err != nil {
		return fmt.Errorf("%w: set dm forwarding for all: %w", domain.ErrPersistence, err)
	}
	return nil
}

func expectAffected(n int64, err error) error {
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", domain.ErrPersistence, err)
	}
	if n == 0 {
		return domain.ErrNotTracking
	}
	return nil
}
