package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"trade_tracker/internal/domain"
)

type WhitelistStore struct {
	db *sqlx.DB
}

func NewWhitelistStore(db *sqlx.DB) *WhitelistStore {
	return &WhitelistStore{db: db}
}

func (s *WhitelistStore) Add(ctx context.Context, guildID, channelID string) error {
	query := `
		INSERT INTO whitelisted_channels (guild_id, channel_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, guildID, channelID); err != nil {
		return fmt.Errorf("%w: whitelist channel: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (s *WhitelistStore) IsWhitelisted(ctx context.Context, guildID, channelID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM whitelisted_channels WHERE guild_id = $1 AND channel_id = $2
	)`

	var ok bool
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &ok, query, guildID, channelID); err != nil {
		return false, fmt.Errorf("%w: check whitelist: %w", domain.ErrPersistence, err)
	}
	return ok, nil
}
