// Package discord hosts the bot session: slash commands for managing tracked
// items and the notifier that posts trade ads.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"trade_tracker/internal/tracking"
)

type BotConfig struct {
	// GuildID restricts command registration to one guild; empty registers
	// globally.
	GuildID        string
	CommandTimeout time.Duration
}

type Bot struct {
	session  *discordgo.Session
	tracker  Tracker
	handlers map[string]commandHandler
	cfg      BotConfig
	logger   *slog.Logger
}

func NewBot(session *discordgo.Session, tracker Tracker, logger *slog.Logger, cfg BotConfig) *Bot {
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 30 * time.Second
	}

	b := &Bot{
		session: session,
		tracker: tracker,
		cfg:     cfg,
		logger:  logger.With("component", "discord_bot"),
	}
	b.registerHandlers()
	return b
}

// Start registers event handlers and opens the gateway connection.
func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)
	b.session.Identify.Intents = discordgo.IntentsGuilds

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("discord session ready", "user", r.User.Username, "guilds", len(r.Guilds))

	registered, err := s.ApplicationCommandBulkOverwrite(r.User.ID, b.cfg.GuildID, Commands())
	if err != nil {
		b.logger.Error("failed to register commands", "guild_id", b.cfg.GuildID, "error", err)
		return
	}
	b.logger.Info("commands registered", "count", len(registered), "guild_id", b.cfg.GuildID)
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		b.logger.Error("failed to acknowledge interaction", "command", i.ApplicationCommandData().Name, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.CommandTimeout)
	defer cancel()

	reply := b.execute(ctx, i.Interaction)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &reply}); err != nil {
		b.logger.Error("failed to send command reply", "command", i.ApplicationCommandData().Name, "error", err)
	}
}

// execute runs a command and returns the text to reply with.
func (b *Bot) execute(ctx context.Context, i *discordgo.Interaction) string {
	data := i.ApplicationCommandData()

	handler, ok := b.handlers[data.Name]
	if !ok {
		return "Unknown command."
	}
	if i.GuildID == "" {
		return "This command can only be used in a server."
	}

	caller := tracking.Caller{GuildID: i.GuildID, ChannelID: i.ChannelID, UserID: interactionUserID(i)}

	opts := make(options, len(data.Options))
	for _, opt := range data.Options {
		opts[opt.Name] = opt
	}

	reply, err := handler(ctx, caller, opts)
	if err != nil {
		msg, expected := errorReply(err)
		if expected {
			b.logger.Debug("command rejected", "command", data.Name, "user_id", caller.UserID, "reason", err)
		} else {
			b.logger.Error("command failed", "command", data.Name, "user_id", caller.UserID, "error", err)
		}
		return msg
	}

	b.logger.Info("command handled", "command", data.Name, "user_id", caller.UserID, "guild_id", caller.GuildID)
	return truncate(reply)
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
