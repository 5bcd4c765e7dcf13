package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/codeGROOVE-dev/retry"

	"trade_tracker/internal/domain"
)

// Sender is the part of *discordgo.Session the notifier needs.
type Sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

type NotifierConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Notifier delivers trade ads to channels and DMs.
type Notifier struct {
	sender Sender
	cfg    NotifierConfig
	logger *slog.Logger
}

func NewNotifier(sender Sender, logger *slog.Logger, cfg NotifierConfig) *Notifier {
	return &Notifier{
		sender: sender,
		cfg:    cfg,
		logger: logger.With("component", "discord_notifier"),
	}
}

func (n *Notifier) SendToChannel(ctx context.Context, d *domain.Delivery) error {
	content := fmt.Sprintf("<@%s> New trade ad for item %s (%s).", d.Target.UserID, d.Target.ItemName, d.Target.ItemID)

	if err := n.send(ctx, d.Target.ChannelID, content, d); err != nil {
		return fmt.Errorf("%w: channel %s: %w", domain.ErrDelivery, d.Target.ChannelID, err)
	}
	return nil
}

func (n *Notifier) SendToUser(ctx context.Context, d *domain.Delivery) error {
	ch, err := n.sender.UserChannelCreate(d.Target.UserID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: open dm with %s: %w", domain.ErrDelivery, d.Target.UserID, err)
	}

	content := fmt.Sprintf("New trade ad for item %s (%s).", d.Target.ItemName, d.Target.ItemID)
	if err := n.send(ctx, ch.ID, content, d); err != nil {
		return fmt.Errorf("%w: dm %s: %w", domain.ErrDelivery, d.Target.UserID, err)
	}
	return nil
}

func (n *Notifier) send(ctx context.Context, channelID, content string, d *domain.Delivery) error {
	return retry.Do(
		func() error {
			// Files are readers, so the message is rebuilt per attempt.
			_, err := n.sender.ChannelMessageSendComplex(channelID, buildMessage(content, d), discordgo.WithContext(ctx))
			return classify(err)
		},
		retry.Attempts(uint(max(n.cfg.MaxAttempts, 1))),
		retry.Delay(n.cfg.InitialBackoff),
		retry.MaxDelay(n.cfg.MaxBackoff),
		retry.Context(ctx),
		retry.OnRetry(func(attempt uint, err error) {
			n.logger.Warn("discord send failed, retrying", "channel_id", channelID, "attempt", attempt+1, "error", err)
		}),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, domain.ErrChannelNotFound) && !isClientError(err)
		}),
	)
}

func buildMessage(content string, d *domain.Delivery) *discordgo.MessageSend {
	msg := &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{BuildEmbed(d)},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{d.Target.UserID},
		},
	}
	if len(d.Screenshot) > 0 {
		msg.Files = []*discordgo.File{{
			Name:        screenshotName,
			ContentType: "image/png",
			Reader:      bytes.NewReader(d.Screenshot),
		}}
	}
	return msg
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownChannel {
		return fmt.Errorf("%w: %w", domain.ErrChannelNotFound, err)
	}
	return err
}

// isClientError reports 4xx responses other than rate limiting.
func isClientError(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return false
	}
	code := restErr.Response.StatusCode
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}
