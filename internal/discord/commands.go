package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"trade_tracker/internal/domain"
	"trade_tracker/internal/tracking"
)

const maxContentLength = 2000

// Tracker is the set of use-cases the slash commands expose.
type Tracker interface {
	WhitelistChannel(ctx context.Context, guildID, channelID string) error
	Track(ctx context.Context, c tracking.Caller, itemID string) (*domain.TrackingTarget, error)
	Untrack(ctx context.Context, c tracking.Caller, itemID string) error
	AdminUntrack(ctx context.Context, c tracking.Caller, userID, itemID string) error
	ForwardToDMs(ctx context.Context, c tracking.Caller, itemID string, enabled bool) ([]string, error)
	MyTracked(ctx context.Context, c tracking.Caller) ([]domain.TrackingTarget, error)
	ListTracked(ctx context.Context, guildID string) ([]domain.TrackedItem, error)
}

type commandHandler func(ctx context.Context, c tracking.Caller, opts options) (string, error)

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func (o options) getString(name string) string {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionString {
		return strings.TrimSpace(opt.StringValue())
	}
	return ""
}

func (o options) getBool(name string, def bool) bool {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionBoolean {
		return opt.BoolValue()
	}
	return def
}

func (o options) getUser(name string) string {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionUser {
		return opt.UserValue(nil).ID
	}
	return ""
}

var (
	adminPermission int64 = discordgo.PermissionAdministrator
	dmPermission          = false
)

func itemIDOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "itemid",
		Description: "Rolimons item id",
		Required:    required,
	}
}

// Commands returns the slash command definitions registered on Ready.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     "whitelistchannel",
			Description:              "Allow item tracking in this channel",
			DefaultMemberPermissions: &adminPermission,
			DMPermission:             &dmPermission,
		},
		{
			Name:         "trackitem",
			Description:  "Get notified about new trade ads for an item",
			DMPermission: &dmPermission,
			Options:      []*discordgo.ApplicationCommandOption{itemIDOption(true)},
		},
		{
			Name:         "untrack",
			Description:  "Stop tracking an item",
			DMPermission: &dmPermission,
			Options:      []*discordgo.ApplicationCommandOption{itemIDOption(true)},
		},
		{
			Name:         "adminuntrack",
			Description:  "Stop tracking an item for another user",
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				itemIDOption(true),
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User whose tracking to remove (defaults to you)",
				},
			},
		},
		{
			Name:         "forward2dms",
			Description:  "Forward trade ads for tracked items to your DMs",
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				itemIDOption(false),
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Enable or disable forwarding (default: enabled)",
				},
			},
		},
		{
			Name:         "mytracked",
			Description:  "List the items you track in this channel",
			DMPermission: &dmPermission,
		},
		{
			Name:         "listtracked",
			Description:  "List every item tracked in this server",
			DMPermission: &dmPermission,
		},
	}
}

func (b *Bot) registerHandlers() {
	b.handlers = map[string]commandHandler{
		"whitelistchannel": b.handleWhitelistChannel,
		"trackitem":        b.handleTrackItem,
		"untrack":          b.handleUntrack,
		"adminuntrack":     b.handleAdminUntrack,
		"forward2dms":      b.handleForwardToDMs,
		"mytracked":        b.handleMyTracked,
		"listtracked":      b.handleListTracked,
	}
}

func (b *Bot) handleWhitelistChannel(ctx context.Context, c tracking.Caller, _ options) (string, error) {
	if err := b.tracker.WhitelistChannel(ctx, c.GuildID, c.ChannelID); err != nil {
		return "", err
	}
	return fmt.Sprintf("<#%s> is now whitelisted for item tracking.", c.ChannelID), nil
}

func (b *Bot) handleTrackItem(ctx context.Context, c tracking.Caller, opts options) (string, error) {
	target, err := b.tracker.Track(ctx, c, opts.getString("itemid"))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Now tracking **%s** (%s). New trade ads will be posted in this channel.", target.ItemName, target.ItemID), nil
}

func (b *Bot) handleUntrack(ctx context.Context, c tracking.Caller, opts options) (string, error) {
	itemID := opts.getString("itemid")
	if err := b.tracker.Untrack(ctx, c, itemID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Stopped tracking item %s.", itemID), nil
}

func (b *Bot) handleAdminUntrack(ctx context.Context, c tracking.Caller, opts options) (string, error) {
	itemID := opts.getString("itemid")
	userID := opts.getUser("user")
	if err := b.tracker.AdminUntrack(ctx, c, userID, itemID); err != nil {
		return "", err
	}
	if userID == "" {
		userID = c.UserID
	}
	return fmt.Sprintf("Stopped tracking item %s for <@%s>.", itemID, userID), nil
}

func (b *Bot) handleForwardToDMs(ctx context.Context, c tracking.Caller, opts options) (string, error) {
	enabled := opts.getBool("enabled", true)
	ids, err := b.tracker.ForwardToDMs(ctx, c, opts.getString("itemid"), enabled)
	if err != nil {
		return "", err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	return fmt.Sprintf("DM forwarding %s for: %s", state, strings.Join(ids, ", ")), nil
}

func (b *Bot) handleMyTracked(ctx context.Context, c tracking.Caller, _ options) (string, error) {
	targets, err := b.tracker.MyTracked(ctx, c)
	if err != nil {
		return "", err
	}
	if len(targets) == 0 {
		return "You are not tracking any items in this channel.", nil
	}

	var dms, channel []string
	for _, t := range targets {
		line := fmt.Sprintf("• %s (%s) since <t:%d:R>", t.ItemName, t.ItemID, t.TrackingStartedAt.Unix())
		if t.ForwardToDMs {
			dms = append(dms, line)
		} else {
			channel = append(channel, line)
		}
	}

	var sections []string
	if len(dms) > 0 {
		sections = append(sections, "**Forwarded to DMs**\n"+strings.Join(dms, "\n"))
	}
	if len(channel) > 0 {
		sections = append(sections, "**Channel only**\n"+strings.Join(channel, "\n"))
	}
	return strings.Join(sections, "\n\n"), nil
}

func (b *Bot) handleListTracked(ctx context.Context, c tracking.Caller, _ options) (string, error) {
	items, err := b.tracker.ListTracked(ctx, c.GuildID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "No items are tracked in this server.", nil
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, "**Tracked items in this server**")
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("• %s (%s)", it.ItemName, it.ItemID))
	}
	return strings.Join(lines, "\n"), nil
}

// errorReply maps use-case errors to what the user sees. ok is false for
// unexpected errors.
func errorReply(err error) (reply string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrChannelNotWhitelisted):
		return "This channel is not whitelisted for tracking. An administrator can enable it with /whitelistchannel.", true
	case errors.Is(err, domain.ErrInvalidItemID):
		return "Item id must be numeric.", true
	case errors.Is(err, domain.ErrAlreadyTracking):
		return "You are already tracking this item in this channel.", true
	case errors.Is(err, domain.ErrNotTracking):
		return "You are not tracking that item in this channel.", true
	case errors.Is(err, domain.ErrNotAuthorized):
		return "Only the bot owner can use this command.", true
	default:
		return "Something went wrong. Please try again later.", false
	}
}

func truncate(s string) string {
	if len(s) <= maxContentLength {
		return s
	}
	cut := strings.LastIndex(s[:maxContentLength-2], "\n")
	if cut <= 0 {
		cut = maxContentLength - 2
	}
	return s[:cut] + "\n…"
}
