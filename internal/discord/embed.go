package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"trade_tracker/internal/domain"
)

const (
	embedColor     = 0x2ecc40
	screenshotName = "ad.png"
	notAvailable   = "N/A"
	maxFieldLength = 1024
)

// BuildEmbed renders one delivery as a Discord embed.
func BuildEmbed(d *domain.Delivery) *discordgo.MessageEmbed {
	ad := d.Ad

	link := ad.SendTradeURL
	if link == "" {
		link = ad.PosterProfileURL
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Send %s a Trade", orNA(ad.PosterName)),
		URL:   link,
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Item", Value: fmt.Sprintf("%s (%s)", d.Target.ItemName, d.Target.ItemID)},
			{Name: "Rolimon's Profile", Value: markdownLink("View Profile", ad.PosterProfileURL), Inline: true},
			{Name: "Roblox Trade Link", Value: markdownLink("Send Trade", ad.SendTradeURL), Inline: true},
			{Name: "Trade Ads Created", Value: orNA(ad.AdsCreated), Inline: true},
			{Name: "User Total Value", Value: formatOptional(ad.UserTotalValue, false), Inline: true},
			{Name: "Value Difference", Value: formatOptional(ad.ValueDiff, true), Inline: true},
			{Name: "RAP Difference", Value: formatOptional(ad.RapDiff, true), Inline: true},
			{Name: "Offered", Value: itemList(ad.OfferedItems)},
			{Name: "Requested", Value: itemList(ad.RequestedItems)},
			{
				Name:   "Offer Value / RAP",
				Value:  fmt.Sprintf("%s / %s", formatNumber(ad.OfferValueTotal, false), formatNumber(ad.OfferRapTotal, false)),
				Inline: true,
			},
			{
				Name:   "Request Value / RAP",
				Value:  fmt.Sprintf("%s / %s", formatNumber(ad.RequestValueTotal, false), formatNumber(ad.RequestRapTotal, false)),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Posted " + orNA(ad.PostedAt)},
	}

	if ad.ParsedAt != nil {
		embed.Timestamp = ad.ParsedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	if strings.HasPrefix(ad.PosterAvatarURL, "http") {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: ad.PosterAvatarURL}
	}
	if len(d.Screenshot) > 0 {
		embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + screenshotName}
	}

	return embed
}

func itemList(items []domain.ItemRef) string {
	if len(items) == 0 {
		return "None"
	}

	var b strings.Builder
	for i, it := range items {
		line := "• " + it.Name
		if it.Value != nil {
			line += " (" + formatNumber(*it.Value, false) + ")"
		}
		if i > 0 {
			line = "\n" + line
		}
		if b.Len()+len(line) > maxFieldLength-4 {
			b.WriteString("\n…")
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

func markdownLink(label, url string) string {
	if url == "" {
		return notAvailable
	}
	return fmt.Sprintf("[%s](%s)", label, url)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func formatOptional(v *int64, signed bool) string {
	if v == nil {
		return notAvailable
	}
	return formatNumber(*v, signed)
}

// formatNumber groups digits with commas; signed adds a leading + for
// positive values.
func formatNumber(v int64, signed bool) string {
	neg := v < 0
	mag := uint64(v)
	if neg {
		mag = uint64(-(v + 1)) + 1
	}

	digits := strconv.FormatUint(mag, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	switch {
	case neg:
		return "-" + b.String()
	case signed && v > 0:
		return "+" + b.String()
	default:
		return b.String()
	}
}
