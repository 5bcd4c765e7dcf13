package discord

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_tracker/internal/domain"
	"trade_tracker/testdata/utils"
)

type sentMessage struct {
	channelID string
	content   string
	embeds    []*discordgo.MessageEmbed
	files     map[string][]byte
}

type fakeSender struct {
	sent      []sentMessage
	errs      []error
	dmChannel string
	dmErr     error
}

func (f *fakeSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}

	msg := sentMessage{channelID: channelID, content: data.Content, embeds: data.Embeds, files: map[string][]byte{}}
	for _, file := range data.Files {
		body, _ := io.ReadAll(file.Reader)
		msg.files[file.Name] = body
	}
	f.sent = append(f.sent, msg)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *fakeSender) UserChannelCreate(string, ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.dmErr != nil {
		return nil, f.dmErr
	}
	return &discordgo.Channel{ID: f.dmChannel}, nil
}

func restError(status, code int) error {
	return &discordgo.RESTError{
		Response: &http.Response{StatusCode: status, Status: http.StatusText(status)},
		Message:  &discordgo.APIErrorMessage{Code: code},
	}
}

func newTestNotifier(sender Sender) *Notifier {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewNotifier(sender, logger, NotifierConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond})
}

func testDelivery() *domain.Delivery {
	return &domain.Delivery{
		Ad: &domain.TradeAd{
			PosterName:       "builderman",
			PosterProfileURL: "https://www.rolimons.com/player/156",
			SendTradeURL:     "https://www.roblox.com/users/156/trade",
			PosterAvatarURL:  "https://tr.rbxcdn.com/avatar.png",
			PostedAt:         "1 minute ago",
			OfferedItems:     []domain.ItemRef{{ID: "1028606", Name: "Valkyrie Helm", Value: utils.Ptr[int64](42000)}},
			RequestedItems:   []domain.ItemRef{{Name: "Adds"}},
			ValueDiff:        utils.Ptr[int64](1500),
			RapDiff:          utils.Ptr[int64](-250),
		},
		Target: domain.TrackingTarget{
			TargetKey: domain.TargetKey{GuildID: "g1", ChannelID: "c1", UserID: "u1", ItemID: "1028606"},
			ItemName:  "Valkyrie Helm",
		},
	}
}

func TestSendToChannel(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender)

	d := testDelivery()
	d.Screenshot = []byte("png-bytes")

	require.NoError(t, n.SendToChannel(context.Background(), d))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "c1", msg.channelID)
	assert.Equal(t, "<@u1> New trade ad for item Valkyrie Helm (1028606).", msg.content)
	require.Len(t, msg.embeds, 1)
	assert.Equal(t, "Send builderman a Trade", msg.embeds[0].Title)
	assert.Equal(t, "attachment://ad.png", msg.embeds[0].Image.URL)
	assert.Equal(t, []byte("png-bytes"), msg.files["ad.png"])
}

func TestSendToChannel_RetriesTransientErrors(t *testing.T) {
	sender := &fakeSender{errs: []error{restError(http.StatusBadGateway, 0), errors.New("connection reset")}}
	n := newTestNotifier(sender)

	d := testDelivery()
	d.Screenshot = []byte("png-bytes")

	require.NoError(t, n.SendToChannel(context.Background(), d))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []byte("png-bytes"), sender.sent[0].files["ad.png"], "attachment is rebuilt per attempt")
}

func TestSendToChannel_UnknownChannel(t *testing.T) {
	sender := &fakeSender{errs: []error{restError(http.StatusNotFound, discordgo.ErrCodeUnknownChannel)}}
	n := newTestNotifier(sender)

	err := n.SendToChannel(context.Background(), testDelivery())
	assert.ErrorIs(t, err, domain.ErrDelivery)
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
	assert.Empty(t, sender.sent)
	assert.Empty(t, sender.errs)
}

func TestSendToChannel_ClientErrorNotRetried(t *testing.T) {
	sender := &fakeSender{errs: []error{restError(http.StatusForbidden, 50013), nil}}
	n := newTestNotifier(sender)

	err := n.SendToChannel(context.Background(), testDelivery())
	assert.ErrorIs(t, err, domain.ErrDelivery)
	assert.NotErrorIs(t, err, domain.ErrChannelNotFound)
	assert.Empty(t, sender.sent)
	assert.Len(t, sender.errs, 1, "second attempt never made")
}

func TestSendToUser(t *testing.T) {
	sender := &fakeSender{dmChannel: "dm-1"}
	n := newTestNotifier(sender)

	require.NoError(t, n.SendToUser(context.Background(), testDelivery()))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "dm-1", sender.sent[0].channelID)
	assert.Equal(t, "New trade ad for item Valkyrie Helm (1028606).", sender.sent[0].content)
}

func TestSendToUser_DMClosed(t *testing.T) {
	sender := &fakeSender{dmErr: restError(http.StatusForbidden, 50007)}
	n := newTestNotifier(sender)

	err := n.SendToUser(context.Background(), testDelivery())
	assert.ErrorIs(t, err, domain.ErrDelivery)
	assert.Empty(t, sender.sent)
}

func TestBuildEmbed(t *testing.T) {
	embed := BuildEmbed(testDelivery())

	assert.Equal(t, "https://www.roblox.com/users/156/trade", embed.URL)
	assert.Equal(t, 0x2ecc40, embed.Color)
	assert.Equal(t, "https://tr.rbxcdn.com/avatar.png", embed.Thumbnail.URL)
	assert.Nil(t, embed.Image)

	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	assert.Equal(t, "Valkyrie Helm (1028606)", fields["Item"])
	assert.Equal(t, "+1,500", fields["Value Difference"])
	assert.Equal(t, "-250", fields["RAP Difference"])
	assert.Equal(t, "N/A", fields["User Total Value"])
	assert.Equal(t, "N/A", fields["Trade Ads Created"])
	assert.Equal(t, "• Valkyrie Helm (42,000)", fields["Offered"])
	assert.Equal(t, "• Adds", fields["Requested"])
}

func TestBuildEmbed_FallsBackToProfileLink(t *testing.T) {
	d := testDelivery()
	d.Ad.SendTradeURL = ""
	d.Ad.PosterAvatarURL = "/images/default.png"

	embed := BuildEmbed(d)
	assert.Equal(t, "https://www.rolimons.com/player/156", embed.URL)
	assert.Nil(t, embed.Thumbnail)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in     int64
		signed bool
		want   string
	}{
		{0, true, "0"},
		{999, false, "999"},
		{1000, false, "1,000"},
		{1234567, true, "+1,234,567"},
		{-1234567, true, "-1,234,567"},
		{math.MinInt64, true, "-9,223,372,036,854,775,808"},
		{math.MaxInt64, true, "+9,223,372,036,854,775,807"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in, tt.signed))
	}
}
