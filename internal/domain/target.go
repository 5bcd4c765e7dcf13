package domain

import (
	"fmt"
	"strings"
	"time"
)

// TargetKey uniquely identifies one subscription.
type TargetKey struct {
	GuildID   string `db:"guild_id" json:"guild_id"`
	ChannelID string `db:"channel_id" json:"channel_id"`
	UserID    string `db:"user_id" json:"user_id"`
	ItemID    string `db:"item_id" json:"item_id"`
}

func (k TargetKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.GuildID, k.ChannelID, k.UserID, k.ItemID)
}

type TrackingTarget struct {
	TargetKey
	ItemName              string    `db:"item_name"`
	LastSeenAdFingerprint string    `db:"last_ad_id"`
	TrackingStartedAt     time.Time `db:"tracking_started_at"`
	ForwardToDMs          bool      `db:"forward_to_dms"`
	CreatedAt             time.Time `db:"created_at"`
}

// Matches reports whether the ad mentions the tracked item. Items without a
// site id fall back to a case-insensitive name containment check.
func (t *TrackingTarget) Matches(ad *TradeAd) bool {
	name := strings.ToLower(strings.TrimSpace(t.ItemName))
	for _, it := range ad.Items() {
		if it.ID != "" {
			if it.ID == t.ItemID {
				return true
			}
			continue
		}
		if name != "" && strings.Contains(strings.ToLower(it.Name), name) {
			return true
		}
	}
	return false
}

type TrackedItem struct {
	ItemID   string `db:"item_id"`
	ItemName string `db:"item_name"`
}
