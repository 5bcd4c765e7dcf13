package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackingTarget_Matches(t *testing.T) {
	target := TrackingTarget{
		TargetKey: TargetKey{ItemID: "1028606"},
		ItemName:  "Valkyrie Helm",
	}

	tests := []struct {
		name string
		ad   TradeAd
		want bool
	}{
		{
			name: "offered id",
			ad:   TradeAd{OfferedItems: []ItemRef{{ID: "1028606", Name: "Something Else"}}},
			want: true,
		},
		{
			name: "requested id",
			ad:   TradeAd{RequestedItems: []ItemRef{{ID: "1", Name: "Adds"}, {ID: "1028606"}}},
			want: true,
		},
		{
			name: "different id ignores name",
			ad:   TradeAd{OfferedItems: []ItemRef{{ID: "2", Name: "Valkyrie Helm"}}},
			want: false,
		},
		{
			name: "name fallback without id",
			ad:   TradeAd{OfferedItems: []ItemRef{{Name: "the valkyrie helm (limited)"}}},
			want: true,
		},
		{
			name: "no items",
			ad:   TradeAd{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, target.Matches(&tt.ad))
		})
	}
}

func TestTargetKey_String(t *testing.T) {
	k := TargetKey{GuildID: "g", ChannelID: "c", UserID: "u", ItemID: "i"}
	assert.Equal(t, "g/c/u/i", k.String())
}
