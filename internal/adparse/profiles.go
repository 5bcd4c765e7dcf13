package adparse

import (
	"fmt"
	"sort"
)

// Profile is one revision of the trade-ads page layout.
type Profile struct {
	Name string

	Container      string
	PosterName     string
	PosterAvatar   string
	Timestamp      []string // tried in order, first non-empty text wins
	DetailsLink    string
	SendTradeLink  string
	AdsCreated     string
	UserTotalValue string
	ValueDiff      string
	RapDiff        string

	OfferedSlots   string
	RequestedSlots string

	// NameOnly slots are plain name elements with no image, id or tooltip.
	NameOnly bool

	SlotImage     string
	SlotName      string
	SelectionAttr string
	HandlerAttr   string
	TooltipAttrs  []string
}

var profiles = map[string]Profile{
	"v1-legacy": {
		Name:           "v1-legacy",
		Container:      ".mix_item",
		PosterName:     ".ad_creator_name",
		PosterAvatar:   ".ad_creator_pfp",
		Timestamp:      []string{".trade-ad-timestamp", `[class*="timestamp"]`, `[class*="time"]`},
		DetailsLink:    ".trade_ad_page_link_button",
		SendTradeLink:  ".send_trade_button",
		AdsCreated:     ".trade_ads_created",
		UserTotalValue: ".user_total_value",
		ValueDiff:      ".value_difference",
		RapDiff:        ".rap_difference",
		OfferedSlots:   ".offered_items .item_name",
		RequestedSlots: ".requested_items .item_name",
		NameOnly:       true,
	},
	"v2-slots": {
		Name:           "v2-slots",
		Container:      ".mix_item",
		PosterName:     ".ad_creator_name",
		PosterAvatar:   ".ad_creator_pfp",
		Timestamp:      []string{".trade-ad-timestamp", `[class*="timestamp"]`, `[class*="time"]`},
		DetailsLink:    ".trade_ad_page_link_button",
		SendTradeLink:  ".send_trade_button",
		AdsCreated:     ".trade_ads_created",
		UserTotalValue: ".user_total_value",
		ValueDiff:      ".value_difference",
		RapDiff:        ".rap_difference",
		OfferedSlots:   ".offered_items .trade_item_slot",
		RequestedSlots: ".requested_items .trade_item_slot",
		SlotImage:      "img",
		SlotName:       ".item_name",
		SelectionAttr:  "data-selected",
		HandlerAttr:    "onclick",
		TooltipAttrs:   []string{"title", "data-original-title"},
	},
}

// Profiles lists the known profile names.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupProfile returns the named profile with overrides applied. Override
// keys are the snake_case field names, e.g. "container" or "offered_slots".
func LookupProfile(name string, overrides map[string]string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown selector profile %q (known: %v)", name, Profiles())
	}

	for key, value := range overrides {
		switch key {
		case "container":
			p.Container = value
		case "poster_name":
			p.PosterName = value
		case "poster_avatar":
			p.PosterAvatar = value
		case "timestamp":
			p.Timestamp = []string{value}
		case "details_link":
			p.DetailsLink = value
		case "send_trade_link":
			p.SendTradeLink = value
		case "ads_created":
			p.AdsCreated = value
		case "user_total_value":
			p.UserTotalValue = value
		case "value_difference":
			p.ValueDiff = value
		case "rap_difference":
			p.RapDiff = value
		case "offered_slots":
			p.OfferedSlots = value
		case "requested_slots":
			p.RequestedSlots = value
		case "slot_image":
			p.SlotImage = value
		case "slot_name":
			p.SlotName = value
		case "selection_attr":
			p.SelectionAttr = value
		case "handler_attr":
			p.HandlerAttr = value
		case "tooltip_attr":
			p.TooltipAttrs = []string{value}
		default:
			return Profile{}, fmt.Errorf("unknown selector override %q", key)
		}
	}

	return p, nil
}
