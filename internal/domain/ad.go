package domain

import "time"

type ItemRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Value    *int64 `json:"value,omitempty"`
	RAP      *int64 `json:"rap,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// TradeAd is a single parsed trade advertisement.
type TradeAd struct {
	PosterName       string
	PosterProfileURL string
	PosterAvatarURL  string
	DetailsURL       string
	SendTradeURL     string
	AdsCreated       string

	// PostedAt is the raw relative time text shown by the site ("12 seconds ago").
	PostedAt string
	// ParsedAt is set by the freshness filter; nil until then or when unparseable.
	ParsedAt *time.Time

	OfferedItems   []ItemRef
	RequestedItems []ItemRef

	OfferValueTotal   int64
	OfferRapTotal     int64
	RequestValueTotal int64
	RequestRapTotal   int64

	UserTotalValue *int64
	ValueDiff      *int64
	RapDiff        *int64

	Fingerprint string
}

// Items returns offered and requested items in page order.
func (a *TradeAd) Items() []ItemRef {
	items := make([]ItemRef, 0, len(a.OfferedItems)+len(a.RequestedItems))
	items = append(items, a.OfferedItems...)
	return append(items, a.RequestedItems...)
}

func ItemNames(items []ItemRef) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}
