package adparse

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_tracker/internal/domain"
)

const slotsPage = `<html><body>
<div class="mix_item">
  <a class="ad_creator_name" href="/player/1001">  TraderJoe </a>
  <img class="ad_creator_pfp" src="https://tr.rbxcdn.com/avatar/1001.png">
  <span class="trade-ad-timestamp">12 seconds ago</span>
  <a class="trade_ad_page_link_button" href="/tradead/555">details</a>
  <a class="send_trade_button" href="https://www.roblox.com/users/1001/trade">send</a>
  <span class="trade_ads_created">1,204</span>
  <span class="user_total_value">2,500,000</span>
  <span class="value_difference">-1,250</span>
  <span class="rap_difference">+3,400</span>
  <div class="offered_items">
    <div class="trade_item_slot" onclick="item_select_handler(1028606, 'Valkyrie Helm')" title="Valkyrie Helm<br>Value 30,000<br>RAP 28,512">
      <img src="https://tr.rbxcdn.com/item/1028606.png">
    </div>
    <div class="trade_item_slot" data-selected="true" onclick="item_select_handler(20573078, 'Shaggy')">
      <img src="/images/item/20573078.png" alt="Shaggy">
    </div>
    <div class="trade_item_slot"><img src="/images/empty_trade_slot.png"></div>
  </div>
  <div class="requested_items">
    <div class="trade_item_slot" onclick="item_select_handler(42, 'Dominus')" data-original-title="Dominus Frigidus<br>Value 1,000,000">
      <img src="https://tr.rbxcdn.com/item/42.png">
    </div>
    <div class="trade_item_slot"><img src="https://www.rolimons.com/images/tradetagupgrade-420.png"></div>
    <div class="trade_item_slot"><img src="https://example.com/not-cdn.png" alt="Stray"></div>
  </div>
</div>
<div class="mix_item">
  <a class="ad_creator_name" href="/player/2002">NoTime</a>
  <div class="offered_items"></div>
</div>
<div class="mix_item">
  <span class="trade-ad-timestamp">3 seconds ago</span>
</div>
</body></html>`

const legacyPage = `<html><body>
<div class="mix_item">
  <a class="ad_creator_name" href="/player/3003">OldTimer</a>
  <span class="ad_time_text">5 seconds ago</span>
  <div class="offered_items"><span class="item_name">Sparkle Time Fedora</span><span class="item_name"> </span></div>
  <div class="requested_items"><span class="item_name">Dominus Empyreus</span></div>
  <span class="user_total_value">N/A</span>
</div>
</body></html>`

func newParser(t *testing.T, profile string) *Parser {
	t.Helper()
	prof, err := LookupProfile(profile, nil)
	require.NoError(t, err)
	p, err := New(prof, Options{BaseURL: "https://www.rolimons.com", CDNHost: "rbxcdn.com"})
	require.NoError(t, err)
	return p
}

func TestParseDocument_Slots(t *testing.T) {
	p := newParser(t, "v2-slots")

	res, err := p.ParseDocument(slotsPage)
	require.NoError(t, err)
	require.Len(t, res.Ads, 1)
	assert.Equal(t, 2, res.Malformed)

	ad := res.Ads[0]
	assert.Equal(t, "TraderJoe", ad.PosterName)
	assert.Equal(t, "https://www.rolimons.com/player/1001", ad.PosterProfileURL)
	assert.Equal(t, "https://tr.rbxcdn.com/avatar/1001.png", ad.PosterAvatarURL)
	assert.Equal(t, "https://www.rolimons.com/tradead/555", ad.DetailsURL)
	assert.Equal(t, "https://www.roblox.com/users/1001/trade", ad.SendTradeURL)
	assert.Equal(t, "1,204", ad.AdsCreated)
	assert.Equal(t, "12 seconds ago", ad.PostedAt)
	assert.Nil(t, ad.ParsedAt)

	require.NotNil(t, ad.UserTotalValue)
	assert.Equal(t, int64(2500000), *ad.UserTotalValue)
	require.NotNil(t, ad.ValueDiff)
	assert.Equal(t, int64(-1250), *ad.ValueDiff)
	require.NotNil(t, ad.RapDiff)
	assert.Equal(t, int64(3400), *ad.RapDiff)

	require.Len(t, ad.OfferedItems, 2)
	helm := ad.OfferedItems[0]
	assert.Equal(t, "1028606", helm.ID)
	assert.Equal(t, "Valkyrie Helm", helm.Name)
	require.NotNil(t, helm.Value)
	assert.Equal(t, int64(30000), *helm.Value)
	require.NotNil(t, helm.RAP)
	assert.Equal(t, int64(28512), *helm.RAP)

	shaggy := ad.OfferedItems[1]
	assert.Equal(t, "20573078", shaggy.ID)
	assert.Equal(t, "Shaggy", shaggy.Name)
	assert.Nil(t, shaggy.Value)
	assert.Nil(t, shaggy.RAP)
	assert.Equal(t, "https://www.rolimons.com/images/item/20573078.png", shaggy.ImageURL)

	require.Len(t, ad.RequestedItems, 1)
	dom := ad.RequestedItems[0]
	assert.Equal(t, "42", dom.ID)
	assert.Equal(t, "Dominus Frigidus", dom.Name)
	require.NotNil(t, dom.Value)
	assert.Equal(t, int64(1000000), *dom.Value)
	assert.Nil(t, dom.RAP)

	assert.Equal(t, int64(30000), ad.OfferValueTotal)
	assert.Equal(t, int64(28512), ad.OfferRapTotal)
	assert.Equal(t, int64(1000000), ad.RequestValueTotal)
	assert.Equal(t, int64(0), ad.RequestRapTotal)

	assert.Len(t, ad.Fingerprint, 64)
	assert.Equal(t, Fingerprint(ad), ad.Fingerprint)
}

func TestParseDocument_Legacy(t *testing.T) {
	p := newParser(t, "v1-legacy")

	res, err := p.ParseDocument(legacyPage)
	require.NoError(t, err)
	require.Len(t, res.Ads, 1)
	assert.Zero(t, res.Malformed)

	ad := res.Ads[0]
	assert.Equal(t, "5 seconds ago", ad.PostedAt, "falls back to [class*=time]")
	assert.Equal(t, []domain.ItemRef{{Name: "Sparkle Time Fedora"}}, ad.OfferedItems)
	assert.Equal(t, []domain.ItemRef{{Name: "Dominus Empyreus"}}, ad.RequestedItems)
	assert.Nil(t, ad.UserTotalValue)
	assert.Empty(t, ad.DetailsURL)
}

func TestParseAd_MissingMandatoryFields(t *testing.T) {
	p := newParser(t, "v2-slots")

	fixtures := map[string]string{
		"no poster":       `<div class="mix_item"><span class="trade-ad-timestamp">1 second ago</span></div>`,
		"blank poster":    `<div class="mix_item"><a class="ad_creator_name">   </a><span class="trade-ad-timestamp">1 second ago</span></div>`,
		"no timestamp":    `<div class="mix_item"><a class="ad_creator_name">Someone</a></div>`,
		"blank timestamp": `<div class="mix_item"><a class="ad_creator_name">Someone</a><span class="trade-ad-timestamp"> </span></div>`,
	}

	for name, markup := range fixtures {
		t.Run(name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
			require.NoError(t, err)

			ad, ok := p.ParseAd(doc.Find(".mix_item").First())
			assert.False(t, ok)
			assert.Nil(t, ad)
		})
	}
}

func TestFingerprint(t *testing.T) {
	base := &domain.TradeAd{
		PosterName:     "alice",
		PostedAt:       "5 seconds ago",
		OfferedItems:   []domain.ItemRef{{Name: "A"}, {Name: "B"}},
		RequestedItems: []domain.ItemRef{{Name: "C"}},
	}
	fp := Fingerprint(base)

	value := int64(10)
	withValue := *base
	withValue.OfferedItems = []domain.ItemRef{{Name: "A", Value: &value}, {Name: "B"}}
	assert.Equal(t, fp, Fingerprint(&withValue), "values do not feed the hash")

	otherPoster := *base
	otherPoster.PosterName = "bob"
	assert.NotEqual(t, fp, Fingerprint(&otherPoster))

	otherTime := *base
	otherTime.PostedAt = "6 seconds ago"
	assert.NotEqual(t, fp, Fingerprint(&otherTime))
}

func TestParseTooltip(t *testing.T) {
	name, value, rap := parseTooltip("Dominus<br/>Value: 12,345<BR>RAP 9,001")
	assert.Equal(t, "Dominus", name)
	require.NotNil(t, value)
	assert.Equal(t, int64(12345), *value)
	require.NotNil(t, rap)
	assert.Equal(t, int64(9001), *rap)

	name, value, rap = parseTooltip("Plain Name")
	assert.Equal(t, "Plain Name", name)
	assert.Nil(t, value)
	assert.Nil(t, rap)
}

func TestLookupProfile(t *testing.T) {
	p, err := LookupProfile("v2-slots", map[string]string{
		"container": ".trade_ad",
		"timestamp": ".ad_time",
	})
	require.NoError(t, err)
	assert.Equal(t, ".trade_ad", p.Container)
	assert.Equal(t, []string{".ad_time"}, p.Timestamp)
	assert.Equal(t, "onclick", p.HandlerAttr)

	_, err = LookupProfile("v3", nil)
	assert.Error(t, err)

	_, err = LookupProfile("v1-legacy", map[string]string{"bogus": "x"})
	assert.Error(t, err)

	assert.Equal(t, []string{"v1-legacy", "v2-slots"}, Profiles())
}

func TestLookupProfile_OverrideDoesNotLeak(t *testing.T) {
	_, err := LookupProfile("v2-slots", map[string]string{"timestamp": ".x"})
	require.NoError(t, err)

	p, err := LookupProfile("v2-slots", nil)
	require.NoError(t, err)
	assert.Len(t, p.Timestamp, 3)
}
