// Package adparse turns trade-ads markup into domain.TradeAd records.
package adparse

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"trade_tracker/internal/domain"
)

// DefaultPlaceholders are slot images the site uses for empty or tag slots.
var DefaultPlaceholders = []string{
	"/images/transparent-square-110.png",
	"/images/empty_trade_slot.png",
	"/images/tradetagany-420.png",
	"/images/tradetagdemand-420.png",
	"/images/tradetagupgrade-420.png",
	"/images/tradetagdowngrade-420.png",
}

var (
	digitsPattern  = regexp.MustCompile(`\d+`)
	brPattern      = regexp.MustCompile(`(?i)<br\s*/?>`)
	tooltipPattern = regexp.MustCompile(`(?i)^(value|rap)\s*:?\s*([\d,]+)`)
	numberPattern  = regexp.MustCompile(`[+-]?[\d,]+`)
)

type Options struct {
	BaseURL      string
	CDNHost      string
	Placeholders []string
}

type Parser struct {
	profile      Profile
	base         *url.URL
	cdnHost      string
	placeholders []string
}

// Result is the outcome of parsing one page.
type Result struct {
	Ads []*domain.TradeAd
	// Malformed counts containers skipped for missing poster or time.
	Malformed int
}

func New(profile Profile, opts Options) (*Parser, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	placeholders := opts.Placeholders
	if len(placeholders) == 0 {
		placeholders = DefaultPlaceholders
	}

	return &Parser{
		profile:      profile,
		base:         base,
		cdnHost:      strings.ToLower(opts.CDNHost),
		placeholders: placeholders,
	}, nil
}

func (p *Parser) Profile() string {
	return p.profile.Name
}

func (p *Parser) ParseDocument(markup string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	var res Result
	doc.Find(p.profile.Container).Each(func(_ int, s *goquery.Selection) {
		ad, ok := p.ParseAd(s)
		if !ok {
			res.Malformed++
			return
		}
		res.Ads = append(res.Ads, ad)
	})

	return res, nil
}

// ParseAd extracts one ad from its container. It returns false when the
// poster name or the time text is missing.
func (p *Parser) ParseAd(s *goquery.Selection) (*domain.TradeAd, bool) {
	poster := s.Find(p.profile.PosterName).First()
	name := cleanText(poster.Text())
	if name == "" {
		return nil, false
	}

	var postedAt string
	for _, sel := range p.profile.Timestamp {
		if postedAt = cleanText(s.Find(sel).First().Text()); postedAt != "" {
			break
		}
	}
	if postedAt == "" {
		return nil, false
	}

	ad := &domain.TradeAd{
		PosterName:       name,
		PosterProfileURL: p.absolute(attr(poster, "href")),
		PosterAvatarURL:  p.absolute(attr(s.Find(p.profile.PosterAvatar).First(), "src")),
		DetailsURL:       p.absolute(attr(s.Find(p.profile.DetailsLink).First(), "href")),
		SendTradeURL:     p.absolute(attr(s.Find(p.profile.SendTradeLink).First(), "href")),
		AdsCreated:       cleanText(s.Find(p.profile.AdsCreated).First().Text()),
		PostedAt:         postedAt,
		UserTotalValue:   parseNumber(s.Find(p.profile.UserTotalValue).First().Text()),
		ValueDiff:        parseNumber(s.Find(p.profile.ValueDiff).First().Text()),
		RapDiff:          parseNumber(s.Find(p.profile.RapDiff).First().Text()),
	}

	ad.OfferedItems = p.parseSlots(s.Find(p.profile.OfferedSlots))
	ad.RequestedItems = p.parseSlots(s.Find(p.profile.RequestedSlots))
	ad.OfferValueTotal, ad.OfferRapTotal = totals(ad.OfferedItems)
	ad.RequestValueTotal, ad.RequestRapTotal = totals(ad.RequestedItems)
	ad.Fingerprint = Fingerprint(ad)

	return ad, true
}

func (p *Parser) parseSlots(slots *goquery.Selection) []domain.ItemRef {
	var items []domain.ItemRef
	slots.Each(func(_ int, slot *goquery.Selection) {
		if p.profile.NameOnly {
			if name := cleanText(slot.Text()); name != "" {
				items = append(items, domain.ItemRef{Name: name})
			}
			return
		}
		if item, ok := p.parseSlot(slot); ok {
			items = append(items, item)
		}
	})
	return items
}

func (p *Parser) parseSlot(slot *goquery.Selection) (domain.ItemRef, bool) {
	img := slot
	if p.profile.SlotImage != "" && !slot.Is(p.profile.SlotImage) {
		img = slot.Find(p.profile.SlotImage).First()
	}
	src := attr(img, "src")
	if src == "" || p.isPlaceholder(src) {
		return domain.ItemRef{}, false
	}

	_, selected := firstAttr(p.profile.SelectionAttr, slot, img)
	if !selected && !p.isCDN(src) {
		return domain.ItemRef{}, false
	}

	item := domain.ItemRef{ImageURL: p.absolute(src)}

	if handler, ok := firstAttr(p.profile.HandlerAttr, slot, img); ok {
		item.ID = digitsPattern.FindString(handler)
	}

	for _, name := range p.profile.TooltipAttrs {
		tooltip, ok := firstAttr(name, slot, img)
		if !ok || tooltip == "" {
			continue
		}
		item.Name, item.Value, item.RAP = parseTooltip(tooltip)
		break
	}

	if item.Name == "" && p.profile.SlotName != "" {
		item.Name = cleanText(slot.Find(p.profile.SlotName).First().Text())
	}
	if item.Name == "" {
		item.Name = cleanText(attr(img, "alt"))
	}

	return item, true
}

func (p *Parser) isPlaceholder(src string) bool {
	path := src
	if u, err := url.Parse(src); err == nil {
		path = u.Path
	}
	for _, ph := range p.placeholders {
		if strings.HasSuffix(path, ph) {
			return true
		}
	}
	return false
}

func (p *Parser) isCDN(src string) bool {
	if p.cdnHost == "" {
		return false
	}
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == p.cdnHost || strings.HasSuffix(host, "."+p.cdnHost)
}

func (p *Parser) absolute(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return p.base.ResolveReference(u).String()
}

// Fingerprint hashes the poster, raw time text and item names. Values are
// not part of the hash.
func Fingerprint(ad *domain.TradeAd) string {
	content := fmt.Sprintf("%s-%s-%s-%s",
		ad.PosterName,
		ad.PostedAt,
		strings.Join(domain.ItemNames(ad.OfferedItems), ","),
		strings.Join(domain.ItemNames(ad.RequestedItems), ","),
	)
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// parseTooltip reads "Name<br>Value 1,234<br>RAP 5,678".
func parseTooltip(tooltip string) (name string, value, rap *int64) {
	parts := brPattern.Split(tooltip, -1)
	name = cleanText(parts[0])
	for _, part := range parts[1:] {
		m := tooltipPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		n := parseNumber(m[2])
		if strings.EqualFold(m[1], "value") {
			value = n
		} else {
			rap = n
		}
	}
	return name, value, rap
}

func parseNumber(text string) *int64 {
	m := numberPattern.FindString(strings.TrimSpace(text))
	if m == "" {
		return nil
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(m, ",", ""), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func totals(items []domain.ItemRef) (value, rap int64) {
	for _, it := range items {
		if it.Value != nil {
			value += *it.Value
		}
		if it.RAP != nil {
			rap += *it.RAP
		}
	}
	return value, rap
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}

func firstAttr(name string, sels ...*goquery.Selection) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, s := range sels {
		if v, ok := s.Attr(name); ok {
			return v, true
		}
	}
	return "", false
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
