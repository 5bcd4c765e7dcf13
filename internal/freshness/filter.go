// Package freshness decides whether a scraped ad timestamp is recent enough
// to announce. The site renders recency as relative English text, so the
// filter rejects anything it cannot read with confidence.
package freshness

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var relativePattern = regexp.MustCompile(`(?i)^(\d+|an?)\s*(second|minute|hour|day)s?\s+ago$`)

type Filter struct {
	// MaxMinutes is the largest "N minutes ago" still accepted.
	MaxMinutes int
	// Window bounds the age of absolute timestamps.
	Window time.Duration
	// Skew is how far past now an absolute timestamp may lie.
	Skew time.Duration
}

func NewFilter(maxMinutes int, window, skew time.Duration) *Filter {
	return &Filter{MaxMinutes: maxMinutes, Window: window, Skew: skew}
}

// Parse returns the instant the ad was posted, or false when the text is
// unreadable, too old or in the future.
func (f *Filter) Parse(raw string, now time.Time) (time.Time, bool) {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return time.Time{}, false
	}

	if strings.HasSuffix(strings.ToLower(text), "ago") {
		return f.parseRelative(text, now)
	}

	t, err := dateparse.ParseIn(text, now.Location())
	if err != nil {
		return time.Time{}, false
	}
	if t.Before(now.Add(-f.Window)) || t.After(now.Add(f.Skew)) {
		return time.Time{}, false
	}
	return t, true
}

func (f *Filter) parseRelative(text string, now time.Time) (time.Time, bool) {
	m := relativePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	amount := 1
	if word := strings.ToLower(m[1]); word != "a" && word != "an" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		amount = n
	}

	switch strings.ToLower(m[2]) {
	case "second":
		return ago(now, amount, time.Second)
	case "minute":
		if amount > f.MaxMinutes {
			return time.Time{}, false
		}
		return ago(now, amount, time.Minute)
	default:
		return time.Time{}, false
	}
}

func ago(now time.Time, amount int, unit time.Duration) (time.Time, bool) {
	if int64(amount) > math.MaxInt64/int64(unit) {
		return time.Time{}, false
	}
	return now.Add(-time.Duration(amount) * unit), true
}
