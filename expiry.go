package ezstorage

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const day = 24 * time.Hour

type expiryKind int

const (
	expiryNone expiryKind = iota
	expiryAt
	expiryDays
	expiryText
)

// Expiry is an expiration request: an absolute time, a number of days from
// now, or date text to be parsed. The zero value means no expiry.
type Expiry struct {
	kind expiryKind
	at   time.Time
	days float64
	text string
}

// At expires at t. A zero t means no expiry.
func At(t time.Time) Expiry {
	if t.IsZero() {
		return Expiry{}
	}
	return Expiry{kind: expiryAt, at: t}
}

// InDays expires n days (possibly fractional or negative) after the call.
// Zero means no expiry.
func InDays(n float64) Expiry {
	if n == 0 {
		return Expiry{}
	}
	return Expiry{kind: expiryDays, days: n}
}

// On expires at the date described by text, e.g. "2030-01-02" or
// "Mon, 02 Jan 2030 15:04:05 GMT".
func On(text string) Expiry {
	if strings.TrimSpace(text) == "" {
		return Expiry{}
	}
	return Expiry{kind: expiryText, text: text}
}

// IsZero reports whether e requests no expiry.
func (e Expiry) IsZero() bool { return e.kind == expiryNone }

// Time returns the absolute expiry of a resolved Expiry.
func (e Expiry) Time() (time.Time, bool) {
	if e.kind != expiryAt {
		return time.Time{}, false
	}
	return e.at, true
}

// resolve converts e to an absolute Expiry relative to now.
func (e Expiry) resolve(now time.Time) (Expiry, error) {
	switch e.kind {
	case expiryAt, expiryNone:
		return e, nil
	case expiryDays:
		return At(addDays(now, e.days)), nil
	case expiryText:
		t, err := parseDate(e.text)
		if err != nil {
			return Expiry{}, fmt.Errorf("parse expiry %q: %w", e.text, err)
		}
		return At(t), nil
	default:
		return Expiry{}, fmt.Errorf("unknown expiry kind %d", e.kind)
	}
}

// maxDays keeps whole-day arithmetic within int range on every platform.
const maxDays = math.MaxInt32

// addDays adds n days of exactly 24h each. Whole days go through AddDate in
// UTC so counts beyond the range of a Duration do not wrap.
func addDays(now time.Time, n float64) time.Time {
	n = math.Max(-maxDays, math.Min(maxDays, n))
	whole, frac := math.Modf(n)
	return now.UTC().AddDate(0, 0, int(whole)).Add(time.Duration(frac * float64(day))).In(now.Location())
}

// parseDate reads RFC 3339 first, then free-form text. Text without a zone
// is taken as UTC.
func parseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return t, nil
	}
	return dateparse.ParseIn(text, time.UTC)
}

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is an envelope expiry. It is written as UTC RFC 3339 text with
// millisecond precision and read from either date text or Unix milliseconds.
// Unreadable input decodes to the zero Timestamp, which never expires.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(isoMillis))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
		if parsed, err := parseDate(text); err == nil {
			t.Time = parsed
		}
		return nil
	}
	var millis float64
	if err := json.Unmarshal(data, &millis); err != nil {
		return nil
	}
	t.Time = time.UnixMilli(int64(millis)).UTC()
	return nil
}
