package decode

import (
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

var (
	tpeOnce sync.Once
	tpeLoc  *time.Location
)

// Taipei returns the provider's local time zone. The tzdata database is
// embedded so this works in environments without a system zoneinfo; if the
// lookup still fails it falls back to a fixed +08:00 zone.
func Taipei() *time.Location {
	tpeOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Taipei")
		if err != nil {
			loc = time.FixedZone("Asia/Taipei", 8*60*60)
		}
		tpeLoc = loc
	})
	return tpeLoc
}

// isAbsent reports whether a token is one of the provider's "no data"
// sentinels. Fields are frequently blanked outside trading hours.
func isAbsent(s string) bool {
	return s == "" || s == "-" || s == "N/A"
}

// Float converts a price token to a float. Returns nil for empty tokens,
// the sentinels "-" and "N/A", and anything that fails to parse.
func Float(token string) *float64 {
	s := strings.TrimSpace(token)
	if isAbsent(s) {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Int converts a size/volume token to an integer with the same nil policy
// as Float. Thousands-separator commas are stripped, and decimal values
// are accepted and truncated.
func Int(token string) *int64 {
	s := strings.TrimSpace(strings.ReplaceAll(token, ",", ""))
	if isAbsent(s) {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int64(f)
	return &n
}

// LadderPrices splits an underscore-delimited price ladder into per-level
// values. The provider pads trailing empty slots ("119_120_"), which are
// dropped; segment order maps to levels 1..N.
func LadderPrices(token string) []*float64 {
	if token == "" {
		return nil
	}
	var out []*float64
	for _, seg := range strings.Split(token, "_") {
		if seg == "" {
			continue
		}
		out = append(out, Float(seg))
	}
	return out
}

// LadderSizes is the size-ladder counterpart of LadderPrices.
func LadderSizes(token string) []*int64 {
	if token == "" {
		return nil
	}
	var out []*int64
	for _, seg := range strings.Split(token, "_") {
		if seg == "" {
			continue
		}
		out = append(out, Int(seg))
	}
	return out
}

// Timestamp combines the provider's split date (YYYYMMDD) and time
// (HH:MM:SS) tokens into an ISO-8601 string in the provider's local zone.
// Returns nil when either token is missing or malformed; downstream
// consumers must tolerate a nil timestamp.
func Timestamp(dateToken, timeToken string) *string {
	if dateToken == "" || timeToken == "" {
		return nil
	}
	t, err := time.ParseInLocation("20060102 15:04:05", dateToken+" "+timeToken, Taipei())
	if err != nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
