package history

import (
	"fmt"
	"time"

	"github.com/jchliao/twse-data/internal/decode"
)

// DateLayout is the wire format for range boundaries.
const DateLayout = "2006-01-02"

// Range is a closed date interval for a daily-bars request.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange resolves the user-supplied boundaries. Empty end defaults to
// today; empty start defaults to end minus lookbackDays. A start after the
// end is a configuration error.
func NewRange(start, end string, lookbackDays int) (Range, error) {
	if lookbackDays <= 0 {
		return Range{}, fmt.Errorf("lookback_days must be > 0, got %d", lookbackDays)
	}

	loc := decode.Taipei()
	now := time.Now().In(loc)

	endT := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if end != "" {
		t, err := time.ParseInLocation(DateLayout, end, loc)
		if err != nil {
			return Range{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		endT = t
	}

	startT := endT.AddDate(0, 0, -lookbackDays)
	if start != "" {
		t, err := time.ParseInLocation(DateLayout, start, loc)
		if err != nil {
			return Range{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
		startT = t
	}

	if startT.After(endT) {
		return Range{}, fmt.Errorf("start %s is after end %s",
			startT.Format(DateLayout), endT.Format(DateLayout))
	}

	return Range{Start: startT, End: endT}, nil
}

// periods returns the inclusive unix boundaries the chart endpoint expects.
// The end boundary is extended to the following midnight so the end date's
// own bar is included.
func (r Range) periods() (int64, int64) {
	return r.Start.Unix(), r.End.AddDate(0, 0, 1).Unix()
}
