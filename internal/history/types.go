package history

import (
	"time"

	"github.com/jchliao/twse-data/internal/market"
)

// Bar is one daily OHLCV bar. The provider reports nulls for halted or
// partial sessions, so every value is optional.
type Bar struct {
	Date   time.Time
	Open   *float64
	High   *float64
	Low    *float64
	Close  *float64
	Volume *int64
}

// Series holds the bars recovered for one ticker.
type Series struct {
	Code   string
	Venue  market.Venue
	Symbol string
	Bars   []Bar
}

// Symbol returns the provider ticker symbol for a code on a venue, e.g.
// "2330.TW" for the main board and "3008.TWO" for the OTC board.
func Symbol(code string, venue market.Venue) string {
	return code + venue.HistorySuffix()
}

// chartResponse mirrors the chart endpoint's JSON envelope. Only the fields
// the gatherer consumes are declared.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []quoteBlock `json:"quote"`
	} `json:"indicators"`
}

// quoteBlock carries parallel arrays aligned with Timestamp. Entries are
// pointers because the endpoint emits JSON nulls inside the arrays.
type quoteBlock struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// bars flattens a chart result into date-ordered bars. Rows where every
// field is null are kept; the sinks render them as empty cells.
func (r *chartResult) bars(loc *time.Location) []Bar {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]

	out := make([]Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		b := Bar{Date: time.Unix(ts, 0).In(loc)}
		if i < len(q.Open) {
			b.Open = q.Open[i]
		}
		if i < len(q.High) {
			b.High = q.High[i]
		}
		if i < len(q.Low) {
			b.Low = q.Low[i]
		}
		if i < len(q.Close) {
			b.Close = q.Close[i]
		}
		if i < len(q.Volume) {
			b.Volume = q.Volume[i]
		}
		out = append(out, b)
	}
	return out
}
