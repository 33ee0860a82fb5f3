package model

import (
	"fmt"

	"github.com/jchliao/twse-data/internal/market"
)

// NumLevels is the bid/ask ladder depth carried by every quote row.
const NumLevels = 5

// QuoteRow is one normalized snapshot of one ticker. Every row carries the
// full fixed column set; pointer fields are nil where the provider omitted
// the value. Rows are never mutated after creation.
type QuoteRow struct {
	TS        *string      // ISO-8601, provider-local zone; nil if unparsable
	Market    market.Venue // venue reported by the provider ("ex" key)
	Code      string       // ticker code ("c")
	Name      string       // short name ("n")
	FullName  string       // full company name ("nf")
	Open      *float64     // "o"
	High      *float64     // "h"
	Low       *float64     // "l"
	PrevClose *float64     // "y"
	Last      *float64     // "z"
	UpLimit   *float64     // "u"
	DownLimit *float64     // "w"
	Volume    *int64       // "v", cumulative shares
	RawDate   string       // "d", YYYYMMDD as received
	RawTime   string       // "t" (or "%" fallback), HH:MM:SS as received

	// Five-level ladders, index 0 = level 1. Missing levels are nil.
	BidPx [NumLevels]*float64
	BidSz [NumLevels]*int64
	AskPx [NumLevels]*float64
	AskSz [NumLevels]*int64
}

// Table is an ordered set of quote rows that always carries the fixed
// column schema, including when it holds zero rows.
type Table struct {
	Rows []QuoteRow
}

// Empty reports whether the table holds no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Columns returns the fixed, ordered column set. The set never varies by
// input: absent values surface as nils in Values, not as missing columns.
func (t *Table) Columns() []string {
	return Schema()
}

// Schema returns the fixed column order: the fifteen base columns followed
// by the twenty ladder columns grouped per level.
func Schema() []string {
	cols := []string{
		"ts", "market", "code", "name", "fullname",
		"open", "high", "low", "prev_close", "last",
		"up_limit", "dn_limit", "vol", "date", "time",
	}
	for i := 1; i <= NumLevels; i++ {
		cols = append(cols,
			fmt.Sprintf("bid_px_%d", i),
			fmt.Sprintf("bid_sz_%d", i),
			fmt.Sprintf("ask_px_%d", i),
			fmt.Sprintf("ask_sz_%d", i),
		)
	}
	return cols
}

// Values projects the row into schema order for tabular sinks. Nil fields
// become nil values, keeping the column set stable.
func (r *QuoteRow) Values() []any {
	vals := []any{
		strPtr(r.TS), string(r.Market), r.Code, r.Name, r.FullName,
		f64Ptr(r.Open), f64Ptr(r.High), f64Ptr(r.Low), f64Ptr(r.PrevClose), f64Ptr(r.Last),
		f64Ptr(r.UpLimit), f64Ptr(r.DownLimit), i64Ptr(r.Volume), r.RawDate, r.RawTime,
	}
	for i := 0; i < NumLevels; i++ {
		vals = append(vals,
			f64Ptr(r.BidPx[i]),
			i64Ptr(r.BidSz[i]),
			f64Ptr(r.AskPx[i]),
			i64Ptr(r.AskSz[i]),
		)
	}
	return vals
}

func strPtr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func f64Ptr(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func i64Ptr(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
