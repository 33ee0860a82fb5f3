package snapshot

import (
	"github.com/jchliao/twse-data/internal/api"
	"github.com/jchliao/twse-data/internal/decode"
	"github.com/jchliao/twse-data/internal/market"
	"github.com/jchliao/twse-data/internal/model"
)

// decodeRow normalizes one provider message into the fixed row schema.
// Decoding never fails: malformed sub-fields degrade to nil in place.
func decodeRow(msg api.QuoteMsg) model.QuoteRow {
	timeTok := msg.TimeToken()

	row := model.QuoteRow{
		TS:        decode.Timestamp(msg.Date, timeTok),
		Market:    market.Venue(msg.Exchange),
		Code:      msg.Code,
		Name:      msg.Name,
		FullName:  msg.FullName,
		Open:      decode.Float(msg.Open),
		High:      decode.Float(msg.High),
		Low:       decode.Float(msg.Low),
		PrevClose: decode.Float(msg.PrevClose),
		Last:      decode.Float(msg.Last),
		UpLimit:   decode.Float(msg.UpLimit),
		DownLimit: decode.Float(msg.DownLimit),
		Volume:    decode.Int(msg.Volume),
		RawDate:   msg.Date,
		RawTime:   timeTok,
	}

	bidPx := decode.LadderPrices(msg.BidPrices)
	askPx := decode.LadderPrices(msg.AskPrices)
	bidSz := decode.LadderSizes(msg.BidSizes)
	askSz := decode.LadderSizes(msg.AskSizes)

	// Ladder index i maps to level i+1; levels beyond the decoded ladder
	// stay nil.
	for i := 0; i < model.NumLevels; i++ {
		if i < len(bidPx) {
			row.BidPx[i] = bidPx[i]
		}
		if i < len(askPx) {
			row.AskPx[i] = askPx[i]
		}
		if i < len(bidSz) {
			row.BidSz[i] = bidSz[i]
		}
		if i < len(askSz) {
			row.AskSz[i] = askSz[i]
		}
	}

	return row
}
