package api

import (
	"encoding/json"
	"fmt"
)

// StockInfoResponse is the structured document returned by the quote
// endpoint. Only msgArray is load-bearing; the rt fields are pass-through
// endpoint metadata.
type StockInfoResponse struct {
	MsgArray  []QuoteMsg `json:"msgArray"`
	Rtcode    string     `json:"rtcode"`
	Rtmessage string     `json:"rtmessage"`
	QueryTime struct {
		SysDate string `json:"sysDate"`
		SysTime string `json:"sysTime"`
	} `json:"queryTime"`
}

// QuoteMsg is one provider message, keyed by the endpoint's short field
// names. All values arrive as strings; absent fields decode to "".
type QuoteMsg struct {
	Code      string `json:"c"`
	Name      string `json:"n"`
	FullName  string `json:"nf"`
	Exchange  string `json:"ex"`
	Open      string `json:"o"`
	High      string `json:"h"`
	Low       string `json:"l"`
	PrevClose string `json:"y"`
	Last      string `json:"z"`
	UpLimit   string `json:"u"`
	DownLimit string `json:"w"`
	Volume    string `json:"v"`
	Date      string `json:"d"`
	Time      string `json:"t"`
	// AltTime mirrors Time under the undocumented "%" key, observed when
	// "t" is absent. Used only as a fallback.
	AltTime string `json:"%"`

	// Five-level ladders, underscore-delimited with trailing padding.
	BidPrices string `json:"a"`
	AskPrices string `json:"b"`
	BidSizes  string `json:"f"`
	AskSizes  string `json:"g"`
}

// TimeToken returns the time-of-day token, falling back to the "%" key
// when "t" is absent.
func (m *QuoteMsg) TimeToken() string {
	if m.Time != "" {
		return m.Time
	}
	return m.AltTime
}

// ParseStockInfo decodes a response body. A document without msgArray
// parses to an empty message list; only malformed JSON is an error.
func ParseStockInfo(body []byte) (*StockInfoResponse, error) {
	var resp StockInfoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal quote response: %w", err)
	}
	return &resp, nil
}
