// Package api provides the client for the TWSE/TPEX realtime quote endpoint.
//
// Endpoint: GET https://mis.twse.com.tw/stock/api/getStockInfo.jsp with a
// venue-qualified ex_ch filter, json=1, delay=0 and a language tag. The
// endpoint expects browser-like headers and returns a document whose
// msgArray elements use short one/two-letter field keys.
//
// Retry policy: a fixed attempt budget with a fixed backoff schedule
// between attempts. Every failed attempt is recorded on the run's error
// recorder; an exhausted budget drops the batch, never the run.
package api
