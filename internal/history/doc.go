// Package history fetches daily OHLCV bars from a chart-style provider as a
// backfill complement to the realtime snapshot path.
//
// Symbols follow the provider's venue suffix convention: main-board codes
// get ".TW", OTC codes get ".TWO". Ranges are closed date intervals in
// Asia/Taipei; an unset end defaults to today and an unset start to the
// configured lookback before the end.
package history
