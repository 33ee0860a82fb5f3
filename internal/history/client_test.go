package history

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jchliao/twse-data/internal/market"
)

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1758153600, 1758240000],
      "indicators": {
        "quote": [{
          "open":   [118.0, null],
          "high":   [119.5, 120.0],
          "low":    [117.0, 118.0],
          "close":  [118.5, 119.0],
          "volume": [23415, null]
        }]
      }
    }],
    "error": null
  }
}`

func testRange(t *testing.T) Range {
	t.Helper()
	r, err := NewRange("2025-09-18", "2025-09-19", 30)
	if err != nil {
		t.Fatalf("NewRange failed: %v", err)
	}
	return r
}

func TestFetchParsesBars(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	series, err := c.Fetch(context.Background(), "2330", market.VenueListed, testRange(t))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotPath != "/2330.TW" {
		t.Errorf("request path = %q, want /2330.TW", gotPath)
	}
	if !strings.Contains(gotQuery, "interval=1d") {
		t.Errorf("query %q missing interval=1d", gotQuery)
	}

	if series.Symbol != "2330.TW" {
		t.Errorf("symbol = %q, want 2330.TW", series.Symbol)
	}
	if len(series.Bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(series.Bars))
	}

	first := series.Bars[0]
	if first.Close == nil || *first.Close != 118.5 {
		t.Errorf("first close = %v, want 118.5", first.Close)
	}
	if first.Volume == nil || *first.Volume != 23415 {
		t.Errorf("first volume = %v, want 23415", first.Volume)
	}

	second := series.Bars[1]
	if second.Open != nil {
		t.Errorf("second open = %v, want nil (provider null)", *second.Open)
	}
	if second.Volume != nil {
		t.Errorf("second volume = %v, want nil (provider null)", *second.Volume)
	}
}

func TestFetchOTCSuffix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Fetch(context.Background(), "3008", market.VenueOTC, testRange(t)); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotPath != "/3008.TWO" {
		t.Errorf("request path = %q, want /3008.TWO", gotPath)
	}
}

func TestFetchProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "9999", market.VenueListed, testRange(t))
	if err == nil {
		t.Fatal("expected provider error")
	}
	if !strings.Contains(err.Error(), "Not Found") {
		t.Errorf("error %q missing provider code", err)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Fetch(context.Background(), "2330", market.VenueListed, testRange(t)); err == nil {
		t.Fatal("expected status error")
	}
}

func TestFetchAllPreservesOrderAndBoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inflight, peak := 0, 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inflight++
		if inflight > peak {
			peak = inflight
		}
		mu.Unlock()

		fmt.Fprint(w, chartBody)

		mu.Lock()
		inflight--
		mu.Unlock()
	}))
	defer srv.Close()

	codes := []string{"2330", "2317", "3008", "2603", "3305"}
	c := NewClient(srv.URL, WithConcurrency(2))

	series, err := c.FetchAll(context.Background(), codes, market.DefaultDirectory(), testRange(t))
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}

	if len(series) != len(codes) {
		t.Fatalf("got %d series, want %d", len(series), len(codes))
	}
	for i, code := range codes {
		if series[i].Code != code {
			t.Errorf("series[%d].Code = %q, want %q (caller order)", i, series[i].Code, code)
		}
	}
	if peak > 2 {
		t.Errorf("peak concurrency %d exceeded limit 2", peak)
	}
}

func TestFetchAllFailsWhole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "2317") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchAll(context.Background(), []string{"2330", "2317"}, market.DefaultDirectory(), testRange(t))
	if err == nil {
		t.Fatal("expected failure when one symbol fails")
	}
}

func TestFetchAllRejectsEmptyCodes(t *testing.T) {
	c := NewClient("http://unused.invalid")
	if _, err := c.FetchAll(context.Background(), nil, market.DefaultDirectory(), testRange(t)); err == nil {
		t.Fatal("expected error for empty code list")
	}
}
