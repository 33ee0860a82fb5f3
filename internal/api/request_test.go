package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jchliao/twse-data/internal/errlog"
)

func testRecorder() (*errlog.Recorder, *strings.Builder) {
	var sb strings.Builder
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return errlog.New(logger), &sb
}

func fastRetries() ClientOption {
	return WithRetries(3, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond})
}

func TestFetchQuotesSuccess(t *testing.T) {
	var gotQuery, gotUA, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		w.Write([]byte(`{"msgArray":[{"c":"2330"}],"rtcode":"0000"}`))
	}))
	defer srv.Close()

	rec, _ := testRecorder()
	c := NewClient(srv.URL, rec, fastRetries())

	body, err := c.FetchQuotes(context.Background(), "tse_2330.tw|otc_3008.tw")
	if err != nil {
		t.Fatalf("FetchQuotes failed: %v", err)
	}
	if !strings.Contains(string(body), "2330") {
		t.Errorf("body = %q, missing payload", body)
	}

	if !strings.Contains(gotQuery, "ex_ch=tse_2330.tw%7Cotc_3008.tw") {
		t.Errorf("query = %q, missing encoded ex_ch", gotQuery)
	}
	for _, param := range []string{"json=1", "delay=0", "lang=zh_tw"} {
		if !strings.Contains(gotQuery, param) {
			t.Errorf("query = %q, missing %q", gotQuery, param)
		}
	}
	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Errorf("User-Agent = %q, want browser-like", gotUA)
	}
	if gotReferer != "https://mis.twse.com.tw/stock/detail-item" {
		t.Errorf("Referer = %q", gotReferer)
	}

	if rec.Len() != 0 {
		t.Errorf("recorder has %d entries after clean fetch, want 0", rec.Len())
	}
}

func TestFetchQuotesRecoversOnThirdAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"msgArray":[]}`))
	}))
	defer srv.Close()

	rec, _ := testRecorder()
	c := NewClient(srv.URL, rec, fastRetries())

	if _, err := c.FetchQuotes(context.Background(), "tse_2330.tw"); err != nil {
		t.Fatalf("FetchQuotes failed after recovery: %v", err)
	}

	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
	// Exactly one entry per failed attempt.
	if rec.Len() != 2 {
		t.Errorf("recorder has %d entries, want 2", rec.Len())
	}
}

func TestFetchQuotesExhaustsBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rec, _ := testRecorder()
	c := NewClient(srv.URL, rec, fastRetries())

	_, err := c.FetchQuotes(context.Background(), "tse_2330.tw")
	if err == nil {
		t.Fatal("FetchQuotes should fail when every attempt fails")
	}
	if !strings.Contains(err.Error(), "all 3 attempts failed") {
		t.Errorf("err = %v, want attempt budget message", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
	if rec.Len() != 3 {
		t.Errorf("recorder has %d entries, want 3", rec.Len())
	}
}

func TestFetchQuotesTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	rec, _ := testRecorder()
	c := NewClient(srv.URL, rec, WithRetries(2, []time.Duration{time.Millisecond}))

	if _, err := c.FetchQuotes(context.Background(), "tse_2330.tw"); err == nil {
		t.Fatal("FetchQuotes should fail against a closed server")
	}
	if rec.Len() != 2 {
		t.Errorf("recorder has %d entries, want 2", rec.Len())
	}
}

func TestFetchQuotesTimeoutIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	rec, _ := testRecorder()
	c := NewClient(srv.URL, rec,
		WithTimeout(20*time.Millisecond),
		WithRetries(2, []time.Duration{time.Millisecond}),
	)

	start := time.Now()
	_, err := c.FetchQuotes(context.Background(), "tse_2330.tw")
	if err == nil {
		t.Fatal("FetchQuotes should fail on timeout")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("fetch took %v, timeout not applied per attempt", elapsed)
	}
	if rec.Len() != 2 {
		t.Errorf("recorder has %d entries, want 2", rec.Len())
	}
}

func TestFetchQuotesHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	rec, _ := testRecorder()
	c := NewClient(srv.URL, rec, WithRetries(3, []time.Duration{time.Hour, time.Hour}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := c.FetchQuotes(ctx, "tse_2330.tw")
	if err == nil {
		t.Fatal("FetchQuotes should fail when canceled mid-backoff")
	}
	if time.Since(start) > time.Second {
		t.Error("cancellation did not interrupt backoff sleep")
	}
}
