package main

import (
	"testing"

	"ratesprovider/internal/config"
)

func TestUpstreams(t *testing.T) {
	cfg := config.Default()
	got := upstreams(cfg)
	if len(got) != 7 {
		t.Fatalf("want 7 sources, got %d: %+v", len(got), got)
	}
	if got[0].Name != "Coinexchange.io:BTC" {
		t.Fatalf("unexpected first source: %+v", got[0])
	}
	last := got[6]
	if last.Name != "BitcoinAverage.com" || last.URL != "https://apiv2.bitcoinaverage.com/indices/global/ticker/short?crypto=BTC" {
		t.Fatalf("unexpected aggregator source: %+v", last)
	}
}

func TestWorkerCount(t *testing.T) {
	cases := []struct{ concurrency, jobs, want int }{
		{concurrency: 0, jobs: 7, want: 1},
		{concurrency: -2, jobs: 7, want: 1},
		{concurrency: 3, jobs: 7, want: 3},
		{concurrency: 20, jobs: 7, want: 7},
		{concurrency: 3, jobs: 0, want: 1},
	}
	for _, c := range cases {
		if got := workerCount(c.concurrency, c.jobs); got != c.want {
			t.Fatalf("workerCount(%d, %d) = %d, want %d", c.concurrency, c.jobs, got, c.want)
		}
	}
}
