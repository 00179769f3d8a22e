package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"ratesprovider/internal/config"
	"ratesprovider/internal/httpx"
	"ratesprovider/internal/provider/bitcoinaverage"
)

// source is one upstream endpoint to capture.
type source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type capture struct {
	Name   string          `json:"name"`
	URL    string          `json:"url"`
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body,omitempty"`
	Raw    string          `json:"raw,omitempty"`
	Error  string          `json:"error,omitempty"`
	Took   string          `json:"took"`
}

type dump struct {
	FetchedAt time.Time `json:"fetched_at"`
	Captures  []capture `json:"captures"`
}

type httpStatusErr struct {
	code int
	body []byte
}

func (e *httpStatusErr) Error() string { return fmt.Sprintf("http %d", e.code) }

func main() {
	var (
		outPath     string
		cfgPath     string
		concurrency int
		timeout     time.Duration
		maxRetries  int
		rpm         int
	)
	_ = godotenv.Load()

	flag.StringVar(&outPath, "out", "rates_dump.json", "output JSON file path")
	flag.StringVar(&cfgPath, "config", os.Getenv("CONFIG_FILE"), "path to config.yaml (optional)")
	flag.IntVar(&concurrency, "concurrency", 3, "number of parallel requests")
	flag.DurationVar(&timeout, "timeout", 20*time.Second, "HTTP timeout")
	flag.IntVar(&maxRetries, "retries", 3, "max retries on 429/5xx")
	flag.IntVar(&rpm, "rpm", 0, "max requests per minute (0 = unlimited)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	sources := upstreams(cfg)
	log.Printf("sources: %d", len(sources))

	client := httpx.New(timeout)
	client.UserAgent = cfg.Exchange.UserAgent
	if cfg.Aggregator.APIKey != "" {
		client.Headers = map[string]string{"X-ba-key": cfg.Aggregator.APIKey}
	}

	// Request rate limiter by RPM, if provided
	var tokenCh <-chan time.Time
	if rpm > 0 {
		t := time.NewTicker(time.Minute / time.Duration(rpm))
		defer t.Stop()
		tokenCh = t.C
	}

	fetch := func(ctx context.Context, url string) (int, []byte, error) {
		attempt := 0
		for {
			if tokenCh != nil {
				<-tokenCh
			}
			status, body, err := client.Get(ctx, url)
			if err == nil && (status < 200 || status >= 300) {
				err = &httpStatusErr{code: status, body: body}
			}
			if err == nil {
				return status, body, nil
			}
			var hs *httpStatusErr
			if errors.As(err, &hs) && (hs.code == 429 || hs.code >= 500) && attempt < maxRetries {
				time.Sleep(time.Duration(250*(1<<attempt)) * time.Millisecond)
				attempt++
				continue
			}
			return status, body, err
		}
	}

	captures := make([]capture, len(sources))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workerCount(concurrency, len(sources)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				src := sources[i]
				ctx, cancel := context.WithTimeout(context.Background(), timeout)
				start := time.Now()
				status, body, err := fetch(ctx, src.URL)
				cancel()

				c := capture{Name: src.Name, URL: src.URL, Status: status, Took: time.Since(start).String()}
				if err != nil {
					c.Error = err.Error()
					log.Printf("%s: %v", src.Name, err)
				}
				if json.Valid(body) {
					c.Body = body
				} else if len(body) > 0 {
					c.Raw = string(body)
				}
				captures[i] = c
			}
		}()
	}
	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	outFile, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("create out: %v", err)
	}
	defer outFile.Close()
	bw := bufio.NewWriterSize(outFile, 1<<20)
	enc := json.NewEncoder(bw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump{FetchedAt: time.Now().UTC(), Captures: captures}); err != nil {
		log.Fatalf("encode: %v", err)
	}
	if err := bw.Flush(); err != nil {
		log.Fatalf("flush: %v", err)
	}
	log.Printf("done: wrote %s", outPath)
}

// workerCount clamps the requested concurrency to [1, jobs].
func workerCount(concurrency, jobs int) int {
	if concurrency > jobs {
		concurrency = jobs
	}
	return max(concurrency, 1)
}

// upstreams lists every configured market plus the aggregator ticker.
func upstreams(cfg config.Config) []source {
	out := make([]source, 0, len(cfg.Markets)+1)
	for _, m := range cfg.Markets {
		out = append(out, source{Name: m.Source + ":" + m.Code, URL: m.URL})
	}
	anchor := cfg.Aggregator.Anchor
	if anchor == "" {
		anchor = "BTC"
	}
	ba, err := bitcoinaverage.NewClient(bitcoinaverage.WithBaseURL(cfg.Aggregator.BaseURL))
	if err != nil {
		log.Printf("skipping aggregator: %v", err)
		return out
	}
	return append(out, source{Name: cfg.Aggregator.Source, URL: ba.TickerURL(anchor)})
}
