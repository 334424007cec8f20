package samplematch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with a per-request timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with the given timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request bound to ctx.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body bound to ctx.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitEvents tags the generated match through the API concurrently.
func submitEvents(ctx context.Context, config *Config, events []SampleEvent, stats *Stats) error {
	log.Printf("Submitting %d events with %d workers...", len(events), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/v1/events"

	var (
		successful int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	eventChan := make(chan SampleEvent, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for ev := range eventChan {
				select {
				case <-ctx.Done():
					return
				default:
					ok := submitSingleEvent(ctx, client, url, ev)

					atomic.AddInt64(&submitted, 1)
					if ok {
						atomic.AddInt64(&successful, 1)
					} else {
						atomic.AddInt64(&failed, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("Progress: %d/%d submitted (success: %d, failed: %d)",
								total, len(events), succ, fail)
						} else {
							fmt.Printf("\rSubmitted: %d/%d (success: %d, failed: %d)",
								total, len(events), succ, fail)
						}
					}
				}
			}
		}()
	}

	// Send events to workers
	go func() {
		defer close(eventChan)
		for _, ev := range events {
			select {
			case <-ctx.Done():
				return
			case eventChan <- ev:
			}
		}
	}()

	wg.Wait()

	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	stats.EventsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.EventsSuccessful = int(atomic.LoadInt64(&successful))
	stats.EventsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("Event submission completed: %d successful, %d failed",
		stats.EventsSuccessful, stats.EventsFailed)

	if stats.EventsFailed > 0 {
		return fmt.Errorf("%d of %d events failed to submit", stats.EventsFailed, stats.EventsSubmitted)
	}
	return nil
}

// submitSingleEvent replays one event as the tagging request a client
// would have sent. Drill events go out in their drill-local form so the
// server performs the canonical remap.
func submitSingleEvent(ctx context.Context, client *HTTPClient, url string, ev SampleEvent) bool {
	e := ev.Event
	req := tagRequest{
		VideoSeconds: e.VideoSeconds,
		PlayerID:     e.PlayerID,
		PlayerName:   e.PlayerName,
		Team:         e.Team.String(),
		Type:         e.Type,
		Start:        e.Start,
		End:          e.End,
		DrillType:    e.DrillType,
		PairID:       e.PairID,
	}
	if ev.DrillArea != nil && e.DrillStart != nil {
		req.Start = *e.DrillStart
		req.End = ev.LocalEnd
		req.DrillArea = ev.DrillArea
	}

	resp, err := client.Post(ctx, url, req)
	if err != nil {
		return false
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return false
	}

	if resp.StatusCode != StatusCreated {
		log.Printf("unexpected status %d: %s", resp.StatusCode, string(body))
		return false
	}
	return true
}
