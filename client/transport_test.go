package client

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/artvee/go-artvee-scraper/config"
	"github.com/artvee/go-artvee-scraper/models"
)

type countingRecorder struct {
	mu       sync.Mutex
	requests int
	retries  int
}

func (r *countingRecorder) ObserveRequest(time.Duration) {
	r.mu.Lock()
	r.requests++
	r.mu.Unlock()
}

func (r *countingRecorder) IncRetry() {
	r.mu.Lock()
	r.retries++
	r.mu.Unlock()
}

func TestRetryExhaustsAttemptBudget(t *testing.T) {
	for _, maxAttempts := range []int{1, 3, 10} {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder(http.MethodGet,
			"https://mdl.artvee.com/sdl/abcsdl.jpg",
			httpmock.NewStringResponder(503, "unavailable"),
		)

		recorder := &countingRecorder{}
		cfg := config.DefaultConfig()
		cfg.MaxAttempts = maxAttempts
		cfg.RetryBackoff = time.Millisecond
		cfg.RetryBackoffMax = 2 * time.Millisecond
		c, err := New(cfg, WithBaseTransport(transport), WithRecorder(recorder))
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}

		_, err = c.FetchImage(context.Background(), &models.ImageMetadata{
			SourceURL: "https://mdl.artvee.com/sdl/abcsdl.jpg",
		})
		if err == nil {
			t.Fatalf("maxAttempts=%d: expected error after exhausting retries", maxAttempts)
		}

		if got := transport.GetTotalCallCount(); got != maxAttempts {
			t.Errorf("maxAttempts=%d: %d attempts issued, want %d", maxAttempts, got, maxAttempts)
		}
		if recorder.requests != maxAttempts {
			t.Errorf("maxAttempts=%d: recorder saw %d requests, want %d", maxAttempts, recorder.requests, maxAttempts)
		}
		if recorder.retries != maxAttempts-1 {
			t.Errorf("maxAttempts=%d: recorder saw %d retries, want %d", maxAttempts, recorder.retries, maxAttempts-1)
		}
	}
}

func TestNoRetryOnNonTransientStatus(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder(http.MethodGet,
		"https://mdl.artvee.com/sdl/abcsdl.jpg",
		httpmock.NewStringResponder(404, "not found"),
	)

	c := newTestClient(t, transport, func(cfg *config.Config) {
		cfg.MaxAttempts = 5
	})
	_, err := c.FetchImage(context.Background(), &models.ImageMetadata{
		SourceURL: "https://mdl.artvee.com/sdl/abcsdl.jpg",
	})
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if got := transport.GetTotalCallCount(); got != 1 {
		t.Fatalf("%d attempts issued, want exactly 1", got)
	}
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	transport := httpmock.NewMockTransport()
	calls := 0
	transport.RegisterResponder(http.MethodGet,
		"https://mdl.artvee.com/sdl/abcsdl.jpg",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(502, "bad gateway"), nil
			}
			return httpmock.NewStringResponse(200, "imagebytes"), nil
		},
	)

	c := newTestClient(t, transport, func(cfg *config.Config) {
		cfg.MaxAttempts = 3
	})
	raw, err := c.FetchImage(context.Background(), &models.ImageMetadata{
		SourceURL: "https://mdl.artvee.com/sdl/abcsdl.jpg",
	})
	if err != nil {
		t.Fatalf("FetchImage() error: %v", err)
	}
	if string(raw) != "imagebytes" {
		t.Fatalf("FetchImage() = %q, want imagebytes", raw)
	}
	if calls != 3 {
		t.Fatalf("%d attempts issued, want 3", calls)
	}
}

func TestRetryableStatuses(t *testing.T) {
	for status, want := range map[int]bool{
		http.StatusBadGateway:          true,
		http.StatusServiceUnavailable:  true,
		http.StatusGatewayTimeout:      true,
		http.StatusOK:                  false,
		http.StatusNotFound:            false,
		http.StatusInternalServerError: false,
		http.StatusTooManyRequests:     false,
	} {
		if got := retryable(status); got != want {
			t.Errorf("retryable(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestDelayGrowsAndCaps(t *testing.T) {
	rt := &retryTransport{
		backoff:    100 * time.Millisecond,
		backoffMax: 400 * time.Millisecond,
	}

	// Jitter adds at most one base interval on top of the capped delay.
	for attempt, wantMin := range map[int]time.Duration{
		1: 100 * time.Millisecond,
		2: 200 * time.Millisecond,
		3: 400 * time.Millisecond,
		4: 400 * time.Millisecond,
		5: 400 * time.Millisecond,
	} {
		got := rt.delay(attempt)
		if got < wantMin || got >= wantMin+rt.backoff {
			t.Errorf("delay(%d) = %v, want in [%v, %v)", attempt, got, wantMin, wantMin+rt.backoff)
		}
	}
}
