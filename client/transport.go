package client

import (
	"io"
	"math/rand"
	"net/http"
	"time"
)

// Recorder receives transport-level observations. Implemented by
// scraper.Metrics; a nil Recorder disables instrumentation.
type Recorder interface {
	ObserveRequest(d time.Duration)
	IncRetry()
}

// retryable reports whether a status code is a transient failure worth
// retrying. Every other non-2xx status fails immediately.
func retryable(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryTransport retries a request up to maxAttempts total attempts with
// exponential backoff plus jitter, but only for transient status codes.
// Retries are invisible to callers except as added latency.
type retryTransport struct {
	next        http.RoundTripper
	maxAttempts int
	backoff     time.Duration
	backoffMax  time.Duration
	recorder    Recorder
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for attempt := 1; ; attempt++ {
		start := time.Now()
		resp, err := t.next.RoundTrip(req)
		if t.recorder != nil {
			t.recorder.ObserveRequest(time.Since(start))
		}
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= t.maxAttempts {
			return resp, nil
		}

		// Drain so the connection can be reused for the retry.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if t.recorder != nil {
			t.recorder.IncRetry()
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(t.delay(attempt)):
		}
	}
}

// delay computes the pause before the next attempt: base * 2^(attempt-1),
// capped, plus jitter in [0, base).
func (t *retryTransport) delay(attempt int) time.Duration {
	base := t.backoff
	if base <= 0 {
		base = time.Second
	}

	delay := base * time.Duration(1<<(attempt-1))
	if t.backoffMax > 0 && delay > t.backoffMax {
		delay = t.backoffMax
	}
	return delay + time.Duration(rand.Int63n(int64(base)))
}
