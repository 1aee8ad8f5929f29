package scraper

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/artvee/go-artvee-scraper/models"
	"github.com/artvee/go-artvee-scraper/writer"
)

// ErrNilListener is returned when a nil listener is registered.
var ErrNilListener = errors.New("scraper: listener cannot be nil")

// Listener receives the outcome of one worker task: the artwork (complete,
// or partial when err is non-nil) and the fetch error, if any. The artwork
// is handed over read-only.
type Listener interface {
	OnArtwork(artwork *models.Artwork, err error)
}

// listenerRegistry holds the registered listeners. Mutation happens under a
// lock and replaces the slice with a fresh copy, so the notify path iterates
// a stable point-in-time snapshot without holding the lock across callbacks.
//
// Listeners are deduplicated by interface identity; implementations are
// expected to be pointer types.
type listenerRegistry struct {
	mu        sync.Mutex
	listeners []Listener
}

// register adds a listener, replacing its slot if the same identity is
// already present so no event is ever delivered twice to one listener.
func (r *listenerRegistry) register(l Listener) error {
	if l == nil {
		return ErrNilListener
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]Listener, 0, len(r.listeners)+1)
	replaced := false
	for _, cur := range r.listeners {
		if cur == l {
			next = append(next, l)
			replaced = true
			continue
		}
		next = append(next, cur)
	}
	if !replaced {
		next = append(next, l)
	}
	r.listeners = next
	return nil
}

// deregister removes a listener; a no-op if it is not registered.
func (r *listenerRegistry) deregister(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]Listener, 0, len(r.listeners))
	for _, cur := range r.listeners {
		if cur != l {
			next = append(next, cur)
		}
	}
	r.listeners = next
}

// notifyAll delivers one event to every listener registered at the time of
// the call. A panicking listener is contained; it never aborts the worker.
func (r *listenerRegistry) notifyAll(artwork *models.Artwork, err error) {
	r.mu.Lock()
	snapshot := r.listeners
	r.mu.Unlock()

	for _, l := range snapshot {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("listener panicked",
						slog.String("resource", artwork.Resource),
						slog.Any("panic", rec),
					)
				}
			}()
			l.OnArtwork(artwork, err)
		}()
	}
}

// WriterListener adapts a delivery sink into a Listener. Complete items are
// always delivered; partial items only when DeliverPartial is set.
type WriterListener struct {
	writer         writer.Writer
	DeliverPartial bool
}

// NewWriterListener wraps a sink for registration with the scraper.
func NewWriterListener(w writer.Writer) *WriterListener {
	return &WriterListener{writer: w}
}

// OnArtwork delivers the artwork to the sink.
func (l *WriterListener) OnArtwork(artwork *models.Artwork, err error) {
	if err != nil && !l.DeliverPartial {
		return
	}
	if !l.writer.Write(artwork) {
		slog.Warn("writer rejected artwork", slog.String("resource", artwork.Resource))
	}
}
