// Package scraper implements the harvest orchestrator: a boss loop that
// enumerates categories and pages, fans entries out to a bounded worker
// pool, and broadcasts per-item outcomes to registered listeners.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/artvee/go-artvee-scraper/config"
	"github.com/artvee/go-artvee-scraper/models"
)

// Client is the remote-source contract the orchestrator depends on. The
// concrete implementation lives in the client package.
type Client interface {
	PageCount(ctx context.Context, category models.Category) (int, error)
	PageMetadata(ctx context.Context, category models.Category, page int) ([]models.PageEntry, error)
	FetchImage(ctx context.Context, img *models.ImageMetadata) ([]byte, error)
}

// State is the lifecycle of one scraper instance.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Stats is a snapshot of run progress counters.
type Stats struct {
	Pages             int64
	ItemsComplete     int64
	ItemsPartial      int64
	SkippedCategories int64
	SkippedPages      int64
	Duplicates        int64
}

// Scraper coordinates one harvest run over a fixed, ordered category set.
type Scraper struct {
	client     Client
	workers    int
	categories []models.Category
	Metrics    *Metrics

	listeners listenerRegistry
	seen      *lru.Cache[string, struct{}]

	state atomic.Int32
	stop  atomic.Bool // observed at category and page boundaries
	drop  atomic.Bool // queued-but-unstarted tasks exit immediately
	done  chan struct{}

	pages             atomic.Int64
	itemsComplete     atomic.Int64
	itemsPartial      atomic.Int64
	skippedCategories atomic.Int64
	skippedPages      atomic.Int64
	duplicates        atomic.Int64
}

// New builds a scraper. The worker count must be in [1,10]; an empty
// category selection defaults to every known category. A nil metrics
// argument gets a dedicated registry.
func New(c Client, cfg *config.Config, metrics *Metrics) (*Scraper, error) {
	if c == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.WorkerThreads < 1 || cfg.WorkerThreads > 10 {
		return nil, fmt.Errorf("worker threads must be in range [1-10]")
	}

	categories := models.AllCategories()
	if len(cfg.Categories) > 0 {
		parsed, err := models.ParseCategories(cfg.Categories)
		if err != nil {
			return nil, err
		}
		categories = parsed
	}

	seen, err := lru.New[string, struct{}](cfg.DedupeMaxSize)
	if err != nil {
		return nil, fmt.Errorf("configure dedupe cache: %w", err)
	}

	if metrics == nil {
		metrics = NewMetrics()
	}

	return &Scraper{
		client:     c,
		workers:    cfg.WorkerThreads,
		categories: categories,
		Metrics:    metrics,
		seen:       seen,
		done:       make(chan struct{}),
	}, nil
}

// Register adds a listener for per-item outcomes. Registering the same
// listener twice keeps a single slot.
func (s *Scraper) Register(l Listener) error {
	return s.listeners.register(l)
}

// Deregister removes a listener; a no-op if it is not registered.
func (s *Scraper) Deregister(l Listener) {
	s.listeners.deregister(l)
}

// State returns the current lifecycle state.
func (s *Scraper) State() State {
	return State(s.state.Load())
}

// Stats returns a snapshot of the run counters.
func (s *Scraper) Stats() Stats {
	return Stats{
		Pages:             s.pages.Load(),
		ItemsComplete:     s.itemsComplete.Load(),
		ItemsPartial:      s.itemsPartial.Load(),
		SkippedCategories: s.skippedCategories.Load(),
		SkippedPages:      s.skippedPages.Load(),
		Duplicates:        s.duplicates.Load(),
	}
}

// Start launches the boss loop on its own goroutine. Starting twice is an
// error.
func (s *Scraper) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return fmt.Errorf("scraper already started (state %s)", s.State())
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.run(ctx)
	return nil
}

// Join blocks until the boss loop has finished and all pool tasks have
// drained.
func (s *Scraper) Join() {
	if s.State() == StateIdle {
		return
	}
	<-s.done
}

// Shutdown requests a cooperative stop: the boss loop terminates at the next
// category or page boundary, queued-but-unstarted tasks are dropped, and
// tasks already running finish normally. Shutdown blocks until the run has
// wound down.
func (s *Scraper) Shutdown() {
	s.stop.Store(true)
	s.drop.Store(true)
	if s.State() == StateIdle {
		s.state.Store(int32(StateStopped))
		return
	}
	<-s.done
}

func (s *Scraper) run(ctx context.Context) {
	defer close(s.done)
	defer func() {
		if s.stop.Load() {
			s.state.Store(int32(StateStopped))
			slog.Info("scraper stopped")
		} else {
			s.state.Store(int32(StateCompleted))
			slog.Info("scraper completed")
		}
	}()

	slog.Info("starting scraper", slog.Any("categories", s.categories))

	for _, category := range s.categories {
		if s.stop.Load() {
			return
		}

		pageCount, err := s.client.PageCount(ctx, category)
		if err != nil {
			// A single category's enumeration failure is non-fatal to the run.
			slog.Error("skipping category",
				slog.String("category", category.String()),
				slog.Any("error", err),
			)
			s.skippedCategories.Add(1)
			s.Metrics.IncSkipped(SkipCategory)
			continue
		}

		slog.Info("processing category",
			slog.String("category", category.String()),
			slog.Int("pages", pageCount),
		)

		for page := 1; page <= pageCount; page++ {
			if s.stop.Load() {
				return
			}
			s.harvestPage(ctx, category, page, pageCount)
		}
	}
}

// harvestPage fetches one page's metadata and fans each entry out to the
// worker pool, blocking until every task for this page has completed. The
// page-level join bounds in-flight work to one page's worth.
func (s *Scraper) harvestPage(ctx context.Context, category models.Category, page, pageCount int) {
	slog.Debug("processing page",
		slog.String("category", category.String()),
		slog.Int("page", page),
		slog.Int("pages", pageCount),
	)

	entries, err := s.client.PageMetadata(ctx, category, page)
	if err != nil {
		slog.Error("skipping page",
			slog.String("category", category.String()),
			slog.Int("page", page),
			slog.Any("error", err),
		)
		s.skippedPages.Add(1)
		s.Metrics.IncSkipped(SkipPage)
		return
	}

	s.pages.Add(1)
	s.Metrics.IncPage()

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for _, entry := range entries {
		entry := entry
		g.Go(func() error {
			s.process(ctx, entry)
			return nil
		})
	}
	g.Wait()
}

// process is one worker task: assemble the artwork, fetch its image, and
// notify listeners with the outcome. Fetch failures become partial-item
// notifications; they are never swallowed.
func (s *Scraper) process(ctx context.Context, entry models.PageEntry) {
	if s.drop.Load() {
		return
	}

	if existed, _ := s.seen.ContainsOrAdd(entry.Artwork.Resource, struct{}{}); existed {
		slog.Debug("suppressing duplicate resource", slog.String("resource", entry.Artwork.Resource))
		s.duplicates.Add(1)
		s.Metrics.IncDuplicate()
		return
	}

	artwork := &models.Artwork{
		ArtworkMetadata: entry.Artwork,
		Image: &models.Image{
			ImageMetadata: entry.Image,
			Format:        models.DefaultImageFormat,
		},
	}

	raw, err := s.client.FetchImage(ctx, &entry.Image)
	if err != nil {
		slog.Error("image fetch failed",
			slog.String("resource", entry.Artwork.Resource),
			slog.Any("error", err),
		)
		s.itemsPartial.Add(1)
		s.Metrics.IncItem(ItemPartial)
		s.listeners.notifyAll(artwork, err)
		return
	}

	artwork.Image.Raw = raw
	s.itemsComplete.Add(1)
	s.Metrics.IncItem(ItemComplete)
	s.listeners.notifyAll(artwork, nil)
}
