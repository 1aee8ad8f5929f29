package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/artvee/go-artvee-scraper/client"
	"github.com/artvee/go-artvee-scraper/config"
	"github.com/artvee/go-artvee-scraper/scraper"
	"github.com/artvee/go-artvee-scraper/writer"
)

func main() {
	defaultCfg := config.DefaultConfig()

	workersDefault := defaultCfg.WorkerThreads
	if value, ok, err := config.EnvInt("SCRAPER_WORKERS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_WORKERS: %v\n", err)
		os.Exit(1)
	} else if ok {
		workersDefault = value
	}
	writerDefault := defaultCfg.Writer
	if value, ok := config.EnvString("SCRAPER_WRITER"); ok {
		writerDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Catalog base URL")
	categories := flag.String("categories", "", "Comma-separated categories (default: all)")
	workers := flag.Int("workers", workersDefault, "Worker threads (1-10)")
	connTimeoutMs := flag.Int("conn-timeout", int(defaultCfg.ConnTimeout/time.Millisecond), "Connect timeout (milliseconds)")
	readTimeoutMs := flag.Int("read-timeout", int(defaultCfg.ReadTimeout/time.Millisecond), "Read timeout (milliseconds)")
	maxAttempts := flag.Int("max-attempts", defaultCfg.MaxAttempts, "Total HTTP attempts per request (1-10)")
	retryBackoffMs := flag.Int("retry-backoff", int(defaultCfg.RetryBackoff/time.Millisecond), "Initial retry backoff (milliseconds)")
	retryBackoffMaxMs := flag.Int("retry-backoff-max", int(defaultCfg.RetryBackoffMax/time.Millisecond), "Maximum retry backoff (milliseconds)")
	imageSize := flag.String("image-size", defaultCfg.ImageSize, "Image variant: standard or max")
	writerKind := flag.String("writer", writerDefault, "Writer: log-json, console-json, file-json, or file-multi")
	dirPath := flag.String("dir", "", "Output directory (file-json)")
	metadataDir := flag.String("metadata-dir", "", "Metadata output directory (file-multi)")
	imageDir := flag.String("image-dir", "", "Image output directory (file-multi)")
	spaceLevel := flag.Int("space-level", 0, "Pretty-print indentation (>1 enables)")
	sortKeys := flag.Bool("sort-keys", false, "Sort JSON keys alphabetically")
	includeImage := flag.Bool("include-image", false, "Include the base64 image in log/console output")
	overwrite := flag.Bool("overwrite", false, "Overwrite existing output files")
	deliverPartial := flag.Bool("deliver-partial", false, "Deliver partial items (no image) to the writer")
	dedupeSize := flag.Int("dedupe-size", defaultCfg.DedupeMaxSize, "Maximum resources tracked for duplicate suppression")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, _ := newLogger(*verbose)
	slog.SetDefault(logger)

	cfg := defaultCfg
	cfg.BaseURL = *baseURL
	if *categories != "" {
		cfg.Categories = strings.Split(*categories, ",")
	}
	cfg.WorkerThreads = *workers
	cfg.ConnTimeout = time.Duration(*connTimeoutMs) * time.Millisecond
	cfg.ReadTimeout = time.Duration(*readTimeoutMs) * time.Millisecond
	cfg.MaxAttempts = *maxAttempts
	cfg.RetryBackoff = time.Duration(*retryBackoffMs) * time.Millisecond
	cfg.RetryBackoffMax = time.Duration(*retryBackoffMaxMs) * time.Millisecond
	cfg.ImageSize = strings.ToLower(*imageSize)
	cfg.Writer = strings.ToLower(*writerKind)
	cfg.DirPath = *dirPath
	cfg.MetadataDir = *metadataDir
	cfg.ImageDir = *imageDir
	cfg.SpaceLevel = *spaceLevel
	cfg.SortKeys = *sortKeys
	cfg.IncludeImage = *includeImage
	cfg.OverwriteExisting = *overwrite
	cfg.DedupeMaxSize = *dedupeSize
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if err := ensureOutputDirs(cfg); err != nil {
		slog.Error("preparing output directories", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := scraper.NewMetrics()

	c, err := client.New(cfg, client.WithRecorder(metrics))
	if err != nil {
		slog.Error("initialising client", slog.Any("error", err))
		os.Exit(1)
	}

	sink, err := writer.New(cfg)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}

	s, err := scraper.New(c, cfg, metrics)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}

	bridge := scraper.NewWriterListener(sink)
	bridge.DeliverPartial = *deliverPartial
	if err := s.Register(bridge); err != nil {
		slog.Error("registering writer listener", slog.Any("error", err))
		os.Exit(1)
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	startTime := time.Now()
	if err := s.Start(context.Background()); err != nil {
		slog.Error("starting scraper", slog.Any("error", err))
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutdown signal received, waiting for in-flight work to finish")
		s.Shutdown()
	}()

	s.Join()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(s.Stats(), s.State(), time.Since(startTime))
}

func ensureOutputDirs(cfg *config.Config) error {
	for _, dir := range []string{cfg.DirPath, cfg.MetadataDir, cfg.ImageDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func printSummary(stats scraper.Stats, state scraper.State, duration time.Duration) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Printf("Harvest %s\n", state)

	total := stats.ItemsComplete + stats.ItemsPartial
	itemsPerSec := 0.0
	if duration.Seconds() > 0 {
		itemsPerSec = float64(total) / duration.Seconds()
	}

	fmt.Printf("  Pages:              %d\n", stats.Pages)
	fmt.Printf("  Items complete:     %d\n", stats.ItemsComplete)
	fmt.Printf("  Items partial:      %d\n", stats.ItemsPartial)
	fmt.Printf("  Duplicates:         %d\n", stats.Duplicates)
	fmt.Printf("  Skipped categories: %d\n", stats.SkippedCategories)
	fmt.Printf("  Skipped pages:      %d\n", stats.SkippedPages)
	fmt.Printf("  Duration:           %v\n", duration)
	fmt.Printf("  Items/sec:          %.2f\n", itemsPerSec)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
