package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/quadrant"
	"github.com/okian/scout/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run probes every configured pair and returns ErrViolations when any view
// breaks an invariant. Failed requests are counted, not fatal.
func Run(ctx context.Context, cfg *Config) ([]Result, *Stats, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("probe")
	stats := &Stats{StartTime: time.Now()}
	client := newHTTPClient(cfg.Timeout)
	base := strings.TrimRight(cfg.BaseURL, "/")

	log.Info(ctx, "starting scout probe",
		logger.String("baseURL", base),
		logger.Strings("pairs", cfg.Pairs),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	if _, err := client.getJSON(ctx, base+"/healthz", nil); err != nil {
		return nil, stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	pairs := cfg.Pairs
	if len(pairs) == 0 {
		var listed struct {
			Pairs []quadrant.Pair `json:"pairs"`
		}
		if _, err := client.getJSON(ctx, base+"/v1/pairs", &listed); err != nil {
			return nil, stats, fmt.Errorf("failed to list pairs: %w", err)
		}
		for _, p := range listed.Pairs {
			pairs = append(pairs, p.ID)
		}
	}
	if len(pairs) == 0 {
		return nil, stats, ErrNoPairs
	}

	var (
		mu      sync.Mutex
		results = make([]Result, len(pairs))
		views   = make(map[string]*service.View, len(pairs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, id := range pairs {
		g.Go(func() error {
			var v service.View
			status, err := client.getJSON(gctx, viewURL(base, id, cfg), &v)
			r := Result{PairID: id, Status: status}

			mu.Lock()
			defer mu.Unlock()
			stats.ViewsRequested++
			if err != nil {
				stats.ViewsFailed++
				r.Error = err.Error()
				log.Warn(gctx, "view request failed", logger.String("pair", id), logger.Error(err))
				results[i] = r
				return nil
			}
			stats.ViewsOK++
			stats.Points += v.Total
			r.Total = v.Total
			r.Violations = Verify(&v, cfg.Highlight)
			stats.Violations += len(r.Violations)
			if cfg.Verbose {
				for _, msg := range r.Violations {
					log.Warn(gctx, "violation", logger.String("pair", id), logger.String("detail", msg))
				}
			}
			views[id] = &v
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	if cfg.OutputFile != "" {
		if err := saveViews(cfg.OutputFile, views); err != nil {
			log.Warn(ctx, "failed to save views", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if stats.Violations > 0 {
		return results, stats, fmt.Errorf("%w: %d", ErrViolations, stats.Violations)
	}
	return results, stats, nil
}

func viewURL(base, pairID string, cfg *Config) string {
	q := url.Values{}
	q.Set("minSure", strconv.FormatFloat(cfg.MinMinutes, 'f', -1, 64))
	if cfg.Highlight != "" {
		q.Set("highlight", cfg.Highlight)
	}
	return base + "/v1/views/" + url.PathEscape(pairID) + "?" + q.Encode()
}

// saveViews writes the fetched views keyed by pair id.
func saveViews(filename string, views map[string]*service.View) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	b, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal views: %w", err)
	}
	if err := os.WriteFile(filename, b, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.Int("viewsRequested", stats.ViewsRequested),
		logger.Int("viewsOK", stats.ViewsOK),
		logger.Int("viewsFailed", stats.ViewsFailed),
		logger.Int("points", stats.Points),
		logger.Int("violations", stats.Violations),
		logger.Duration("duration", stats.Duration),
	)
}
