// Package service wires the scouting engine together: it merges fetched
// category records, normalizes them onto chart axes, classifies quadrants
// and assembles series for the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/scout/internal/adapters/assets"
	"github.com/okian/scout/internal/adapters/fetch"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/quadrant"
	"github.com/okian/scout/internal/domain/types"
	"github.com/okian/scout/pkg/logger"
)

// Default record field names of the upstream feeds.
const (
	DefaultIDField    = "id"
	DefaultLabelField = "oyuncu"
	DefaultMatchField = "id"
)

// Fetcher loads category envelopes from upstream.
type Fetcher interface {
	FetchAll(ctx context.Context, categories []string, p fetch.Params) fetch.Result
}

// Service implements the API dependencies for the scouting views.
type Service struct {
	mu sync.RWMutex

	catalog *catalog.Catalog
	pairs   *quadrant.Table
	fetcher Fetcher
	assets  assets.Lookup

	categories        map[types.SourceType][]string
	idField           string
	labelField        string
	matchField        string
	defaultMinMinutes float64

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog replaces the built-in metric catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithPairs replaces the built-in quadrant pair table.
func WithPairs(t *quadrant.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.pairs = t
		}
	}
}

// WithFetcher sets the upstream fetcher used by BuildView and FetchProfile.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithAssets sets the image lookup for points.
func WithAssets(a assets.Lookup) Option {
	return func(s *Service) {
		if a != nil {
			s.assets = a
		}
	}
}

// WithCategories sets the upstream categories of a source type. The first
// category is the primary record set.
func WithCategories(source types.SourceType, categories ...string) Option {
	return func(s *Service) {
		if len(categories) > 0 {
			s.categories[source] = append([]string(nil), categories...)
		}
	}
}

// WithFields overrides the id, label and default match field names.
func WithFields(id, label, match string) Option {
	return func(s *Service) {
		if id != "" {
			s.idField = id
		}
		if label != "" {
			s.labelField = label
		}
		if match != "" {
			s.matchField = match
		}
	}
}

// WithDefaultMinMinutes sets the minutes floor used when a request has none.
func WithDefaultMinMinutes(m float64) Option {
	return func(s *Service) {
		if m >= 0 {
			s.defaultMinMinutes = m
		}
	}
}

// New constructs a Service with the built-in tables.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:    catalog.Default(),
		pairs:      quadrant.Default(),
		assets:     assets.None{},
		categories: defaultCategories(),
		idField:    DefaultIDField,
		labelField: DefaultLabelField,
		matchField: DefaultMatchField,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// defaultCategories is the upstream endpoint layout per population.
func defaultCategories() map[types.SourceType][]string {
	return map[types.SourceType][]string{
		types.Goalkeeper: {"goalkeeper/summary", "goalkeeper/saves", "goalkeeper/distribution"},
		types.Defender:   {"defender/summary", "defender/duels", "defender/discipline"},
		types.Midfielder: {"midfielder/summary", "midfielder/passing", "midfielder/creation"},
		types.Forward:    {"forward/summary", "forward/shooting"},
		types.Team:       {"team/summary", "team/style"},
	}
}

// Start checks that every pair references known metrics. It is safe to call
// more than once.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	for _, p := range s.pairs.All() {
		for _, key := range []string{p.XMetric, p.YMetric} {
			if _, err := s.catalog.ResolveLookup(key); err != nil {
				s.logger.Error(ctx, "pair references unknown metric",
					logger.String("pair", p.ID),
					logger.String("metric", key),
				)
				return fmt.Errorf("pair %s: %w", p.ID, err)
			}
		}
	}

	s.started = true
	s.logger.Info(ctx, "scout service started",
		logger.Int("metrics", s.catalog.Len()),
		logger.Int("pairs", len(s.pairs.All())),
		logger.Bool("upstream", s.fetcher != nil),
	)
	return nil
}

// Catalog returns the metric catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Pairs returns the quadrant pair table.
func (s *Service) Pairs() *quadrant.Table { return s.pairs }

// Categories returns the upstream categories of source.
func (s *Service) Categories(source types.SourceType) []string {
	return append([]string(nil), s.categories[source]...)
}
