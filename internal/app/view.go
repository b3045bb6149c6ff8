package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/scout/internal/adapters/fetch"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/merge"
	"github.com/okian/scout/internal/domain/normalize"
	"github.com/okian/scout/internal/domain/quadrant"
	"github.com/okian/scout/internal/domain/record"
	"github.com/okian/scout/internal/domain/series"
	"github.com/okian/scout/internal/domain/types"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// ViewRequest asks for one quadrant chart.
type ViewRequest struct {
	PairID string `json:"pair"`
	// Source defaults to the pair's population.
	Source types.SourceType `json:"source,omitempty"`
	// SortBy is a metric key or alias.
	SortBy    string          `json:"sort_by,omitempty"`
	SortOrder types.SortOrder `json:"sort_order,omitempty"`
	// MinMinutes defaults to the service's configured floor.
	MinMinutes        *float64 `json:"min_minutes,omitempty"`
	HighlightEntityID string   `json:"highlight,omitempty"`
	GroupBy           string   `json:"group_by,omitempty"`
	Match             Match    `json:"match,omitempty"`
}

// AxisView describes one chart axis.
type AxisView struct {
	Metric        string  `json:"metric"`
	Label         string  `json:"label"`
	Threshold     float64 `json:"threshold"`
	Raw           bool    `json:"raw"`
	LowerIsBetter bool    `json:"lower_is_better,omitempty"`
}

// PairView describes the chart.
type PairView struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	X     AxisView `json:"x"`
	Y     AxisView `json:"y"`
}

// PointView is a plotted entity.
type PointView struct {
	normalize.Point
	Quadrant quadrant.Quadrant `json:"quadrant"`
	Label    string            `json:"label"`
	ImageURL string            `json:"image_url,omitempty"`
	Missing  []string          `json:"missing,omitempty"`
}

// SeriesView is a group of points styled together.
type SeriesView struct {
	Key       string      `json:"key"`
	Highlight bool        `json:"highlight,omitempty"`
	Points    []PointView `json:"points"`
}

// View is a complete quadrant chart.
type View struct {
	Pair          PairView          `json:"pair"`
	Source        types.SourceType  `json:"source"`
	Captions      quadrant.Captions `json:"captions"`
	Series        []SeriesView      `json:"series"`
	Total         int               `json:"total"`
	Unavailable   []string          `json:"unavailable"`
	Merge         merge.Stats       `json:"merge"`
	Normalization normalize.Report  `json:"normalization"`
}

// viewPlan is a validated ViewRequest.
type viewPlan struct {
	req     ViewRequest
	pair    quadrant.Pair
	source  types.SourceType
	x, y    catalog.Definition
	sort    *catalog.Definition
	minutes float64
	matcher merge.Matcher
}

// Compose builds a view from records that were already fetched.
func (s *Service) Compose(ctx context.Context, req ViewRequest, src Sources) (*View, error) {
	start := time.Now()
	p, err := s.plan(ctx, req)
	if err != nil {
		s.recordViewError(req.PairID, err, start)
		return nil, err
	}
	v := s.compose(ctx, p, src)
	metrics.RecordView(p.pair.ID, "ok", float64(time.Since(start).Milliseconds()))
	return v, nil
}

// BuildView fetches the categories of the requested population and composes
// the view. Categories that fail to load are listed in View.Unavailable.
func (s *Service) BuildView(ctx context.Context, req ViewRequest) (*View, error) {
	start := time.Now()
	if s.fetcher == nil {
		return nil, ErrNoFetcher
	}
	p, err := s.plan(ctx, req)
	if err != nil {
		s.recordViewError(req.PairID, err, start)
		return nil, err
	}
	cats := s.categories[p.source]
	if len(cats) == 0 {
		err := fmt.Errorf("%w: no categories for %s", ErrInvalidRequest, p.source)
		s.recordViewError(req.PairID, err, start)
		return nil, err
	}

	params := fetch.Params{MinMinutes: p.minutes}
	if p.sort != nil {
		params.SortBy = p.sort.Key
	}
	res := s.fetcher.FetchAll(ctx, cats, params)

	v := s.compose(ctx, p, sourcesFromResult(cats, res))
	metrics.RecordView(p.pair.ID, "ok", float64(time.Since(start).Milliseconds()))
	return v, nil
}

func (s *Service) plan(ctx context.Context, req ViewRequest) (viewPlan, error) {
	p := viewPlan{req: req}
	if req.PairID == "" {
		return p, fmt.Errorf("%w: pair is required", ErrInvalidRequest)
	}
	pair, err := s.pairs.Pair(req.PairID)
	if err != nil {
		return p, err
	}
	p.pair = pair

	source := req.Source
	if source == "" {
		source = pair.Source
	}
	st, ok := types.ParseSourceType(string(source))
	if !ok {
		return p, fmt.Errorf("%w: unknown source %q", ErrInvalidRequest, source)
	}
	p.source = st

	if p.x, err = s.resolveMetric(ctx, pair.ID, pair.XMetric); err != nil {
		return p, err
	}
	if p.y, err = s.resolveMetric(ctx, pair.ID, pair.YMetric); err != nil {
		return p, err
	}
	if req.SortBy != "" {
		d, err := s.resolveMetric(ctx, pair.ID, req.SortBy)
		if err != nil {
			return p, err
		}
		p.sort = &d
	}

	p.minutes = s.defaultMinMinutes
	if req.MinMinutes != nil {
		p.minutes = *req.MinMinutes
	}
	if p.minutes < 0 {
		return p, fmt.Errorf("%w: min_minutes must not be negative", ErrInvalidRequest)
	}

	if p.matcher, err = s.matcher(req.Match); err != nil {
		return p, err
	}
	return p, nil
}

// resolveMetric looks key up and reports unknown metrics loudly: they are
// configuration bugs, not data conditions.
func (s *Service) resolveMetric(ctx context.Context, view, key string) (catalog.Definition, error) {
	d, err := s.catalog.ResolveLookup(key)
	if err != nil {
		metrics.RecordUnknownMetric(view)
		s.logger.Error(ctx, "unknown metric",
			logger.String("view", view),
			logger.String("metric", key),
		)
		return catalog.Definition{}, err
	}
	return d, nil
}

func (s *Service) compose(ctx context.Context, p viewPlan, src Sources) *View {
	merged, stats := merge.MergeAll(src.Primary, p.matcher, src.Secondaries...)
	for _, sec := range src.Secondaries {
		metrics.RecordMerge(sec.Name, stats.Matched[sec.Name], stats.Unmatched[sec.Name], stats.DuplicateKeys[sec.Name])
	}

	minutesDef, minutesErr := s.catalog.Lookup(catalog.KeyMinutes)
	canon := []catalog.Definition{}
	if minutesErr == nil {
		canon = append(canon, minutesDef)
	}
	opts := series.Options{
		HighlightEntityID: p.req.HighlightEntityID,
		IDField:           s.idField,
		GroupBy:           p.req.GroupBy,
		SortOrder:         p.req.SortOrder,
	}
	// team feeds carry no minutes played
	if p.source != types.Team {
		opts.MinFilter = &series.MinFilter{Field: catalog.KeyMinutes, Min: p.minutes}
	}
	if p.sort != nil {
		canon = append(canon, *p.sort)
		opts.SortBy = p.sort.Key
	}
	canonicalize(merged, canon)

	proj := normalize.Projection{
		X:          normalize.Axis{Metric: p.x, Raw: p.pair.XRaw},
		Y:          normalize.Axis{Metric: p.y, Raw: p.pair.YRaw},
		IDField:    s.idField,
		LabelField: s.labelField,
		SourceType: p.source,
	}

	v := &View{
		Pair: PairView{
			ID:    p.pair.ID,
			Title: p.pair.Title,
			X:     AxisView{Metric: p.x.Key, Label: p.x.Label, Threshold: p.pair.XThreshold, Raw: p.pair.XRaw, LowerIsBetter: p.pair.XLowerIsBetter},
			Y:     AxisView{Metric: p.y.Key, Label: p.y.Label, Threshold: p.pair.YThreshold, Raw: p.pair.YRaw, LowerIsBetter: p.pair.YLowerIsBetter},
		},
		Source:      p.source,
		Captions:    p.pair.Captions,
		Series:      []SeriesView{},
		Unavailable: src.Unavailable,
		Merge:       stats,
	}
	if v.Unavailable == nil {
		v.Unavailable = []string{}
	}

	for _, sr := range series.Build(merged, opts) {
		sv := SeriesView{Key: sr.Key, Highlight: sr.Highlight, Points: make([]PointView, 0, len(sr.Records))}
		for _, m := range sr.Records {
			pt, rep := proj.Point(m)
			v.Normalization.Add(rep)
			q := p.pair.Classify(pt.X, pt.Y)
			img, _ := s.assets.ImageURL(p.source, pt.EntityID)
			sv.Points = append(sv.Points, PointView{
				Point:    pt,
				Quadrant: q,
				Label:    p.pair.Labels.Get(q),
				ImageURL: img,
				Missing:  m.Missing,
			})
		}
		v.Total += len(sv.Points)
		v.Series = append(v.Series, sv)
	}

	metrics.RecordNormalization(p.pair.ID, v.Normalization.Clamped, v.Normalization.NonNumeric)
	s.logger.Debug(ctx, "view composed",
		logger.String("pair", p.pair.ID),
		logger.Int("points", v.Total),
		logger.Int("clamped", v.Normalization.Clamped),
		logger.Int("non_numeric", v.Normalization.NonNumeric),
		logger.Strings("unavailable", v.Unavailable),
	)
	return v
}

// canonicalize copies the first alias value of each definition onto its
// canonical key so sorting and filtering see one field name.
func canonicalize(records []record.Merged, defs []catalog.Definition) {
	for _, d := range defs {
		for i := range records {
			f := records[i].Fields
			if _, ok := f[d.Key]; ok {
				continue
			}
			for _, a := range d.Aliases {
				if v, ok := f[a]; ok {
					f[d.Key] = v
					break
				}
			}
		}
	}
}

func (s *Service) recordViewError(pairID string, err error, start time.Time) {
	label := pairID
	if errors.Is(err, quadrant.ErrUnknownPair) || pairID == "" {
		label = "unknown"
	}
	outcome := "error"
	if errors.Is(err, catalog.ErrUnknownMetric) {
		outcome = "unknown_metric"
	}
	metrics.RecordView(label, outcome, float64(time.Since(start).Milliseconds()))
}
