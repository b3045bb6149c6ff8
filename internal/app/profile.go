package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/scout/internal/adapters/fetch"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/merge"
	"github.com/okian/scout/internal/domain/normalize"
	"github.com/okian/scout/internal/domain/types"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// ProfileRequest asks for the radar chart of one entity.
type ProfileRequest struct {
	Source   types.SourceType `json:"source"`
	EntityID string           `json:"entity_id"`
	// Metrics defaults to every catalog metric of the source's family.
	Metrics []string `json:"metrics,omitempty"`
	Match   Match    `json:"match,omitempty"`
}

// ProfileView is a radar chart.
type ProfileView struct {
	normalize.Profile
	Source        types.SourceType `json:"source"`
	ImageURL      string           `json:"image_url,omitempty"`
	Missing       []string         `json:"missing,omitempty"`
	Unavailable   []string         `json:"unavailable"`
	Normalization normalize.Report `json:"normalization"`
}

// Profile builds a radar chart from records that were already fetched.
func (s *Service) Profile(ctx context.Context, req ProfileRequest, src Sources) (*ProfileView, error) {
	defs, matcher, err := s.planProfile(ctx, &req)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, req, defs, matcher, src)
}

// FetchProfile fetches the categories of the entity's population and builds
// its radar chart.
func (s *Service) FetchProfile(ctx context.Context, req ProfileRequest) (*ProfileView, error) {
	if s.fetcher == nil {
		return nil, ErrNoFetcher
	}
	defs, matcher, err := s.planProfile(ctx, &req)
	if err != nil {
		return nil, err
	}
	cats := s.categories[req.Source]
	if len(cats) == 0 {
		return nil, fmt.Errorf("%w: no categories for %s", ErrInvalidRequest, req.Source)
	}
	res := s.fetcher.FetchAll(ctx, cats, fetch.Params{MinMinutes: 0})
	return s.profile(ctx, req, defs, matcher, sourcesFromResult(cats, res))
}

// planProfile validates req, normalizing its source in place.
func (s *Service) planProfile(ctx context.Context, req *ProfileRequest) ([]catalog.Definition, merge.Matcher, error) {
	if strings.TrimSpace(req.EntityID) == "" {
		return nil, nil, fmt.Errorf("%w: entity_id is required", ErrInvalidRequest)
	}
	st, ok := types.ParseSourceType(string(req.Source))
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown source %q", ErrInvalidRequest, req.Source)
	}
	req.Source = st

	var defs []catalog.Definition
	if len(req.Metrics) == 0 {
		defs = s.catalog.ByFamily(req.Source)
	}
	for _, key := range req.Metrics {
		d, err := s.resolveMetric(ctx, "profile", key)
		if err != nil {
			return nil, nil, err
		}
		defs = append(defs, d)
	}
	if len(defs) == 0 {
		return nil, nil, fmt.Errorf("%w: no metrics for %s", ErrInvalidRequest, req.Source)
	}

	m, err := s.matcher(req.Match)
	if err != nil {
		return nil, nil, err
	}
	return defs, m, nil
}

func (s *Service) profile(ctx context.Context, req ProfileRequest, defs []catalog.Definition, m merge.Matcher, src Sources) (*ProfileView, error) {
	merged, stats := merge.MergeAll(src.Primary, m, src.Secondaries...)
	for _, sec := range src.Secondaries {
		metrics.RecordMerge(sec.Name, stats.Matched[sec.Name], stats.Unmatched[sec.Name], stats.DuplicateKeys[sec.Name])
	}

	id := strings.TrimSpace(req.EntityID)
	for _, r := range merged {
		if r.Text(s.idField) != id {
			continue
		}
		p, rep := normalize.BuildProfile(r, s.idField, s.labelField, defs)
		metrics.RecordNormalization("profile", rep.Clamped, rep.NonNumeric)
		img, _ := s.assets.ImageURL(req.Source, id)

		unavailable := src.Unavailable
		if unavailable == nil {
			unavailable = []string{}
		}
		return &ProfileView{
			Profile:       p,
			Source:        req.Source,
			ImageURL:      img,
			Missing:       r.Missing,
			Unavailable:   unavailable,
			Normalization: rep,
		}, nil
	}

	s.logger.Debug(ctx, "profile entity not found",
		logger.String("entity", id),
		logger.String("source", string(req.Source)),
		logger.Int("records", len(merged)),
	)
	return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
}
