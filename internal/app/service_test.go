package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/scout/internal/adapters/assets"
	"github.com/okian/scout/internal/adapters/fetch"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/merge"
	"github.com/okian/scout/internal/domain/quadrant"
	"github.com/okian/scout/internal/domain/record"
	"github.com/okian/scout/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeFetcher struct {
	mu       sync.Mutex
	data     map[string][]record.Raw
	down     map[string]bool
	lastCats []string
	lastPar  fetch.Params
}

func (f *fakeFetcher) FetchAll(_ context.Context, categories []string, p fetch.Params) fetch.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCats = categories
	f.lastPar = p

	res := fetch.Result{Records: map[string][]record.Raw{}}
	for _, c := range categories {
		if f.down[c] {
			res.Records[c] = []record.Raw{}
			res.Unavailable = append(res.Unavailable, c)
			continue
		}
		res.Records[c] = f.data[c]
	}
	return res
}

func forwards() *fakeFetcher {
	return &fakeFetcher{
		data: map[string][]record.Raw{
			"forward/summary": {
				{"id": 1.0, "oyuncu": "Icardi", "sure": 2400.0, "surdurabilirlik_sira": 2.0},
				{"id": 2.0, "oyuncu": "Dzeko", "sure": 2100.0, "surdurabilirlik_sira": 1.0},
				{"id": 3.0, "oyuncu": "Bench", "sure": 200.0, "surdurabilirlik_sira": 3.0},
			},
			"forward/shooting": {
				{"id": 1.0, "xg_per_shot": 0.494, "shots_per90": 1.2},
				{"id": 2.0, "xg_per_shot": 0.10, "shots_per90": 4.1},
			},
		},
		down: map[string]bool{},
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it starts with the built-in tables", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Catalog().Len(), ShouldEqual, catalog.Default().Len())
			So(svc.Categories(types.Forward), ShouldResemble, []string{"forward/summary", "forward/shooting"})
		})
	})

	Convey("Given pairs referencing a metric the catalog lacks", t, func() {
		pairs, err := quadrant.NewTable(quadrant.Pair{ID: "x", XMetric: "save_pct", YMetric: "ghost"})
		So(err, ShouldBeNil)
		svc := service.New(service.WithPairs(pairs))

		So(errors.Is(svc.Start(context.Background()), catalog.ErrUnknownMetric), ShouldBeTrue)
	})
}

func TestService_BuildView(t *testing.T) {
	Convey("Given a service over a fake upstream", t, func() {
		ff := forwards()
		svc := service.New(
			service.WithFetcher(ff),
			service.WithAssets(assets.NewTemplate("/img/{type}/{id}.png")),
		)
		ctx := context.Background()
		minutes := 900.0

		Convey("When building the finishing view with a minutes floor and highlight", func() {
			v, err := svc.BuildView(ctx, service.ViewRequest{
				PairID:            quadrant.PairForwardFinishing,
				SortBy:            "sürdürülebilirlik_sira",
				SortOrder:         types.Ascending,
				MinMinutes:        &minutes,
				HighlightEntityID: "1",
			})
			So(err, ShouldBeNil)

			Convey("Then upstream is asked with canonical parameters", func() {
				So(ff.lastCats, ShouldResemble, []string{"forward/summary", "forward/shooting"})
				So(ff.lastPar.SortBy, ShouldEqual, catalog.KeySustainabilityRank)
				So(ff.lastPar.MinMinutes, ShouldEqual, 900)
			})

			Convey("Then the highlighted player is first and the bench player is filtered", func() {
				So(v.Total, ShouldEqual, 2)
				So(len(v.Series), ShouldEqual, 2)
				So(v.Series[0].Highlight, ShouldBeTrue)
				So(v.Series[0].Points[0].EntityLabel, ShouldEqual, "Icardi")
				So(v.Series[1].Points[0].EntityLabel, ShouldEqual, "Dzeko")
			})

			Convey("Then points are normalized and classified", func() {
				icardi := v.Series[0].Points[0]
				So(icardi.X, ShouldAlmostEqual, 95, 1e-9)
				So(icardi.Y, ShouldEqual, 1.2)
				So(icardi.Quadrant, ShouldEqual, quadrant.HighXLowY)
				So(icardi.Label, ShouldEqual, "Selective finisher")
				So(icardi.ImageURL, ShouldEqual, "/img/forward/1.png")
				So(icardi.SourceType, ShouldEqual, types.Forward)

				dzeko := v.Series[1].Points[0]
				So(dzeko.Quadrant, ShouldEqual, quadrant.LowXHighY)
			})

			Convey("Then captions and axes describe the pair", func() {
				So(v.Captions.Get(quadrant.LowXLowY), ShouldEqual, "Rarely threatens")
				So(v.Pair.Y.Raw, ShouldBeTrue)
				So(v.Pair.X.Metric, ShouldEqual, catalog.KeyXGPerShot)
				So(v.Unavailable, ShouldBeEmpty)
			})
		})

		Convey("When a secondary category is down", func() {
			ff.down["forward/shooting"] = true
			v, err := svc.BuildView(ctx, service.ViewRequest{PairID: quadrant.PairForwardFinishing})

			Convey("Then the view still renders with defaulted values", func() {
				So(err, ShouldBeNil)
				So(v.Unavailable, ShouldResemble, []string{"forward/shooting"})
				So(v.Total, ShouldEqual, 3)
				for _, pt := range v.Series[0].Points {
					So(pt.X, ShouldEqual, 0)
					So(pt.Missing, ShouldResemble, []string{"forward/shooting"})
					So(pt.Quadrant, ShouldEqual, quadrant.LowXLowY)
				}
			})
		})

		Convey("When the sort key is unknown", func() {
			_, err := svc.BuildView(ctx, service.ViewRequest{PairID: quadrant.PairForwardFinishing, SortBy: "charisma"})
			So(errors.Is(err, catalog.ErrUnknownMetric), ShouldBeTrue)
			So(ff.lastCats, ShouldBeNil)
		})

		Convey("When the pair is unknown", func() {
			_, err := svc.BuildView(ctx, service.ViewRequest{PairID: "nope"})
			So(errors.Is(err, quadrant.ErrUnknownPair), ShouldBeTrue)
		})

		Convey("When the request is malformed", func() {
			neg := -1.0
			_, err := svc.BuildView(ctx, service.ViewRequest{PairID: quadrant.PairForwardFinishing, MinMinutes: &neg})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)

			_, err = svc.BuildView(ctx, service.ViewRequest{})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)

			_, err = svc.BuildView(ctx, service.ViewRequest{PairID: quadrant.PairForwardFinishing, Match: service.Match{Strategy: "fuzzy"}})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
		})
	})

	Convey("Given a service without upstream", t, func() {
		_, err := service.New().BuildView(context.Background(), service.ViewRequest{PairID: quadrant.PairForwardFinishing})
		So(errors.Is(err, service.ErrNoFetcher), ShouldBeTrue)
	})
}

func TestService_Compose(t *testing.T) {
	Convey("Given inline goalkeeper envelopes", t, func() {
		svc := service.New()
		src, err := service.SourcesFromEnvelopes([]service.CategoryEnvelope{
			{Category: "summary", Envelope: record.Envelope{Success: true, Data: []record.Raw{
				{"id": 1.0, "oyuncu": "Muslera", "takip_id": " a "},
				{"id": 2.0, "oyuncu": "Livakovic", "takip_id": "b"},
				{"id": 3.0, "oyuncu": "Bayındır", "takip_id": "c"},
			}}},
			{Category: "saves", Envelope: record.Envelope{Success: true, Data: []record.Raw{
				{"takip_id": "a", "save_pct": 92.0, "goals_prevented_per90": 0.2},
				{"takip_id": "b", "save_pct": 60.0, "goals_prevented_per90": -0.3},
			}}},
			{Category: "distribution", Envelope: record.Envelope{Success: false}},
		})
		So(err, ShouldBeNil)

		v, err := svc.Compose(context.Background(), service.ViewRequest{
			PairID: quadrant.PairGoalkeeperShotStopping,
			Match:  service.Match{Field: "takip_id"},
		}, src)
		So(err, ShouldBeNil)

		Convey("Then every primary record is plotted once", func() {
			So(v.Total, ShouldEqual, 3)
			So(v.Merge.Matched["saves"], ShouldEqual, 2)
			So(v.Merge.Unmatched["saves"], ShouldEqual, 1)
			So(v.Unavailable, ShouldResemble, []string{"distribution"})
		})

		Convey("Then save percentage 92 lands at 84", func() {
			pts := v.Series[0].Points
			So(pts[0].EntityLabel, ShouldEqual, "Muslera")
			So(pts[0].X, ShouldAlmostEqual, 84, 1e-9)
			So(pts[0].Quadrant, ShouldEqual, quadrant.HighXHighY)
			So(pts[2].X, ShouldEqual, 0)
			So(pts[2].Missing, ShouldResemble, []string{"saves", "distribution"})
		})
	})

	Convey("Given no envelopes", t, func() {
		_, err := service.SourcesFromEnvelopes(nil)
		So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
	})

	Convey("Given team records without minutes", t, func() {
		svc := service.New()
		minutes := 900.0
		v, err := svc.Compose(context.Background(), service.ViewRequest{PairID: quadrant.PairTeamStyle, MinMinutes: &minutes}, service.Sources{
			Primary: merge.Source{Name: "team/summary", Records: []record.Raw{
				{"id": "gs", "oyuncu": "Galatasaray", "possession_pct": 62.0, "ppda": 8.0},
			}},
		})
		So(err, ShouldBeNil)
		So(v.Total, ShouldEqual, 1)
		So(v.Series[0].Points[0].Quadrant, ShouldEqual, quadrant.HighXHighY)
	})
}

func TestService_Profile(t *testing.T) {
	Convey("Given a service over a fake upstream", t, func() {
		ff := forwards()
		svc := service.New(service.WithFetcher(ff))
		ctx := context.Background()

		Convey("A radar profile lists the family metrics in catalog order", func() {
			p, err := svc.FetchProfile(ctx, service.ProfileRequest{Source: "fwd", EntityID: "2"})
			So(err, ShouldBeNil)
			So(p.EntityLabel, ShouldEqual, "Dzeko")
			So(p.Source, ShouldEqual, types.Forward)
			So(len(p.Axes), ShouldEqual, len(catalog.Default().ByFamily(types.Forward)))
			So(p.Axes[0].Key, ShouldEqual, catalog.KeyXGPerShot)
		})

		Convey("Explicit metrics may use aliases", func() {
			p, err := svc.FetchProfile(ctx, service.ProfileRequest{Source: types.Forward, EntityID: "1", Metrics: []string{"sut_90"}})
			So(err, ShouldBeNil)
			So(p.Axes[0].Key, ShouldEqual, catalog.KeyShotsPer90)
			So(p.Axes[0].Raw, ShouldEqual, 1.2)
		})

		Convey("Unknown entities and metrics fail", func() {
			_, err := svc.FetchProfile(ctx, service.ProfileRequest{Source: types.Forward, EntityID: "42"})
			So(errors.Is(err, service.ErrEntityNotFound), ShouldBeTrue)

			_, err = svc.FetchProfile(ctx, service.ProfileRequest{Source: types.Forward, EntityID: "1", Metrics: []string{"aura"}})
			So(errors.Is(err, catalog.ErrUnknownMetric), ShouldBeTrue)

			_, err = svc.FetchProfile(ctx, service.ProfileRequest{Source: "coach", EntityID: "1"})
			So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
		})
	})
}
