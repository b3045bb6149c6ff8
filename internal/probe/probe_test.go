package probe_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/scout/internal/adapters/fetch"
	"github.com/okian/scout/internal/adapters/http/api"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/quadrant"
	"github.com/okian/scout/internal/domain/record"
	"github.com/okian/scout/internal/probe"
	"github.com/okian/scout/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type staticFetcher map[string][]record.Raw

func (s staticFetcher) FetchAll(_ context.Context, categories []string, _ fetch.Params) fetch.Result {
	res := fetch.Result{Records: map[string][]record.Raw{}}
	for _, c := range categories {
		res.Records[c] = s[c]
	}
	return res
}

func scoutServer() *httptest.Server {
	svc := service.New(service.WithFetcher(staticFetcher{
		"forward/summary": {
			{"id": 1.0, "oyuncu": "Icardi", "sure": 2400.0},
			{"id": 2.0, "oyuncu": "Dzeko", "sure": 2100.0},
		},
		"forward/shooting": {
			{"id": 1.0, "xg_per_shot": 0.494, "shots_per90": 1.2},
			{"id": 2.0, "xg_per_shot": 0.9, "shots_per90": 4.1},
		},
	}))
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestRun(t *testing.T) {
	Convey("Given a running scout server", t, func() {
		srv := scoutServer()
		defer srv.Close()
		out := filepath.Join(t.TempDir(), "views", "out.json")

		cfg := &probe.Config{
			BaseURL:    srv.URL,
			Pairs:      []string{quadrant.PairForwardFinishing, "nope"},
			Highlight:  "1",
			Workers:    2,
			Timeout:    5 * time.Second,
			OutputFile: out,
		}

		Convey("When probing a known and an unknown pair", func() {
			results, stats, err := probe.Run(context.Background(), cfg)

			Convey("Then the known view passes and the unknown one is counted as failed", func() {
				So(err, ShouldBeNil)
				So(stats.ViewsRequested, ShouldEqual, 2)
				So(stats.ViewsOK, ShouldEqual, 1)
				So(stats.ViewsFailed, ShouldEqual, 1)
				So(stats.Points, ShouldEqual, 2)
				So(results[0].Violations, ShouldBeEmpty)
				So(results[1].Status, ShouldEqual, http.StatusNotFound)
			})

			Convey("Then the fetched views are saved", func() {
				b, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				var saved map[string]json.RawMessage
				So(json.Unmarshal(b, &saved), ShouldBeNil)
				So(saved, ShouldContainKey, quadrant.PairForwardFinishing)
			})
		})

		Convey("When a logger is supplied the run is logged through it", func() {
			var buf bytes.Buffer
			log, err := logger.New(&buf, "json")
			So(err, ShouldBeNil)
			cfg.Logger = log
			cfg.OutputFile = ""

			_, _, err = probe.Run(context.Background(), cfg)
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "starting scout probe")
		})

		Convey("When no logger is supplied the run still completes", func() {
			cfg.OutputFile = ""
			So(func() { _, _, _ = probe.Run(context.Background(), cfg) }, ShouldNotPanic)
		})

		Convey("When no pairs are named every listed pair is probed", func() {
			cfg.Pairs = nil
			cfg.OutputFile = ""
			_, stats, err := probe.Run(context.Background(), cfg)
			So(err, ShouldBeNil)
			So(stats.ViewsRequested, ShouldEqual, len(quadrant.Default().IDs()))
		})
	})

	Convey("Given nothing listening", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, _, err := probe.Run(context.Background(), &probe.Config{BaseURL: srv.URL, Timeout: time.Second})
		So(errors.Is(err, probe.ErrUnhealthy), ShouldBeTrue)
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a view with broken invariants", t, func() {
		pt := func(id string, x, y float64, q quadrant.Quadrant) service.PointView {
			v := service.PointView{Quadrant: q}
			v.EntityID, v.X, v.Y = id, x, y
			return v
		}
		v := &service.View{
			Pair: service.PairView{
				X: service.AxisView{Threshold: 50},
				Y: service.AxisView{Threshold: 3, Raw: true, LowerIsBetter: true},
			},
			Series: []service.SeriesView{
				{Key: "all", Points: []service.PointView{
					pt("a", 120, 1, quadrant.HighXHighY),
					pt("b", 10, 5, quadrant.HighXHighY),
				}},
				{Key: "highlight", Highlight: true, Points: []service.PointView{pt("c", 60, 2, quadrant.HighXHighY)}},
			},
			Total: 4,
		}

		Convey("Then each one is reported", func() {
			got := probe.Verify(v, "c")
			So(got, ShouldContain, "a: x 120.000 outside [0,100]")
			So(got, ShouldContain, "b: quadrant high_x_high_y, expected low_x_low_y")
			So(got, ShouldContain, "highlight series at position 1")
			So(got, ShouldContain, "total 4 but series hold 3 points")
			So(len(got), ShouldEqual, 4)
		})
	})
}
