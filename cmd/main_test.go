package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func upstream() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/forward/summary":
			_, _ = w.Write([]byte(`{"success": true, "data": [
				{"id": 9, "oyuncu": "Icardi", "sure": 2400},
				{"id": 11, "oyuncu": "Batshuayi", "sure": 1300}
			]}`))
		case "/forward/shooting":
			_, _ = w.Write([]byte(`{"success": true, "data": [
				{"id": 9, "xg_per_shot": 0.494, "shots_per90": 1.2}
			]}`))
		default:
			_, _ = w.Write([]byte(`{"success": false}`))
		}
	}))
}

func TestNewServer(t *testing.T) {
	convey.Convey("Given a configuration pointing at a fake upstream", t, func() {
		up := upstream()
		defer up.Close()

		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.UpstreamBaseURL = up.URL
		cfg.FetchMaxRetries = 0
		cfg.AssetURLTemplate = "https://img.example/{type}/{id}.png"

		srv, err := newServer(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		convey.So(srv.Addr, convey.ShouldEqual, cfg.Addr)

		serve := func(target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
			return w
		}

		convey.Convey("Then the API routes are mounted", func() {
			convey.So(serve("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve("/v1/catalog").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(serve("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then a view is built end to end", func() {
			w := serve("/v1/views/fwd_finishing?highlight=9")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

			var v struct {
				Total  int `json:"total"`
				Series []struct {
					Highlight bool `json:"highlight"`
					Points    []struct {
						EntityLabel string   `json:"entity_label"`
						ImageURL    string   `json:"image_url"`
						Missing     []string `json:"missing"`
					} `json:"points"`
				} `json:"series"`
			}
			convey.So(json.Unmarshal(w.Body.Bytes(), &v), convey.ShouldBeNil)
			convey.So(v.Total, convey.ShouldEqual, 2)
			convey.So(v.Series[0].Highlight, convey.ShouldBeTrue)
			convey.So(v.Series[0].Points[0].ImageURL, convey.ShouldEqual, "https://img.example/forward/9.png")
			convey.So(v.Series[1].Points[0].Missing, convey.ShouldResemble, []string{"forward/shooting"})
		})
	})

	convey.Convey("Given a missing catalog override file", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.CatalogPath = filepath.Join(t.TempDir(), "absent.yaml")

		_, err := newServer(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldNotBeNil)
	})

	convey.Convey("Given an override that breaks a pair", t, func() {
		path := filepath.Join(t.TempDir(), "tables.yaml")
		convey.So(os.WriteFile(path, []byte("pairs:\n  - id: broken\n    x_metric: save_pct\n    y_metric: aura\n"), 0o600), convey.ShouldBeNil)

		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.CatalogPath = path

		_, err := newServer(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop returns when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()

			select {
			case <-done:
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(time.Second):
				convey.So("updater did not stop", convey.ShouldBeEmpty)
			}
		})
	})
}
