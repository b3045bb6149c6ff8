package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/scout/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestClient(srv *httptest.Server, retries int) *Client {
	return NewClient(Config{
		BaseURL:       srv.URL + "/api/",
		Token:         "t0ken",
		MaxRetries:    retries,
		Concurrency:   2,
		MaxBodyBytes:  1024,
		RetryInterval: time.Millisecond,
	})
}

func TestFetch(t *testing.T) {
	Convey("Given an upstream serving goalkeeper envelopes", t, func() {
		var lastQuery, lastAuth, lastPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastQuery = r.URL.RawQuery
			lastAuth = r.Header.Get("Authorization")
			lastPath = r.URL.Path
			_, _ = fmt.Fprint(w, `{"success":true,"data":[{"id":1,"oyuncu":"Muslera"},null,{"id":2,"oyuncu":"Günok"}]}`)
		}))
		defer srv.Close()

		rows, err := newTestClient(srv, 0).Fetch(context.Background(), "/goalkeeper/summary", Params{SortBy: "save_pct", MinMinutes: 450})

		Convey("Then rows are decoded and nulls skipped", func() {
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			name, ok := rows[1].Text("oyuncu")
			So(ok, ShouldBeTrue)
			So(name, ShouldEqual, "Günok")
		})

		Convey("And the request carries path, params and token", func() {
			So(lastPath, ShouldEqual, "/api/goalkeeper/summary")
			So(lastQuery, ShouldContainSubstring, "sortBy=save_pct")
			So(lastQuery, ShouldContainSubstring, "minSure=450")
			So(lastAuth, ShouldEqual, "Bearer t0ken")
		})
	})

	Convey("Given an upstream reporting success:false", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprint(w, `{"success":false}`)
		}))
		defer srv.Close()

		rows, err := newTestClient(srv, 0).Fetch(context.Background(), "shots", Params{})

		So(errors.Is(err, record.ErrSourceUnavailable), ShouldBeTrue)
		So(rows, ShouldBeEmpty)
	})

	Convey("Given an upstream that fails twice then recovers", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) <= 2 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			_, _ = fmt.Fprint(w, `{"success":true,"data":[{"id":9}]}`)
		}))
		defer srv.Close()

		Convey("Then enough retries succeed", func() {
			rows, err := newTestClient(srv, 3).Fetch(context.Background(), "shots", Params{})
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
			So(calls.Load(), ShouldEqual, 3)
		})

		Convey("Then too few retries surface the status", func() {
			_, err := newTestClient(srv, 1).Fetch(context.Background(), "shots", Params{})
			So(errors.Is(err, ErrUpstreamStatus), ShouldBeTrue)
			So(calls.Load(), ShouldEqual, 2)
		})
	})

	Convey("Given an upstream answering 404", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			http.NotFound(w, nil)
		}))
		defer srv.Close()

		_, err := newTestClient(srv, 5).Fetch(context.Background(), "nope", Params{})

		So(errors.Is(err, ErrUpstreamStatus), ShouldBeTrue)
		So(calls.Load(), ShouldEqual, 1)
	})

	Convey("Given oversized and malformed bodies", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "big") {
				_, _ = fmt.Fprintf(w, `{"success":true,"data":[{"x":"%s"}]}`, strings.Repeat("a", 2048))
				return
			}
			_, _ = fmt.Fprint(w, `{"success":`)
		}))
		defer srv.Close()
		c := newTestClient(srv, 3)

		_, err := c.Fetch(context.Background(), "big", Params{})
		So(errors.Is(err, ErrBodyTooLarge), ShouldBeTrue)

		_, err = c.Fetch(context.Background(), "bad", Params{})
		So(errors.Is(err, record.ErrDecodeEnvelope), ShouldBeTrue)
	})

	Convey("An empty category is rejected", t, func() {
		c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
		_, err := c.Fetch(context.Background(), " / ", Params{})
		So(errors.Is(err, ErrEmptyCategory), ShouldBeTrue)
	})
}

func TestFetchAll(t *testing.T) {
	Convey("Given one failing category among several", t, func() {
		var inflight, peak atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := inflight.Add(1)
			defer inflight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)

			switch r.URL.Path {
			case "/api/passes":
				http.Error(w, "down", http.StatusInternalServerError)
			case "/api/defence":
				_, _ = fmt.Fprint(w, `{"success":false,"data":[]}`)
			default:
				_, _ = fmt.Fprint(w, `{"success":true,"data":[{"id":1}]}`)
			}
		}))
		defer srv.Close()

		categories := []string{"summary", "passes", "shots", "defence"}
		res := newTestClient(srv, 1).FetchAll(context.Background(), categories, Params{})

		Convey("Then the others still load", func() {
			So(len(res.Get("summary")), ShouldEqual, 1)
			So(len(res.Get("shots")), ShouldEqual, 1)
		})

		Convey("And failures become empty sets listed in request order", func() {
			So(res.Unavailable, ShouldResemble, []string{"passes", "defence"})
			So(res.Get("passes"), ShouldNotBeNil)
			So(res.Get("passes"), ShouldBeEmpty)
			So(res.Get("unknown"), ShouldBeEmpty)
		})

		Convey("And concurrency stays within the limit", func() {
			So(peak.Load(), ShouldBeLessThanOrEqualTo, 2)
		})
	})

	Convey("Given a canceled context", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = fmt.Fprint(w, `{"success":true,"data":[]}`)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res := newTestClient(srv, 2).FetchAll(ctx, []string{"a", "b"}, Params{})

		So(res.Unavailable, ShouldResemble, []string{"a", "b"})
	})
}
