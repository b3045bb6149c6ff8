package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/quadrant"
	"github.com/okian/scout/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestLoadTables(t *testing.T) {
	convey.Convey("Given the table loader", t, func() {
		ctx := context.Background()

		convey.Convey("When no path is set", func() {
			cat, pairs, err := config.LoadTables(ctx, "")

			convey.Convey("Then the built-ins are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cat.Len(), convey.ShouldEqual, catalog.Default().Len())
				convey.So(len(pairs.All()), convey.ShouldEqual, len(quadrant.Default().All()))
			})
		})

		convey.Convey("When a file overrides a metric and a pair", func() {
			tmpFile := createTempFile(`
metrics:
  - key: save_pct
    label: Save %
    domain_min: 55
    domain_max: 100
    family: goalkeeper
    aliases: [kurtaris_yuzdesi]
  - key: sweeper_actions_per90
    label: Sweeper actions / 90
    domain_min: 0
    domain_max: 2
pairs:
  - id: gk_sweeping
    title: Sweeping
    source: goalkeeper
    x_metric: save_pct
    y_metric: sweeper_actions_per90
    x_threshold: 60
    y_threshold: 40
    labels:
      high_x_high_y: Modern keeper
      high_x_low_y: Line keeper
      low_x_high_y: Rusher
      low_x_low_y: Struggling
`)
			defer func() { _ = os.Remove(tmpFile) }()

			cat, pairs, err := config.LoadTables(ctx, tmpFile)

			convey.Convey("Then the overrides are applied on top of the built-ins", func() {
				convey.So(err, convey.ShouldBeNil)

				d, err := cat.Lookup(catalog.KeySavePct)
				convey.So(err, convey.ShouldBeNil)
				convey.So(d.DomainMin, convey.ShouldEqual, 55)
				convey.So(d.Family, convey.ShouldEqual, types.Goalkeeper)

				_, err = cat.Lookup("sweeper_actions_per90")
				convey.So(err, convey.ShouldBeNil)

				label, err := pairs.Label("gk_sweeping", quadrant.LowXHighY)
				convey.So(err, convey.ShouldBeNil)
				convey.So(label, convey.ShouldEqual, "Rusher")

				_, err = pairs.Pair(quadrant.PairForwardFinishing)
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a metric breaks its bounds", func() {
			tmpFile := createTempFile(`
metrics:
  - key: save_pct
    domain_min: 100
    domain_max: 50
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_, _, err := config.LoadTables(ctx, tmpFile)

			convey.Convey("Then the file is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, catalog.ErrInvalidDefinition), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a pair names an unknown metric", func() {
			tmpFile := createTempFile(`
pairs:
  - id: broken
    x_metric: save_pct
    y_metric: nope
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_, _, err := config.LoadTables(ctx, tmpFile)

			convey.Convey("Then the file is rejected", func() {
				convey.So(errors.Is(err, catalog.ErrUnknownMetric), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file is missing", func() {
			_, _, err := config.LoadTables(ctx, "/non/existent/catalog.yaml")
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})
	})
}
