package record_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/okian/scout/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRawNumber(t *testing.T) {
	Convey("Given a raw record with mixed value types", t, func() {
		r := record.Raw{
			"kurtaris_yuzdesi": 72.5,
			"sure":             json.Number("1350"),
			"comma":            "12,5",
			"percent":          "45%",
			"int":              7,
			"null":             nil,
			"name":             "Fernando Muslera",
			"nan":              math.NaN(),
			"flag":             true,
		}

		Convey("When reading numeric fields", func() {
			v, ok := r.Number("kurtaris_yuzdesi")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 72.5)

			v, ok = r.Number("sure")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1350)

			v, ok = r.Number("comma")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 12.5)

			v, ok = r.Number("percent")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 45)

			v, ok = r.Number("int")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 7)
		})

		Convey("When reading missing or non-numeric fields", func() {
			for _, f := range []string{"absent", "null", "name", "nan", "flag"} {
				v, ok := r.Number(f)
				So(ok, ShouldBeFalse)
				So(v, ShouldEqual, 0)
			}
		})
	})
}

func TestRawText(t *testing.T) {
	Convey("Given a raw record with identifiers", t, func() {
		r := record.Raw{
			"id":       float64(42),
			"big":      json.Number("1001.0"),
			"takip_id": "  abc-1 ",
			"null":     nil,
		}

		Convey("Then integral numbers render without a fraction", func() {
			s, ok := r.Text("id")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "42")

			s, ok = r.Text("big")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "1001")
		})

		Convey("Then integers past float64 precision keep every digit", func() {
			big := record.Raw{
				"a": json.Number("9007199254740993"),
				"b": json.Number("9007199254740992"),
				"c": json.Number("123456789012345678901234567890"),
			}
			a, _ := big.Text("a")
			b, _ := big.Text("b")
			c, _ := big.Text("c")
			So(a, ShouldEqual, "9007199254740993")
			So(b, ShouldEqual, "9007199254740992")
			So(a, ShouldNotEqual, b)
			So(c, ShouldEqual, "123456789012345678901234567890")
		})

		Convey("Then fraction and exponent forms are still canonicalised", func() {
			r := record.Raw{"f": json.Number("7.0"), "e": json.Number("1e3")}
			f, _ := r.Text("f")
			e, _ := r.Text("e")
			So(f, ShouldEqual, "7")
			So(e, ShouldEqual, "1000")
		})

		Convey("Then strings are trimmed", func() {
			s, ok := r.Text("takip_id")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, "abc-1")
		})

		Convey("Then null and absent fields are reported missing", func() {
			_, ok := r.Text("null")
			So(ok, ShouldBeFalse)
			_, ok = r.Text("absent")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestMerged(t *testing.T) {
	Convey("Given a merged record with a missing source", t, func() {
		m := record.Merged{
			Fields:  record.Raw{"oyuncu": "Icardi", "gol": 12.0, "xg": 0},
			Sources: []string{"summary"},
			Missing: []string{"detail"},
		}

		So(m.Complete(), ShouldBeFalse)
		So(m.HasSource("summary"), ShouldBeTrue)
		So(m.HasSource("detail"), ShouldBeFalse)
		So(m.Number("gol"), ShouldEqual, 12)
		So(m.Number("xg"), ShouldEqual, 0)
		So(m.Number("absent"), ShouldEqual, 0)
		So(m.Text("oyuncu"), ShouldEqual, "Icardi")
	})
}

func TestEnvelope(t *testing.T) {
	Convey("Given upstream envelopes", t, func() {
		Convey("When the envelope is successful", func() {
			env, err := record.DecodeEnvelope(strings.NewReader(`{"success":true,"data":[{"id":1,"oyuncu":"A"},null,{"id":2}]}`))
			So(err, ShouldBeNil)

			rows, err := env.Records()
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			id, _ := rows[0].Text("id")
			So(id, ShouldEqual, "1")
		})

		Convey("When the envelope reports failure", func() {
			env, err := record.DecodeEnvelope(strings.NewReader(`{"success":false,"data":[{"id":1}]}`))
			So(err, ShouldBeNil)

			rows, err := env.Records()
			So(errors.Is(err, record.ErrSourceUnavailable), ShouldBeTrue)
			So(rows, ShouldBeEmpty)
		})

		Convey("When data is missing", func() {
			env, err := record.DecodeEnvelope(strings.NewReader(`{"success":true}`))
			So(err, ShouldBeNil)

			rows, err := env.Records()
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})

		Convey("When the body is not JSON", func() {
			_, err := record.DecodeEnvelope(strings.NewReader(`<html>`))
			So(errors.Is(err, record.ErrDecodeEnvelope), ShouldBeTrue)
		})
	})
}
