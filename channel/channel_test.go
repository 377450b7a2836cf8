package channel

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRef(t *testing.T) {
	Convey("Ref", t, func() {
		Convey("Valid requires a URL-safe identifier", func() {
			So(Ref{ID: "yayin1"}.Valid(), ShouldBeTrue)
			So(Ref{ID: "1677679684b9f4fab2cdc5"}.Valid(), ShouldBeTrue)
			So(Ref{ID: ""}.Valid(), ShouldBeFalse)
			So(Ref{ID: "a b"}.Valid(), ShouldBeFalse)
			So(Ref{ID: "a/b"}.Valid(), ShouldBeFalse)
		})

		Convey("String prefers the name", func() {
			So(Ref{Name: "Kanal D", ID: "x"}.String(), ShouldEqual, "Kanal D")
			So(Ref{ID: "x"}.String(), ShouldEqual, "x")
		})
	})
}

func TestStream(t *testing.T) {
	Convey("Stream", t, func() {
		s := Stream{
			Channel:  Ref{Name: "ATV", ID: "atv"},
			MediaURL: "https://cdn.example.com/live/atv.m3u8",
			Headers:  map[string]string{"User-Agent": "ua", "Referer": "https://example.com/"},
		}

		Convey("HeaderKeys are sorted", func() {
			So(s.HeaderKeys(), ShouldResemble, []string{"Referer", "User-Agent"})
		})

		Convey("A stream without headers has no keys", func() {
			So(Stream{}.HeaderKeys(), ShouldBeEmpty)
			So(s.String(), ShouldEqual, "ATV")
		})
	})
}
