package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should remove invalid chars", func() {
			So(SanitizeFilename("file:name?.txt"), ShouldEqual, "filename.txt")
		})
		Convey("Should collapse whitespace into one separator", func() {
			So(SanitizeFilename("Kanal  D"), ShouldEqual, "Kanal_D")
			So(SanitizeFilename("Show \t TV"), ShouldEqual, "Show_TV")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("file__name.txt"), ShouldEqual, "file_name.txt")
			So(SanitizeFilename("a _:_ b"), ShouldEqual, "a_b")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-file-name-"), ShouldEqual, "file-name")
		})
		Convey("Should transliterate diacritics", func() {
			So(SanitizeFilename("TRT Çocuk"), ShouldEqual, "TRT_Cocuk")
			So(SanitizeFilename("Beyaz Işık Şöleni"), ShouldEqual, "Beyaz_Isik_Soleni")
			So(SanitizeFilename("İstanbul Ağız"), ShouldEqual, "Istanbul_Agiz")
			So(SanitizeFilename("Straße Ørsted"), ShouldEqual, "Strasse_Orsted")
		})
		Convey("Should fall back when nothing survives", func() {
			So(SanitizeFilename("???"), ShouldEqual, FallbackFilename)
			So(SanitizeFilename("日本"), ShouldEqual, FallbackFilename)
		})
		Convey("Should be idempotent", func() {
			for _, name := range []string{
				"Kanal D", "TRT Çocuk", " -- A / B -- ", "x__y", "Bein Sports 1 HD", "a. b", "日本", "S Sport+",
			} {
				once := SanitizeFilename(name)
				So(SanitizeFilename(once), ShouldEqual, once)
			}
		})
	})
}

func TestTransliterate(t *testing.T) {
	Convey("Transliterate", t, func() {
		So(Transliterate("çğıöşü ÇĞİÖŞÜ"), ShouldEqual, "cgiosu CGIOSU")
		So(Transliterate("plain ascii"), ShouldEqual, "plain ascii")
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "channel", "channels"), ShouldEqual, "1 channel")
		So(Quantify(2, "channel", "channels"), ShouldEqual, "2 channels")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestTruncate(t *testing.T) {
	Convey("Truncate", t, func() {
		So(Truncate("abcdef", 10), ShouldEqual, "abcdef")
		So(Truncate("abcdef", 4), ShouldEqual, "abc…")
		So(Truncate("abcdef", 0), ShouldEqual, "abcdef")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}
