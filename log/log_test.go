package log

import (
	"testing"

	"github.com/chanscout/chanscout/filesystem"
	"github.com/chanscout/chanscout/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func TestSetup(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		t.Setenv("CHANSCOUT_CONFIG_PATH", "/config")

		Reset(func() {
			viper.Reset()
			logger = newDiscard()
		})

		Convey("When writing is disabled", func() {
			viper.Set(key.LogsWrite, false)
			So(Setup(), ShouldBeNil)

			Info("nothing")

			Convey("No log file should be created", func() {
				exists, err := afero.Exists(filesystem.API(), Path())
				So(err, ShouldBeNil)
				So(exists, ShouldBeFalse)
			})
		})

		Convey("When writing is enabled at warn level", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "warn")
			So(Setup(), ShouldBeNil)

			Info("skipped entry")
			WithFields(Fields{"channel": "TRT 1", "strategy": "sniff"}).Warn("strategy failed")

			Convey("Only entries at or above the level should be written with their fields", func() {
				content, err := afero.ReadFile(filesystem.API(), Path())
				So(err, ShouldBeNil)
				So(string(content), ShouldContainSubstring, "strategy failed")
				So(string(content), ShouldContainSubstring, `channel="TRT 1"`)
				So(string(content), ShouldNotContainSubstring, "skipped entry")
			})
		})

		Convey("An unknown level should fall back to info", func() {
			viper.Set(key.LogsWrite, true)
			viper.Set(key.LogsLevel, "loud")
			So(Setup(), ShouldBeNil)
			So(logger.GetLevel().String(), ShouldEqual, "info")
		})
	})
}
