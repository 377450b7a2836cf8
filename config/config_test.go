package config

import (
	"testing"

	"github.com/chanscout/chanscout/filesystem"
	"github.com/chanscout/chanscout/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.IsSet(name), ShouldBeTrue)
			}
			So(viper.GetInt(key.ResolverSample), ShouldEqual, 5)
			So(viper.GetString(key.ResolverSniffPolicy), ShouldEqual, "last")
			So(viper.GetStringSlice(key.ResolverStrategies), ShouldResemble, []string{"constant", "sniff"})
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("publish.github.token")
			So(result, ShouldEqual, "publish_github_token")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.BrowserSettle]

		Convey("Env should carry the application prefix", func() {
			So(field.Env(), ShouldEqual, "CHANSCOUT_BROWSER_SETTLE")
		})

		Convey("Its type name should follow the default value", func() {
			So(field.typeName(), ShouldEqual, "int")
			list := Default[key.ResolverSniffExclude]
			So(list.typeName(), ShouldEqual, "[]string")
		})

		Convey("MarshalJSON should expose default and description", func() {
			data, err := field.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"default":15`)
			So(string(data), ShouldContainSubstring, `"type":"int"`)
		})
	})
}
