package icon

import (
	"testing"

	"github.com/chanscout/chanscout/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		target := Channel

		Convey("It renders correctly for each variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					result := Get(target)
					So(result, ShouldNotBeEmpty)
				})
			}
		})

		Convey("It falls back to plain for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(target), ShouldEqual, "#")
		})

		Convey("It returns empty for an unregistered icon", func() {
			So(Get(Icon(0)), ShouldBeEmpty)
		})
	})

	Convey("Every icon defines every variant", t, func() {
		for _, def := range icons {
			for _, variant := range AvailableVariants() {
				So(def.render(variant), ShouldNotBeEmpty)
			}
		}
	})
}
