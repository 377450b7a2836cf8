package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestToken(t *testing.T) {
	keyring.MockInit()

	Convey("Given an empty keyring", t, func() {
		_ = DeleteToken()

		Convey("GetToken should report no token", func() {
			_, err := GetToken()
			So(err, ShouldEqual, ErrNoToken)
		})

		Convey("A stored token should be read back and deleted", func() {
			So(SetToken("ghp_secret"), ShouldBeNil)

			token, err := GetToken()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "ghp_secret")

			So(DeleteToken(), ShouldBeNil)
			So(DeleteToken(), ShouldBeNil)
			_, err = GetToken()
			So(err, ShouldEqual, ErrNoToken)
		})
	})
}
