package history

import (
	"testing"
	"time"

	"github.com/chanscout/chanscout/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a cleared history", t, func() {
		So(Clear(), ShouldBeNil)

		records, err := Get()
		So(err, ShouldBeNil)
		So(records, ShouldBeEmpty)

		Convey("When saving a run", func() {
			started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			record := Record{
				Started:   started,
				Finished:  started.Add(90 * time.Second),
				Catalog:   "https://tv.example.com/",
				Attempted: 12,
				Resolved:  10,
			}
			So(Save(record), ShouldBeNil)

			Convey("It should be read back", func() {
				records, err := Get()
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].Resolved, ShouldEqual, 10)
				So(records[0].Duration(), ShouldEqual, 90*time.Second)
			})
		})

		Convey("When saving more runs than the cap", func() {
			for i := 0; i < MaxRecords+5; i++ {
				So(Save(Record{Attempted: i}), ShouldBeNil)
			}

			Convey("Only the newest should be kept", func() {
				records, err := Get()
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, MaxRecords)
				So(records[0].Attempted, ShouldEqual, 5)
				So(records[MaxRecords-1].Attempted, ShouldEqual, MaxRecords+4)
			})
		})
	})
}
