package repository

import (
	"testing"
	"time"

	"github.com/okian/agenda/internal/domain/model"
	"github.com/okian/agenda/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuildSelect(t *testing.T) {
	Convey("Given the SQL query builder", t, func() {
		Convey("An unscoped All query carries only the order clause", func() {
			sqlStr, args, err := buildSelect(query.All())
			So(err, ShouldBeNil)
			So(args, ShouldBeEmpty)
			So(sqlStr, ShouldContainSubstring, `FROM "events"`)
			So(sqlStr, ShouldNotContainSubstring, "WHERE")
			So(sqlStr, ShouldContainSubstring, `ORDER BY "date" ASC, "id" DESC`)
		})

		Convey("A Future query becomes a lower date bound", func() {
			asOf := model.NewDate(2024, time.June, 12)
			sqlStr, args, err := buildSelect(query.Future(asOf))
			So(err, ShouldBeNil)
			So(sqlStr, ShouldContainSubstring, `"date" >= $1`)
			So(sqlStr, ShouldNotContainSubstring, `"date" <=`)
			So(args, ShouldHaveLength, 1)
			So(args[0].(time.Time).Format("2006-01-02"), ShouldEqual, "2024-06-12")
		})

		Convey("An OnDate query pins both bounds", func() {
			d := model.NewDate(2024, time.June, 12)
			sqlStr, args, err := buildSelect(query.OnDate(d))
			So(err, ShouldBeNil)
			So(sqlStr, ShouldContainSubstring, `"date" >= $1`)
			So(sqlStr, ShouldContainSubstring, `"date" <= $2`)
			So(args, ShouldHaveLength, 2)
		})

		Convey("A week query translates to the ISO week window", func() {
			sqlStr, args, err := buildSelect(query.WeekOfYear(24, 2024))
			So(err, ShouldBeNil)
			So(sqlStr, ShouldContainSubstring, `"date" >= $1`)
			So(sqlStr, ShouldContainSubstring, `"date" <= $2`)
			So(args, ShouldHaveLength, 2)
			So(args[0].(time.Time).Format("2006-01-02"), ShouldEqual, "2024-06-10")
			So(args[1].(time.Time).Format("2006-01-02"), ShouldEqual, "2024-06-16")
		})

		Convey("An invalid week degrades to a contradiction, never an error", func() {
			sqlStr, _, err := buildSelect(query.WeekOfYear(54, 2024))
			So(err, ShouldBeNil)
			So(sqlStr, ShouldContainSubstring, "FALSE")
		})

		Convey("An owner scope adds an equality filter", func() {
			sqlStr, args, err := buildSelect(query.All().ForOwner("alice"))
			So(err, ShouldBeNil)
			So(sqlStr, ShouldContainSubstring, `"owner_id" = $1`)
			So(args, ShouldContain, "alice")
		})

		Convey("Every variant keeps the same total order", func() {
			for _, q := range []query.Query{
				query.All(),
				query.Future(model.NewDate(2024, time.June, 12)),
				query.OnDate(model.NewDate(2024, time.June, 12)),
				query.WeekOfYear(24, 2024).ForOwner("alice"),
			} {
				sqlStr, _, err := buildSelect(q)
				So(err, ShouldBeNil)
				So(sqlStr, ShouldContainSubstring, `ORDER BY "date" ASC, "id" DESC`)
			}
		})
	})
}
