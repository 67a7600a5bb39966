package query_test

import (
	"testing"
	"time"

	"github.com/okian/agenda/internal/domain/model"
	"github.com/okian/agenda/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func event(id int64, owner string, date model.Date) model.Event {
	return model.Event{ID: id, OwnerID: owner, Date: date, Title: "event"}
}

func TestOrdering(t *testing.T) {
	Convey("Given events on mixed dates", t, func() {
		june10 := model.NewDate(2024, time.June, 10)
		june17 := model.NewDate(2024, time.June, 17)
		may1 := model.NewDate(2024, time.May, 1)

		events := []model.Event{
			event(1, "a", june10),
			event(4, "a", may1),
			event(2, "a", june10),
			event(3, "b", june17),
		}

		Convey("When sorting", func() {
			query.Sort(events)

			Convey("Then dates ascend and ids descend within a date", func() {
				So(events[0].ID, ShouldEqual, 4)
				So(events[1].ID, ShouldEqual, 2)
				So(events[2].ID, ShouldEqual, 1)
				So(events[3].ID, ShouldEqual, 3)
			})

			Convey("And every adjacent pair satisfies the order contract", func() {
				for i := 0; i < len(events)-1; i++ {
					a, b := events[i], events[i+1]
					dateBefore := a.Date.Before(b.Date.Time)
					sameDateNewerFirst := a.Date.Equal(b.Date.Time) && a.ID > b.ID
					So(dateBefore || sameDateNewerFirst, ShouldBeTrue)
				}
			})
		})

		Convey("Less is irreflexive on identical events", func() {
			So(query.Less(events[0], events[0]), ShouldBeFalse)
		})
	})
}

func TestPredicates(t *testing.T) {
	Convey("Given a set of events", t, func() {
		asOf := model.NewDate(2024, time.June, 12)
		past := event(1, "a", model.NewDate(2024, time.June, 11))
		today := event(2, "a", asOf)
		future := event(3, "a", model.NewDate(2024, time.July, 1))
		foreign := event(4, "b", asOf)

		Convey("Future includes the asOf day itself", func() {
			q := query.Future(asOf)
			So(q.Matches(past), ShouldBeFalse)
			So(q.Matches(today), ShouldBeTrue)
			So(q.Matches(future), ShouldBeTrue)
		})

		Convey("OnDate matches the exact calendar day only", func() {
			q := query.OnDate(asOf)
			So(q.Matches(today), ShouldBeTrue)
			So(q.Matches(past), ShouldBeFalse)
			So(q.Matches(future), ShouldBeFalse)
		})

		Convey("All matches everything", func() {
			q := query.All()
			So(q.Matches(past), ShouldBeTrue)
			So(q.Matches(future), ShouldBeTrue)
		})

		Convey("ForOwner excludes other owners", func() {
			q := query.All().ForOwner("a")
			So(q.Matches(today), ShouldBeTrue)
			So(q.Matches(foreign), ShouldBeFalse)
		})

		Convey("WeekOfYear matches Monday through Sunday inclusive", func() {
			q := query.WeekOfYear(24, 2024) // June 10-16, 2024
			So(q.Matches(event(1, "a", model.NewDate(2024, time.June, 10))), ShouldBeTrue)
			So(q.Matches(event(2, "a", model.NewDate(2024, time.June, 16))), ShouldBeTrue)
			So(q.Matches(event(3, "a", model.NewDate(2024, time.June, 17))), ShouldBeFalse)
			So(q.Matches(event(4, "a", model.NewDate(2024, time.June, 9))), ShouldBeFalse)
		})

		Convey("An out-of-range week matches nothing", func() {
			So(query.WeekOfYear(0, 2024).Matches(today), ShouldBeFalse)
			So(query.WeekOfYear(54, 2024).Matches(today), ShouldBeFalse)
		})
	})
}

func TestWeekRange(t *testing.T) {
	Convey("Given the ISO week calendar", t, func() {
		Convey("Week 24 of 2024 spans June 10 through June 16", func() {
			monday, sunday, ok := query.WeekRange(24, 2024)
			So(ok, ShouldBeTrue)
			So(monday.String(), ShouldEqual, "2024-06-10")
			So(sunday.String(), ShouldEqual, "2024-06-16")
		})

		Convey("Week 1 of 2015 starts in the preceding Gregorian year", func() {
			monday, sunday, ok := query.WeekRange(1, 2015)
			So(ok, ShouldBeTrue)
			So(monday.String(), ShouldEqual, "2014-12-29")
			So(sunday.String(), ShouldEqual, "2015-01-04")
		})

		Convey("Week 53 of 2020 spills into the next Gregorian year", func() {
			monday, sunday, ok := query.WeekRange(53, 2020)
			So(ok, ShouldBeTrue)
			So(monday.String(), ShouldEqual, "2020-12-28")
			So(sunday.String(), ShouldEqual, "2021-01-03")
		})

		Convey("Week 53 does not exist in a 52-week year", func() {
			_, _, ok := query.WeekRange(53, 2021)
			So(ok, ShouldBeFalse)
		})

		Convey("Weeks 0 and 54 never exist", func() {
			_, _, ok := query.WeekRange(0, 2024)
			So(ok, ShouldBeFalse)
			_, _, ok = query.WeekRange(54, 2024)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRange(t *testing.T) {
	Convey("Given the supported predicates", t, func() {
		Convey("All is unbounded on both sides", func() {
			lo, hi, ok := query.All().Range()
			So(ok, ShouldBeTrue)
			So(lo.IsZero(), ShouldBeTrue)
			So(hi.IsZero(), ShouldBeTrue)
		})

		Convey("Future is open-ended above", func() {
			asOf := model.NewDate(2024, time.June, 12)
			lo, hi, ok := query.Future(asOf).Range()
			So(ok, ShouldBeTrue)
			So(lo.Equal(asOf.Time), ShouldBeTrue)
			So(hi.IsZero(), ShouldBeTrue)
		})

		Convey("OnDate pins both bounds to the same day", func() {
			d := model.NewDate(2024, time.June, 12)
			lo, hi, ok := query.OnDate(d).Range()
			So(ok, ShouldBeTrue)
			So(lo.Equal(d.Time), ShouldBeTrue)
			So(hi.Equal(d.Time), ShouldBeTrue)
		})
	})
}
