package authz_test

import (
	"testing"
	"time"

	"github.com/okian/agenda/internal/domain/authz"
	"github.com/okian/agenda/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOwnershipGuard(t *testing.T) {
	Convey("Given an event owned by alice", t, func() {
		e := model.Event{
			ID:      1,
			OwnerID: "alice",
			Date:    model.NewDate(2024, time.June, 10),
			Title:   "standup",
		}

		Convey("The owner may manage it", func() {
			So(authz.CanManage("alice", e), ShouldBeTrue)
			So(authz.Authorize("alice", e), ShouldBeNil)
		})

		Convey("Any other identity is denied", func() {
			So(authz.CanManage("bob", e), ShouldBeFalse)
			So(authz.Authorize("bob", e), ShouldEqual, authz.ErrNotAllowed)
		})

		Convey("A missing identity is denied, not a crash", func() {
			So(authz.CanManage("", e), ShouldBeFalse)
			So(authz.Authorize("", e), ShouldEqual, authz.ErrNotAllowed)
		})

		Convey("An empty owner on the record never matches the empty identity", func() {
			orphan := model.Event{ID: 2, Date: e.Date, Title: "orphan"}
			So(authz.CanManage("", orphan), ShouldBeFalse)
		})
	})
}
