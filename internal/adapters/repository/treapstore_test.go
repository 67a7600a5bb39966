package repository_test

import (
	"context"
	"testing"
	"time"

	repository "github.com/okian/agenda/internal/adapters/repository"
	"github.com/okian/agenda/internal/domain/model"
	"github.com/okian/agenda/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func mustInsert(ctx context.Context, store repository.Store, owner, date, title string) model.Event {
	d, err := model.ParseDate(date)
	So(err, ShouldBeNil)
	e, err := store.Insert(ctx, model.Event{OwnerID: owner, Date: d, Title: title})
	So(err, ShouldBeNil)
	return e
}

func assertOrdered(events []model.Event) {
	for i := 0; i < len(events)-1; i++ {
		a, b := events[i], events[i+1]
		dateBefore := a.Date.Before(b.Date.Time)
		sameDateNewerFirst := a.Date.Equal(b.Date.Time) && a.ID > b.ID
		So(dateBefore || sameDateNewerFirst, ShouldBeTrue)
	}
}

func TestTreapStoreCRUD(t *testing.T) {
	Convey("Given an empty treap store", t, func() {
		ctx := context.Background()
		store := repository.NewTreapStore(ctx)

		Convey("When inserting events", func() {
			first := mustInsert(ctx, store, "alice", "2024-06-10", "standup")
			second := mustInsert(ctx, store, "alice", "2024-06-11", "retro")

			Convey("Then ids are assigned monotonically", func() {
				So(first.ID, ShouldEqual, 1)
				So(second.ID, ShouldEqual, 2)
				So(store.Count(ctx), ShouldEqual, 2)
			})

			Convey("And Get returns the stored event", func() {
				got, err := store.Get(ctx, first.ID)
				So(err, ShouldBeNil)
				So(got.Title, ShouldEqual, "standup")
				So(got.OwnerID, ShouldEqual, "alice")
			})
		})

		Convey("When getting an unknown id", func() {
			_, err := store.Get(ctx, 99)

			Convey("Then ErrNotFound is returned", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When updating an event's date", func() {
			e := mustInsert(ctx, store, "alice", "2024-06-10", "standup")
			mustInsert(ctx, store, "alice", "2024-06-12", "review")

			e.Date, _ = model.ParseDate("2024-06-20")
			e.Title = "moved standup"
			updated, err := store.Update(ctx, e)
			So(err, ShouldBeNil)
			So(updated.Title, ShouldEqual, "moved standup")

			Convey("Then the event re-slots into the ordering", func() {
				all, err := store.Select(ctx, query.All())
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 2)
				So(all[len(all)-1].ID, ShouldEqual, e.ID)
				assertOrdered(all)
			})
		})

		Convey("When updating with a tampered owner", func() {
			e := mustInsert(ctx, store, "alice", "2024-06-10", "standup")
			e.OwnerID = "mallory"
			updated, err := store.Update(ctx, e)

			Convey("Then the stored owner is preserved", func() {
				So(err, ShouldBeNil)
				So(updated.OwnerID, ShouldEqual, "alice")
			})
		})

		Convey("When updating an unknown id", func() {
			_, err := store.Update(ctx, model.Event{ID: 42, Date: model.NewDate(2024, time.June, 1), Title: "ghost"})

			Convey("Then ErrNotFound is returned", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When deleting an event", func() {
			e := mustInsert(ctx, store, "alice", "2024-06-10", "standup")
			So(store.Delete(ctx, e.ID), ShouldBeNil)

			Convey("Then it is gone permanently", func() {
				_, err := store.Get(ctx, e.ID)
				So(err, ShouldEqual, repository.ErrNotFound)
				So(store.Count(ctx), ShouldEqual, 0)
			})

			Convey("And deleting it again reports ErrNotFound", func() {
				So(store.Delete(ctx, e.ID), ShouldEqual, repository.ErrNotFound)
			})
		})
	})
}

func TestTreapStoreSelect(t *testing.T) {
	Convey("Given a store with events across owners and dates", t, func() {
		ctx := context.Background()
		store := repository.NewTreapStore(ctx)

		juneTenFirst := mustInsert(ctx, store, "alice", "2024-06-10", "first")
		juneTenSecond := mustInsert(ctx, store, "alice", "2024-06-10", "second")
		bobs := mustInsert(ctx, store, "bob", "2024-06-17", "bob's")
		past := mustInsert(ctx, store, "alice", "2024-05-01", "past")

		Convey("Select(All) returns everything in the global order", func() {
			all, err := store.Select(ctx, query.All())
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, 4)
			So(all[0].ID, ShouldEqual, past.ID)
			So(all[1].ID, ShouldEqual, juneTenSecond.ID) // same day, newer id first
			So(all[2].ID, ShouldEqual, juneTenFirst.ID)
			So(all[3].ID, ShouldEqual, bobs.ID)
			assertOrdered(all)
		})

		Convey("Select(All) scoped to alice excludes bob's event", func() {
			events, err := store.Select(ctx, query.All().ForOwner("alice"))
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 3)
			for _, e := range events {
				So(e.OwnerID, ShouldEqual, "alice")
			}
			assertOrdered(events)
		})

		Convey("Select(Future) keeps the asOf day and later only", func() {
			asOf := model.NewDate(2024, time.June, 10)
			events, err := store.Select(ctx, query.Future(asOf))
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 3)
			for _, e := range events {
				So(e.Date.Before(asOf.Time), ShouldBeFalse)
			}
		})

		Convey("Select(OnDate) matches the exact day", func() {
			events, err := store.Select(ctx, query.OnDate(model.NewDate(2024, time.June, 10)))
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 2)
			So(events[0].ID, ShouldEqual, juneTenSecond.ID)
			So(events[1].ID, ShouldEqual, juneTenFirst.ID)
		})

		Convey("Select(WeekOfYear) honors the ISO week span", func() {
			// ISO week 24 of 2024 runs June 10 through June 16.
			events, err := store.Select(ctx, query.WeekOfYear(24, 2024).ForOwner("alice"))
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 2)
			So(events[0].ID, ShouldEqual, juneTenSecond.ID)
			So(events[1].ID, ShouldEqual, juneTenFirst.ID)
		})

		Convey("Select with an out-of-range week yields an empty result", func() {
			events, err := store.Select(ctx, query.WeekOfYear(54, 2024))
			So(err, ShouldBeNil)
			So(events, ShouldBeEmpty)
		})

		Convey("Select on a day with no events yields an empty result", func() {
			events, err := store.Select(ctx, query.OnDate(model.NewDate(1999, time.January, 1)))
			So(err, ShouldBeNil)
			So(events, ShouldBeEmpty)
		})
	})
}

func TestTreapStoreOrderingUnderChurn(t *testing.T) {
	Convey("Given many interleaved inserts and deletes", t, func() {
		ctx := context.Background()
		store := repository.NewTreapStore(ctx)

		dates := []string{
			"2024-03-05", "2024-01-15", "2024-03-05", "2024-02-01",
			"2024-01-15", "2024-12-31", "2024-07-04", "2024-03-05",
		}
		var inserted []model.Event
		for _, d := range dates {
			inserted = append(inserted, mustInsert(ctx, store, "alice", d, "e"))
		}
		So(store.Delete(ctx, inserted[1].ID), ShouldBeNil)
		So(store.Delete(ctx, inserted[6].ID), ShouldBeNil)

		Convey("Then every listing stays totally ordered", func() {
			all, err := store.Select(ctx, query.All())
			So(err, ShouldBeNil)
			So(all, ShouldHaveLength, len(dates)-2)
			assertOrdered(all)
		})
	})
}
