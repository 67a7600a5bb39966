// Package query defines the event selection predicates and the total
// ordering applied to every listing result.
package query

import (
	"sort"

	"github.com/okian/agenda/internal/domain/model"
	"github.com/snabb/isoweek"
)

// kind enumerates the supported selection predicates.
type kind int

const (
	kindAll kind = iota
	kindFuture
	kindOnDate
	kindWeek
)

// Query selects a subset of events, optionally restricted to one owner.
// The zero value selects nothing useful; build queries with the
// constructors below.
type Query struct {
	kind kind

	asOf model.Date // future
	date model.Date // exact date
	week int        // ISO week
	year int        // ISO week-numbering year

	// OwnerID restricts results to one owner when non-empty.
	OwnerID string
}

// All selects every event.
func All() Query {
	return Query{kind: kindAll}
}

// Future selects events dated asOf or later.
func Future(asOf model.Date) Query {
	return Query{kind: kindFuture, asOf: asOf}
}

// OnDate selects events dated exactly d.
func OnDate(d model.Date) Query {
	return Query{kind: kindOnDate, date: d}
}

// WeekOfYear selects events inside ISO week `week` of the week-numbering
// year `year`. Week 1 is the week containing the year's first Thursday;
// weeks run Monday through Sunday. An out-of-range week selects nothing.
func WeekOfYear(week, year int) Query {
	return Query{kind: kindWeek, week: week, year: year}
}

// ForOwner returns a copy of q restricted to the given owner.
func (q Query) ForOwner(ownerID string) Query {
	q.OwnerID = ownerID
	return q
}

// Range reports the inclusive date window selected by q. A zero lo or hi
// leaves that side unbounded. ok is false when the query can match
// nothing at all, which happens for an invalid ISO week.
func (q Query) Range() (lo, hi model.Date, ok bool) {
	switch q.kind {
	case kindFuture:
		return q.asOf, model.Date{}, true
	case kindOnDate:
		return q.date, q.date, true
	case kindWeek:
		return WeekRange(q.week, q.year)
	default:
		return model.Date{}, model.Date{}, true
	}
}

// Matches reports whether e is selected by q.
func (q Query) Matches(e model.Event) bool {
	if q.OwnerID != "" && e.OwnerID != q.OwnerID {
		return false
	}
	lo, hi, ok := q.Range()
	if !ok {
		return false
	}
	if !lo.IsZero() && e.Date.Before(lo.Time) {
		return false
	}
	if !hi.IsZero() && e.Date.After(hi.Time) {
		return false
	}
	return true
}

// WeekRange derives the Monday and Sunday of the given ISO week. ok is
// false when the week number does not exist in that week-numbering year;
// callers treat that as an empty selection rather than an error.
func WeekRange(week, year int) (monday, sunday model.Date, ok bool) {
	if !isoweek.Validate(year, week) {
		return model.Date{}, model.Date{}, false
	}
	y, m, d := isoweek.StartDate(year, week)
	monday = model.NewDate(y, m, d)
	sunday = model.DateOf(monday.AddDate(0, 0, 6))
	return monday, sunday, true
}

// Less is the total order on events: date ascending, and on equal dates
// id descending, so newer-registered same-day events surface first.
func Less(a, b model.Event) bool {
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.Before(b.Date.Time)
	}
	return a.ID > b.ID
}

// Sort orders events in place according to Less. Every listing result,
// regardless of predicate, goes through this order.
func Sort(events []model.Event) {
	sort.Slice(events, func(i, j int) bool {
		return Less(events[i], events[j])
	})
}
