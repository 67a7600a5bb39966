// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	ics "github.com/arran4/golang-ical"

	"github.com/okian/agenda/internal/domain/model"
)

// FeedDependencies defines the interface for the calendar feed.
type FeedDependencies interface {
	ListAll(ctx context.Context, ownerID string) ([]model.Event, error)
}

// FeedHandler exports the caller's events as an iCalendar feed, so the
// calendar can be subscribed to from desktop and mobile clients.
type FeedHandler struct {
	deps FeedDependencies
	name string
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(deps FeedDependencies, name string) *FeedHandler {
	return &FeedHandler{deps: deps, name: name}
}

// HandleFeed handles GET /events/feed requests.
func (h *FeedHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.events_feed"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	owner, _ := OwnerFromContext(r.Context())
	events, err := h.deps.ListAll(r.Context(), owner)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(fmt.Sprintf("-//%s//EN", h.name))
	for _, e := range events {
		ev := cal.AddEvent(fmt.Sprintf("%d@%s", e.ID, h.name))
		ev.SetSummary(e.Title)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		// All-day entries: DTEND is exclusive per RFC 5545.
		ev.SetAllDayStartAt(e.Date.Time)
		ev.SetAllDayEndAt(e.Date.AddDate(0, 0, 1))
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(cal.Serialize()))
}
