// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/agenda/internal/domain/model"
)

// EventsHandler handles event listing and mutation requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleEvents handles GET /events (upcoming events for the caller) and
// POST /events (create).
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listUpcoming(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *EventsHandler) listUpcoming(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_upcoming"
	owner, _ := OwnerFromContext(r.Context())
	events, err := h.deps.ListUpcoming(r.Context(), owner)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventsHandler) create(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_event"
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	in, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
		return
	}

	owner, _ := OwnerFromContext(r.Context())
	created, err := h.deps.Create(r.Context(), owner, in)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleByDate handles GET /events/date/{date} requests.
func (h *EventsHandler) HandleByDate(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_by_date"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/events/date/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	date, err := model.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	owner, _ := OwnerFromContext(r.Context())
	events, err := h.deps.ListByDate(r.Context(), owner, date)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleByWeek handles GET /events/week/{week}/{year} requests. The week
// is interpreted against the ISO-8601 week calendar; a week number that
// does not exist simply produces an empty list.
func (h *EventsHandler) HandleByWeek(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_by_week"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/events/week/"), "/")
	if len(parts) != 2 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	week, err := strconv.Atoi(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	owner, _ := OwnerFromContext(r.Context())
	events, err := h.deps.ListByWeek(r.Context(), owner, week, year)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleByID handles PUT /events/{id} and DELETE /events/{id} requests.
func (h *EventsHandler) HandleByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.event_by_id"
	raw := strings.TrimPrefix(r.URL.Path, "/events/")
	if raw == "" || strings.Contains(raw, "/") {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *EventsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	const op = "api.update_event"
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	in, err := req.validate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
		return
	}

	owner, _ := OwnerFromContext(r.Context())
	updated, err := h.deps.Update(r.Context(), owner, id, in)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *EventsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	const op = "api.delete_event"
	owner, _ := OwnerFromContext(r.Context())
	if err := h.deps.Delete(r.Context(), owner, id); err != nil {
		writeServiceError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
