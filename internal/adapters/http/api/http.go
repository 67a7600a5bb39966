// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	repository "github.com/okian/agenda/internal/adapters/repository"
	service "github.com/okian/agenda/internal/app"
	"github.com/okian/agenda/internal/auth"
	"github.com/okian/agenda/internal/domain/authz"
	"github.com/okian/agenda/internal/domain/model"
	"github.com/okian/agenda/internal/domain/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Owner-scoped listing operations; results are always ordered.
	ListUpcoming(ctx context.Context, ownerID string) ([]model.Event, error)
	ListByDate(ctx context.Context, ownerID string, date model.Date) ([]model.Event, error)
	ListByWeek(ctx context.Context, ownerID string, week, year int) ([]model.Event, error)
	ListAll(ctx context.Context, ownerID string) ([]model.Event, error)

	// Mutations gated by the ownership guard.
	Create(ctx context.Context, ownerID string, in types.EventInput) (model.Event, error)
	Update(ctx context.Context, actingOwnerID string, id int64, in types.EventInput) (model.Event, error)
	Delete(ctx context.Context, actingOwnerID string, id int64) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	resolver      auth.Resolver
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	eventsHandler *EventsHandler
	feedHandler   *FeedHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, resolver auth.Resolver, feedName string) *Server {
	return &Server{
		resolver:      resolver,
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		eventsHandler: NewEventsHandler(deps),
		feedHandler:   NewFeedHandler(deps, feedName),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return AuthMiddleware(s.resolver, next)
	}

	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(authed(s.eventsHandler.HandleEvents), "events"))
	mux.HandleFunc("/events/date/", MetricsMiddleware(authed(s.eventsHandler.HandleByDate), "events_by_date"))
	mux.HandleFunc("/events/week/", MetricsMiddleware(authed(s.eventsHandler.HandleByWeek), "events_by_week"))
	mux.HandleFunc("/events/feed", MetricsMiddleware(authed(s.feedHandler.HandleFeed), "events_feed"))
	mux.HandleFunc("/events/", MetricsMiddleware(authed(s.eventsHandler.HandleByID), "event"))
}

// eventRequest mirrors the JSON body accepted by POST and PUT /events.
// An owner_id in the payload is accepted and ignored: the stored owner is
// always the authenticated identity.
type eventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

func (e eventRequest) validate() (types.EventInput, error) {
	if strings.TrimSpace(e.Title) == "" {
		return types.EventInput{}, errors.New("missing title")
	}
	if strings.TrimSpace(e.Date) == "" {
		return types.EventInput{}, errors.New("missing date")
	}
	date, err := model.ParseDate(e.Date)
	if err != nil {
		return types.EventInput{}, errors.New("invalid date; must be YYYY-MM-DD")
	}
	return types.EventInput{
		Title:       e.Title,
		Date:        date,
		Description: e.Description,
	}, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service error kinds to HTTP statuses.
// The error body never carries record details for denied mutations.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", Wrap(op, err))
	case errors.Is(err, auth.ErrNoIdentity):
		writeError(w, http.StatusUnauthorized, "unauthorized", NewKind(op, ErrUnauthorized))
	case errors.Is(err, authz.ErrNotAllowed):
		writeError(w, http.StatusForbidden, "forbidden", NewKind(op, authz.ErrNotAllowed))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, repository.ErrNotFound))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
