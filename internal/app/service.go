// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	repository "github.com/okian/agenda/internal/adapters/repository"
	"github.com/okian/agenda/internal/domain/authz"
	"github.com/okian/agenda/internal/domain/model"
	"github.com/okian/agenda/internal/domain/query"
	"github.com/okian/agenda/internal/domain/types"
	"github.com/okian/agenda/pkg/logger"
	"github.com/okian/agenda/pkg/metrics"
)

// Storage backend names accepted by WithStorage.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Service implements the calendar operations exposed over HTTP.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Configuration
	storage     string
	postgresDSN string

	// now supplies "today" for upcoming queries; injectable for tests.
	now func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStorage selects the store backend and, for postgres, its DSN.
func WithStorage(backend, dsn string) Option {
	return func(s *Service) {
		if backend != "" {
			s.storage = backend
		}
		s.postgresDSN = dsn
	}
}

// WithStore injects a pre-built store, bypassing backend selection.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithClock overrides the source of "today" for upcoming queries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storage: StorageMemory,
		now:     time.Now,
		logger:  nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the store backend.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting calendar service...")

	if s.store == nil {
		switch s.storage {
		case StoragePostgres:
			store, err := repository.NewPostgresStore(ctx, s.postgresDSN)
			if err != nil {
				return fmt.Errorf("start postgres store: %w", err)
			}
			s.store = store
			s.logger.Info(ctx, "using postgres store")
		default:
			s.store = repository.NewTreapStore(ctx)
			s.logger.Info(ctx, "using in-memory treap store")
		}
	}

	s.started = true
	s.logger.Info(ctx, "calendar service started",
		logger.String("storage", s.storage),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping calendar service...")

	if s.store != nil {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "calendar service stopped")
}

// ListUpcoming returns the owner's events dated today or later, ordered.
func (s *Service) ListUpcoming(ctx context.Context, ownerID string) ([]model.Event, error) {
	if ownerID == "" {
		return nil, authz.ErrNotAllowed
	}
	asOf := model.DateOf(s.now())
	return s.store.Select(ctx, query.Future(asOf).ForOwner(ownerID))
}

// ListByDate returns the owner's events dated exactly date, ordered.
func (s *Service) ListByDate(ctx context.Context, ownerID string, date model.Date) ([]model.Event, error) {
	if ownerID == "" {
		return nil, authz.ErrNotAllowed
	}
	return s.store.Select(ctx, query.OnDate(date).ForOwner(ownerID))
}

// ListByWeek returns the owner's events inside the given ISO week,
// ordered. A week number outside 1..53 yields an empty result.
func (s *Service) ListByWeek(ctx context.Context, ownerID string, week, year int) ([]model.Event, error) {
	if ownerID == "" {
		return nil, authz.ErrNotAllowed
	}
	return s.store.Select(ctx, query.WeekOfYear(week, year).ForOwner(ownerID))
}

// ListAll returns every event the owner has, ordered.
func (s *Service) ListAll(ctx context.Context, ownerID string) ([]model.Event, error) {
	if ownerID == "" {
		return nil, authz.ErrNotAllowed
	}
	return s.store.Select(ctx, query.All().ForOwner(ownerID))
}

// Create validates the input and stores a new event. The owner of the new
// event is always the acting identity; a caller cannot create events on
// behalf of someone else.
func (s *Service) Create(ctx context.Context, ownerID string, in types.EventInput) (model.Event, error) {
	if ownerID == "" {
		return model.Event{}, authz.ErrNotAllowed
	}
	if err := validate(in); err != nil {
		return model.Event{}, err
	}

	e := model.Event{
		OwnerID:     ownerID,
		Date:        in.Date,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
	}
	created, err := s.store.Insert(ctx, e)
	if err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}

	metrics.RecordEventCreated()
	s.logger.Debug(ctx, "event created",
		logger.Int64("id", created.ID),
		logger.String("owner", created.OwnerID),
		logger.String("date", created.Date.String()),
	)
	return created, nil
}

// Update replaces the mutable fields of an event after the ownership
// guard admits the acting identity. A denied or invalid update leaves the
// stored record untouched.
func (s *Service) Update(ctx context.Context, actingOwnerID string, id int64, in types.EventInput) (model.Event, error) {
	if actingOwnerID == "" {
		return model.Event{}, authz.ErrNotAllowed
	}
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	if err := authz.Authorize(actingOwnerID, e); err != nil {
		metrics.RecordAuthDenied()
		return model.Event{}, err
	}
	if err := validate(in); err != nil {
		return model.Event{}, err
	}

	e.Date = in.Date
	e.Title = strings.TrimSpace(in.Title)
	e.Description = in.Description
	updated, err := s.store.Update(ctx, e)
	if err != nil {
		return model.Event{}, fmt.Errorf("update event: %w", err)
	}

	metrics.RecordEventUpdated()
	return updated, nil
}

// Delete removes an event permanently after the ownership guard admits
// the acting identity. There is no soft-delete or archival state.
func (s *Service) Delete(ctx context.Context, actingOwnerID string, id int64) error {
	if actingOwnerID == "" {
		return authz.ErrNotAllowed
	}
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actingOwnerID, e); err != nil {
		metrics.RecordAuthDenied()
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	metrics.RecordEventDeleted()
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"storage": s.storage,
	}
	if s.started && s.store != nil {
		total := s.store.Count(context.Background())
		stats["totalEvents"] = total
		metrics.UpdateTotalEvents(total)
	}
	return stats
}

// validate enforces the required-field rules before any store mutation:
// title non-empty, date present. Description stays optional.
func validate(in types.EventInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return nil
}
