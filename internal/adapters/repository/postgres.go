// Package repository defines the event store interface and errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // database driver

	"github.com/okian/agenda/internal/domain/model"
	"github.com/okian/agenda/internal/domain/query"
	"github.com/okian/agenda/pkg/metrics"
)

const (
	dialectPostgres = "postgres"
	eventsTable     = "events"
)

var pgDialect = goqu.Dialect(dialectPostgres)

// schema creates the events table when it does not exist yet. Ids come
// from the sequence, which keeps them unique and monotonic across
// concurrent writers.
const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          BIGSERIAL PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	date        DATE NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS events_owner_date_idx ON events (owner_id, date);
`

// PostgresStore is the durable Store backend.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects to the given DSN and ensures the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, dialectPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Insert persists the event and returns it with the assigned id.
func (s *PostgresStore) Insert(ctx context.Context, e model.Event) (model.Event, error) {
	sqlStr, args, err := pgDialect.Insert(eventsTable).
		Rows(goqu.Record{
			"owner_id":    e.OwnerID,
			"date":        e.Date.Time,
			"title":       e.Title,
			"description": e.Description,
		}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return model.Event{}, fmt.Errorf("build insert: %w", err)
	}
	if err := s.db.GetContext(ctx, &e.ID, sqlStr, args...); err != nil {
		return model.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// Get returns the event with the given id, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, id int64) (model.Event, error) {
	sqlStr, args, err := pgDialect.From(eventsTable).
		Select("id", "owner_id", "date", "title", "description").
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return model.Event{}, fmt.Errorf("build select: %w", err)
	}
	var e model.Event
	if err := s.db.GetContext(ctx, &e, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Event{}, ErrNotFound
		}
		return model.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Update replaces the mutable fields of an existing event. The owner
// column is deliberately left out of the SET list.
func (s *PostgresStore) Update(ctx context.Context, e model.Event) (model.Event, error) {
	sqlStr, args, err := pgDialect.Update(eventsTable).
		Set(goqu.Record{
			"date":        e.Date.Time,
			"title":       e.Title,
			"description": e.Description,
		}).
		Where(goqu.C("id").Eq(e.ID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return model.Event{}, fmt.Errorf("build update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return model.Event{}, fmt.Errorf("update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Event{}, ErrNotFound
	}
	return s.Get(ctx, e.ID)
}

// Delete removes an event permanently.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := pgDialect.Delete(eventsTable).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Select returns the ordered subset of events matching q.
func (s *PostgresStore) Select(ctx context.Context, q query.Query) ([]model.Event, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	out := make([]model.Event, 0)
	if _, _, ok := q.Range(); !ok {
		// Invalid ISO week degrades to an empty selection.
		return out, nil
	}
	sqlStr, args, err := buildSelect(q)
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	if err := s.db.SelectContext(ctx, &out, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	return out, nil
}

// buildSelect translates a query into SQL carrying the same date window
// and the same total order the in-memory store produces.
func buildSelect(q query.Query) (string, []interface{}, error) {
	ds := pgDialect.From(eventsTable).
		Select("id", "owner_id", "date", "title", "description")

	lo, hi, ok := q.Range()
	if !ok {
		ds = ds.Where(goqu.L("FALSE"))
	} else {
		if !lo.IsZero() {
			ds = ds.Where(goqu.C("date").Gte(lo.Time))
		}
		if !hi.IsZero() {
			ds = ds.Where(goqu.C("date").Lte(hi.Time))
		}
	}
	if q.OwnerID != "" {
		ds = ds.Where(goqu.C("owner_id").Eq(q.OwnerID))
	}

	return ds.
		Order(goqu.C("date").Asc(), goqu.C("id").Desc()).
		Prepared(true).
		ToSQL()
}

// Count returns the number of stored events.
func (s *PostgresStore) Count(ctx context.Context) int {
	sqlStr, args, err := pgDialect.From(eventsTable).
		Select(goqu.COUNT("*")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0
	}
	var n int
	if err := s.db.GetContext(ctx, &n, sqlStr, args...); err != nil {
		return 0
	}
	return n
}
