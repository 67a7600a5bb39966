// Package repository defines the event store interface and errors.
package repository

import (
	"context"

	"github.com/okian/agenda/internal/domain/model"
	"github.com/okian/agenda/internal/domain/query"
)

// Store provides read/write access to the event collection. Every Select
// result comes back in the global order: date ascending, id descending on
// equal dates.
type Store interface {
	// Insert persists a new event and assigns its id. Ids are unique and
	// monotonically increasing.
	Insert(ctx context.Context, e model.Event) (model.Event, error)

	// Get returns the event with the given id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id int64) (model.Event, error)

	// Update replaces the mutable fields of an existing event.
	// Returns ErrNotFound if the id is unknown.
	Update(ctx context.Context, e model.Event) (model.Event, error)

	// Delete removes an event permanently. Returns ErrNotFound if the id
	// is unknown.
	Delete(ctx context.Context, id int64) error

	// Select returns all events matching q, ordered. A query that matches
	// nothing yields an empty slice, never an error.
	Select(ctx context.Context, q query.Query) ([]model.Event, error)

	// Count returns the number of events tracked in the store.
	Count(ctx context.Context) int
}
