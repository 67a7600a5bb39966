// Package authz implements the ownership guard for mutating operations.
package authz

import (
	"errors"

	"github.com/okian/agenda/internal/domain/model"
)

// ErrNotAllowed is returned when an identity tries to manage an event it
// does not own, or when no identity is present at all.
var ErrNotAllowed = errors.New("not allowed to manage event")

// CanManage reports whether the acting identity owns the event. There are
// no other conditions: no admin override, no time-based lock.
func CanManage(actingOwnerID string, e model.Event) bool {
	return actingOwnerID != "" && actingOwnerID == e.OwnerID
}

// Authorize returns nil when the acting identity may update or delete the
// event, and ErrNotAllowed otherwise. It is a pure comparison with no side
// effects.
func Authorize(actingOwnerID string, e model.Event) error {
	if !CanManage(actingOwnerID, e) {
		return ErrNotAllowed
	}
	return nil
}
