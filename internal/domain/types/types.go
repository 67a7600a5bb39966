// Package types contains common types used across the application
package types

import "github.com/okian/agenda/internal/domain/model"

// EventInput carries the caller-supplied fields for create and update.
// The owner is never part of the input; it always comes from the acting
// identity, so a request cannot assign events to someone else.
type EventInput struct {
	Title       string
	Date        model.Date
	Description string
}
