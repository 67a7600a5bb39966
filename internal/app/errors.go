package service

import "errors"

// Sentinel kinds for service errors. Authorization and not-found kinds
// live with the packages that raise them (authz, repository).
var (
	ErrValidation = errors.New("invalid event payload")
)
