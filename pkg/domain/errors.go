package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrWorkflowNotFound is returned when a workflow identifier is not in the catalog.
var ErrWorkflowNotFound = errors.New("workflow not found")

// ErrInvalidCatalog is returned when a catalog fails structural validation.
var ErrInvalidCatalog = errors.New("invalid catalog")
