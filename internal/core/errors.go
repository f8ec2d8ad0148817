package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when an action requires an active
	// session and there is none.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound covers locally absent entities: a rollback target evicted
	// by a full reconciliation, a missing KV key, an unknown post id.
	ErrNotFound = errors.New("not found")
)

// RequestError is the single failure shape the gateway surfaces. Status is 0
// when the request never produced an HTTP response.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

// ValidationError rejects a submission locally, before any network call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}
