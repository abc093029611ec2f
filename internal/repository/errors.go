// Package repository defines error types that are reused across the
// museum accessors. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrNotFound indicates that a looked up record does not exist
// in the current view of a collection, while ErrInvalidStatus signals an
// order status outside the known set.
package repository

import "errors"

// ErrNotFound is returned when a record cannot be found by id. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrInvalidStatus is returned when an order status other than Pending
// or Fulfilled is requested. Handlers should translate this into an
// HTTP 400 response.
var ErrInvalidStatus = errors.New("invalid order status")
