// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a reservation owned by another apartment, while
// ErrTermAlreadySigned signals that the one-time term write has already
// happened for a reservation.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// reservation belonging to a different resident or apartment. Handlers
// should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrTermAlreadySigned is returned when a term of responsibility is
// submitted for a reservation that already has one. The term record is
// written exactly once; handlers should translate this into an HTTP 409
// response.
var ErrTermAlreadySigned = errors.New("term already signed")
