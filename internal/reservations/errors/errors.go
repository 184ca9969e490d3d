package errors

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID indicates the provided ID is not a valid ObjectID
	ErrInvalidID = errors.New("invalid ID format")

	// ErrRoomNotFound indicates an unknown room inventory row
	ErrRoomNotFound = errors.New("room inventory not found")

	// ErrServiceNotFound indicates an unknown service inventory row
	ErrServiceNotFound = errors.New("service inventory not found")
)
