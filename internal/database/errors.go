package database

import "errors"

var (
	// ErrLinkRejected is returned when a link is not eligible for storage:
	// a mail link, an address containing '@', a multimedia or executable
	// file, or a depth beyond the traverse limit.
	ErrLinkRejected = errors.New("link rejected")

	// ErrMissingLinkID is returned when an update targets a stored URL but
	// the caller did not supply the link identifier.
	ErrMissingLinkID = errors.New("link identifier required to update an existing link")

	// ErrNotFound is returned when a link does not exist in the store.
	ErrNotFound = errors.New("link not found")
)
