package ports

import "errors"

// Repository lookups and writes report these; use cases translate them into
// their own responses.
var (
	// ErrNotFound: no credential or avatar source for the user.
	ErrNotFound = errors.New("record not found")
	// ErrConflict: the user id is already registered.
	ErrConflict = errors.New("record already exists")
)
