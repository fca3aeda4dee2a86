package plan

import (
	"errors"
	"fmt"
)

var (
	ErrBadFormat       = errors.New("bad position format")
	ErrOutOfBounds     = errors.New("position out of bounds")
	ErrBadDuration     = errors.New("bad duration")
	ErrFetch           = errors.New("avatar fetch failed")
	ErrRender          = errors.New("plan render failed")
	ErrBlitOutOfBounds = errors.New("tile outside canvas")
)

// ParseError describes a rejected coordinate token. Kind is ErrBadFormat or
// ErrOutOfBounds; the ranges are filled for user-facing messages.
type ParseError struct {
	Token  string
	Kind   error
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Kind == ErrOutOfBounds {
		return fmt.Sprintf("%s: %q, valid range is %c-%c, %d-%d", e.Kind, e.Token, MinLetter, MaxLetter, MinNumber, MaxNumber)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %q, %s", e.Kind, e.Token, e.Reason)
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Token)
}

func (e *ParseError) Is(target error) bool {
	return target == e.Kind
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type FetchError struct {
	UserID string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s for user %s: %v", ErrFetch, e.UserID, e.Err)
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RenderError wraps whatever stopped a render: a *FetchError or an internal
// invariant violation such as ErrBlitOutOfBounds.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %v", ErrRender, e.Err)
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
