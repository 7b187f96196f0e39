package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/venue-booking/internal/form"
	"github.com/iliyamo/venue-booking/internal/repository"
)

var (
	// ErrNotFound is returned when a requested venue, artist or show does
	// not exist.
	ErrNotFound = errors.New("not found")
	// ErrHasShows is returned when deleting a venue that still has shows.
	ErrHasShows = errors.New("venue has shows listed")
)

// ValidationError reports a submission rejected before any write was
// attempted.
type ValidationError struct {
	Errors form.Errors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Errors.Error()
}

// WriteError reports a write that was rolled back.  Op names the attempted
// operation, e.g. "create venue".
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// IsWrite reports whether err is a *WriteError.
func IsWrite(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrVenueNotFound) ||
		errors.Is(err, repository.ErrArtistNotFound) ||
		errors.Is(err, ErrNotFound)
}

// notFound rewrites repository not-found sentinels into ErrNotFound and
// leaves every other error untouched.
func notFound(err error) error {
	if err != nil && isNotFound(err) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
