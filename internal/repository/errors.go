// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// catalog service and the handlers to distinguish between different
// failure scenarios. ErrConflict signals that an operation cannot proceed
// because of dependent records (e.g. deleting a venue that still has
// shows), while ErrReferenceMissing reports a foreign key that points at
// nothing.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when a delete cannot be performed because of
// dependent rows. The catalog reports it as service.ErrHasShows.
var ErrConflict = errors.New("conflict")

// ErrReferenceMissing is returned when an insert references an artist or
// venue that does not exist.
var ErrReferenceMissing = errors.New("referenced record does not exist")

// MySQL server error numbers for foreign key failures.
const (
	errRowIsReferenced = 1451 // cannot delete or update a parent row
	errNoReferencedRow = 1452 // cannot add or update a child row
)

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// translate maps driver foreign key errors onto the package sentinels and
// returns every other error unchanged.
func translate(err error) error {
	switch mysqlErrNumber(err) {
	case errRowIsReferenced:
		return ErrConflict
	case errNoReferencedRow:
		return ErrReferenceMissing
	}
	return err
}
