package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the repositories.  Every
// repository is built on a DBTX so the same queries run either against the
// pool or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store bundles the repositories bound to the connection pool and opens
// units of work for writes.
type Store struct {
	db      *sql.DB
	Venues  *VenueRepo
	Artists *ArtistRepo
	Shows   *ShowRepo
}

// NewStore constructs a Store on the given pool.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		Venues:  NewVenueRepo(db),
		Artists: NewArtistRepo(db),
		Shows:   NewShowRepo(db),
	}
}

// Tx is a unit of work: repositories bound to a single transaction.  It is
// only valid inside the callback passed to InTx.
type Tx struct {
	Venues  *VenueRepo
	Artists *ArtistRepo
	Shows   *ShowRepo
}

// InTx runs fn inside a transaction.  The transaction is committed when fn
// returns nil and rolled back when fn returns an error or panics; in every
// case the connection is handed back to the pool before InTx returns.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&Tx{
		Venues:  NewVenueRepo(tx),
		Artists: NewArtistRepo(tx),
		Shows:   NewShowRepo(tx),
	}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
