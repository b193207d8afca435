// Package storage defines the persistence contract every backend must
// satisfy, plus the example-matching criteria shared by all backends.
//
// WHY AN INTERFACE?
// ─────────────────
// The service layer should not know or care which database it is talking
// to. Backends live in sub-packages (sqldb for SQLite/Postgres, memory for
// an in-process store) and are chosen at startup by the records-api command.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/records-api/internal/types"
)

// ErrNotFound is returned by FindByID and FindByRollNo when nothing matches.
var ErrNotFound = errors.New("record not found")

// Repository is the per-resource store contract.
//
// Every write method is atomic: either the whole write commits or none of
// it does.
type Repository[T types.Entity] interface {
	// FindAll returns every record in storage order. Never nil.
	FindAll(ctx context.Context) ([]T, error)

	// FindByID returns ErrNotFound when no record has the id.
	FindByID(ctx context.Context, id int64) (T, error)

	ExistsByID(ctx context.Context, id int64) (bool, error)

	// FindByExample returns every record matching the non-zero fields of
	// probe (see Criterion). Never nil.
	FindByExample(ctx context.Context, probe T) ([]T, error)

	// Save upserts by identifier. A zero identifier, or one that is not
	// stored, gets a fresh store-assigned id. Returns the stored record.
	Save(ctx context.Context, entity T) (T, error)

	// SaveAll saves every element in order and returns them in the same
	// order.
	SaveAll(ctx context.Context, entities []T) ([]T, error)

	// DeleteByID is a no-op for unknown ids.
	DeleteByID(ctx context.Context, id int64) error

	Delete(ctx context.Context, entity T) error

	DeleteAll(ctx context.Context) error
}

// StudentRepository adds the roll-number lookup.
type StudentRepository interface {
	Repository[types.Student]

	// FindByRollNo returns the first student (lowest id) with the roll
	// number, or ErrNotFound.
	FindByRollNo(ctx context.Context, rollNo int) (types.Student, error)
}

// Store groups the repositories of all resources behind one handle.
type Store interface {
	Students() StudentRepository
	SuperHeroes() Repository[types.SuperHero]
	Employees() Repository[types.Employee]
	Close() error
}
