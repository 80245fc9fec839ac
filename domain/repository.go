package domain

import (
	"context"
)

// Predicate is a storage-level filter, for example Where("status = ?", "confirmed").
type Predicate struct {
	Query string
	Args  []any
}

// Where builds a Predicate.
func Where(query string, args ...any) Predicate {
	return Predicate{Query: query, Args: args}
}

// ReadOnlyRepository loads aggregates of type A.
//
// An aggregate which doesn't exist is not an error: GetByID returns found == false.
type ReadOnlyRepository[A Aggregate[TId], TId comparable] interface {
	GetByID(ctx context.Context, id TId) (aggregate A, found bool, err error)
	List(ctx context.Context) ([]A, error)
	ListWhere(ctx context.Context, predicate Predicate) ([]A, error)
	Any(ctx context.Context, predicate Predicate) (bool, error)
}

// UnitOfWork commits all changes made within its scope.
type UnitOfWork interface {
	// SaveChanges persists pending changes atomically and returns the number of written records.
	SaveChanges(ctx context.Context) (int, error)
}
