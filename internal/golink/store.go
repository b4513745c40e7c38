package golink

import "context"

// Store defines the persistence operations for Link entities. Two
// implementations exist: an in-memory map store and a PostgreSQL
// store. Both must produce identical observable results (data and
// error kinds) for identical call sequences.
//
// All methods return independent copies; callers never hold
// references into store-internal state. Errors carry errx kinds:
// Conflict (Create on an existing name), NotFound (Get/Update/Delete
// on a missing name), Unavailable (backing resource failure).
type Store interface {
	Create(ctx context.Context, link Link) (Link, error)
	Get(ctx context.Context, shortLink string) (Link, error)
	List(ctx context.Context) ([]Link, error)
	Update(ctx context.Context, shortLink, url string) (Link, error)
	Delete(ctx context.Context, shortLink string) error
}
