// Package store is the client side of the shared real-time data store. The
// pipeline core only depends on the Store interface; GormStore is the
// production implementation over Postgres with a Redis change feed.
package store

import (
	"context"
)

// Entity collections the pipeline uses.
const (
	EntityLeads    = "leads"
	EntityProjects = "projects"
)

// Store is the surface the lead engine consumes. Records are loosely typed
// maps because collections carry schema drift: fields may or may not exist
// on older records.
type Store interface {
	// List returns the current records of an entity collection. When fields
	// are given, each record is narrowed to those keys.
	List(ctx context.Context, entity string, fields ...string) ([]map[string]any, error)

	// Subscribe delivers the complete current record set on every remote
	// change, starting with an initial snapshot. The channel closes when ctx
	// is done.
	Subscribe(ctx context.Context, entity string) (<-chan []map[string]any, error)

	// Insert writes a full new record.
	Insert(ctx context.Context, entity string, record map[string]any) error

	// Update applies a partial record on top of the stored one. Keys absent
	// from patch are left untouched.
	Update(ctx context.Context, entity string, id string, patch map[string]any) error
}
