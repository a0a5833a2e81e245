package budget

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists budget items for one or many owners.
//
// Implementations must keep any derived state they maintain consistent
// with the item set at all times: a mutation either fully applies,
// including summary recomputation, or fully rolls back. Readers never
// observe partial state.
//
// Get, Save and Delete return ErrNotFound when the item does not exist
// for the owner; an item belonging to a different owner is reported
// exactly the same way. I/O failures are reported as ErrStorage,
// consistency failures as ErrInternal.
type Repository interface {
	// Create persists a new item.
	Create(ctx context.Context, item Item) error

	// Get returns an owner's item by ID.
	Get(ctx context.Context, owner string, id uuid.UUID) (Item, error)

	// Save replaces the stored item with the given state.
	Save(ctx context.Context, item Item) error

	// Delete removes an owner's item by ID.
	Delete(ctx context.Context, owner string, id uuid.UUID) error

	// ForOwner returns all items of an owner.
	ForOwner(ctx context.Context, owner string) ([]Item, error)

	// Dashboard returns the aggregate for one year. Backends either
	// serve a persisted write-through summary or aggregate live, the
	// result must be identical either way.
	Dashboard(ctx context.Context, owner string, year int) (AggregateResult, error)
}
