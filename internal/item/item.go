// Package item defines the Item entity and its persistence contract.
package item

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested item does not exist.
var ErrNotFound = errors.New("item not found")

// Item is a named record with a description. The ID is assigned by the
// store on creation and never changes.
type Item struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// CreateInput is the payload for creating an item. Both fields are required.
type CreateInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// UpdateInput is the payload shape for partial updates. It is declared for
// API completeness; no route is wired to it.
type UpdateInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Repository is the persistence contract for items.
type Repository interface {
	// Create persists a new item and returns it with its assigned ID.
	Create(ctx context.Context, in CreateInput) (*Item, error)

	// GetByID returns the item with the given ID, or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*Item, error)
}
