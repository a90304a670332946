package repository

import (
	"context"
	"time"

	"clientportal/internal/model"
)

// ClientRepository defines data access for clients using SQL queries only.
// Every read excludes soft-deleted rows.
type ClientRepository interface {
	// ListActive returns all non-deleted clients, newest first.
	ListActive(ctx context.Context) ([]model.Client, error)

	// Get returns an active client by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (model.Client, error)

	// Add inserts c and returns the stored row. A clash on the active
	// (document number, document type) pair yields ErrDuplicate.
	Add(ctx context.Context, c model.Client) (model.Client, error)

	// Update replaces the mutable columns of the active row with c.ID.
	Update(ctx context.Context, c model.Client) (model.Client, error)

	// SoftDelete flags the client deleted at the given time. Unknown or
	// already deleted ids are a no-op.
	SoftDelete(ctx context.Context, id string, at time.Time) error

	// ExistsActive reports whether an active client holds the document.
	ExistsActive(ctx context.Context, number string, docType model.DocumentType) (bool, error)
}
