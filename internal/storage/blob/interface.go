// internal/storage/blob/interface.go
package blob

import "context"

// Store defines the interface for object storage backends.
// Read of a missing object returns an error matching core.ErrObjectMissing.
type Store interface {
	// Write stores data at the given path, replacing any existing object
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data at the given path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}
