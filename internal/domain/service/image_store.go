package service

import (
	"context"
	"io"
)

// ImageStore defines the interface for persisting uploaded images.
// Implementations validate the file extension against an allow-list,
// reject empty content and return the stored path for the owning record.
type ImageStore interface {
	// Save writes content under the named subdirectory using filename and
	// returns the relative path of the stored file.
	Save(ctx context.Context, dir, filename string, content io.Reader) (string, error)

	// Remove deletes a previously stored file. Removing a path that no
	// longer exists is not an error.
	Remove(ctx context.Context, path string) error

	// PublicURL maps a stored path to the URL it is served under.
	PublicURL(path string) string
}
