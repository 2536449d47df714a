// Package remote adapts a remote blob store for trip documents. The sync
// orchestrator depends only on the Store interface; the concrete
// implementation talks to Google Drive, where the whole trip lives as a
// single JSON file identified by a well-known name.
package remote

import (
	"context"
	"time"
)

// FileMetadata describes a remote file without its content.
type FileMetadata struct {
	ID           string
	Name         string
	ModifiedTime time.Time
	Size         int64
}

// Store is the logical remote-store surface the orchestrator consumes.
// Implementations surface transport failures verbatim; nothing here retries.
type Store interface {
	// IsAuthenticated reports whether a usable session exists. Entry points
	// check this before making any network call.
	IsAuthenticated(ctx context.Context) bool

	// FindByName looks up a file by exact name. Returns (nil, nil) when no
	// such file exists.
	FindByName(ctx context.Context, name string) (*FileMetadata, error)

	// Download fetches the file content. Empty content is an error.
	Download(ctx context.Context, fileID string) (string, error)

	// Upload writes content under the given name. An empty fileID creates a
	// new file; otherwise the existing file is updated in place. Returns the
	// file ID.
	Upload(ctx context.Context, name, content, fileID string) (string, error)

	// Metadata fetches metadata for a known file ID.
	Metadata(ctx context.Context, fileID string) (*FileMetadata, error)
}
