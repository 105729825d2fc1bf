package port

import (
	"context"

	"github.com/garyjia/backoffice-console/internal/domain/event"
)

// FileStorage stores binary content under relative paths
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	Delete(ctx context.Context, path string) error
	GetFullPath(relativePath string) string
}

// EventPublisher delivers domain events to in-process subscribers
type EventPublisher interface {
	Dispatch(ctx context.Context, evt *event.Event) error
}

// ImageInfo describes a decoded image header
type ImageInfo struct {
	Width  int
	Height int
	Format string
}

// ImageInspector reads image dimensions without decoding pixel data
type ImageInspector interface {
	Inspect(content []byte) (*ImageInfo, error)
}
