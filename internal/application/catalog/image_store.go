package catalog

import (
	"context"
	"io"
)

// ImageUpload is an image file received with a new listing
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ImageStore persists listing images. Only the returned relative path is
// stored on the product.
type ImageStore interface {
	Save(ctx context.Context, upload ImageUpload) (string, error)
	Delete(ctx context.Context, path string) error
}
