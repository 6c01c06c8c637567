// Package media stores user-supplied images (avatars and cover images) in
// S3-compatible object storage and returns their public URLs.
package media

import (
	"context"
	"io"
)

// File is an uploaded file as received from a client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores f and returns the URL it can be fetched from. A nil file
// uploads nothing and returns "".
type Uploader interface {
	Upload(ctx context.Context, f *File) (string, error)
}
