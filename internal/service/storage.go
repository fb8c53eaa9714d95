package service

import (
	"context"
	"io"
)

// Uploader is the slice of the object-storage client the services need.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

// FileUpload carries an optional multipart file down from the handler.
type FileUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
	Size        int64
}
