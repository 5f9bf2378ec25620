package seoblog

import (
	"context"
	"errors"
)

var ErrFileNotFound = errors.New("file not found")

// FileService stores binary objects addressed by key.
type FileService interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}
