package storage

import (
	"context"
	"errors"
	"io"
)

// ErrStorageUnavailable is returned when the blob backend cannot be reached.
var ErrStorageUnavailable = errors.New("blob storage unavailable")

// BlobStorage stores and deletes photo binaries. Keys are opaque to callers;
// the service layer generates them and keeps them on the photo record.
type BlobStorage interface {
	// Upload stores the object under key with the given content type.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
