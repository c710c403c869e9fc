package handlers

import (
	"errors"

	"github.com/photoboard/photoboard/internal/storage"
)

func isStorageError(err error) bool {
	return errors.Is(err, storage.ErrStorageUnavailable)
}
