package app

import (
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/duskwall/internal/platform/errors"
	"github.com/louisbranch/duskwall/internal/services/table/storage"
)

var (
	// ErrNotFound matches any missing character or clock.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")
	// ErrAlreadyExists matches any id collision.
	ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "record already exists")
)

// storageError maps storage sentinels onto coded errors naming the record.
func storageError(kind, id string, err error) error {
	metadata := map[string]string{"Kind": kind, "ID": id}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &apperrors.Error{
			Code:     apperrors.CodeNotFound,
			Message:  fmt.Sprintf("%s %s not found", kind, id),
			Metadata: metadata,
			Cause:    err,
		}
	case errors.Is(err, storage.ErrAlreadyExists):
		return &apperrors.Error{
			Code:     apperrors.CodeAlreadyExists,
			Message:  fmt.Sprintf("%s %s already exists", kind, id),
			Metadata: metadata,
			Cause:    err,
		}
	default:
		return err
	}
}
