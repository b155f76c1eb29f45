package persistence

import (
	"errors"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors to domain errors. Record-not-found becomes
// notFound (when given), unique violations become shared.ErrAlreadyExists,
// domain errors pass through and anything else is a storage error.
func translateError(err error, notFound *shared.DomainError) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists.Wrap(err)
	case shared.IsDomainError(err):
		return err
	default:
		return shared.NewStorageError(err)
	}
}
