package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound covers both rows that do not exist and rows outside the
	// caller's scope; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateAccess reports a violation of the one-row-per
	// (user, project) uniqueness constraint.
	ErrDuplicateAccess = errors.New("user already has access to this project")

	// ErrInvalidReference reports a write referencing a row that does not
	// exist, surfaced by a foreign-key constraint.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func constraint(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateAccess
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidReference
	}
	return err
}
