package storage

import "errors"

var (
	ErrNotFound        = errors.New("storage: account not found")
	ErrExists          = errors.New("storage: account already exists")
	ErrVersionConflict = errors.New("storage: version conflict")
	ErrCorrupted       = errors.New("storage: corrupted account record")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
