package repositories

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// GORM implementations translate gorm.ErrRecordNotFound into this so
// callers never depend on the storage driver.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a uniqueness constraint rejects a write,
// e.g. registering an email twice or racing a cart creation.
var ErrDuplicate = errors.New("record already exists")
