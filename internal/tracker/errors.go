package tracker

import (
	"errors"

	"github.com/julianstephens/habitbot/internal/storage"
)

var (
	// ErrInvalidName rejects empty or whitespace-only habit names.
	ErrInvalidName = errors.New("habit name cannot be empty")

	// ErrDuplicateHabit rejects a name already used by the same owner,
	// compared case-insensitively.
	ErrDuplicateHabit = errors.New("habit with this name already exists")

	// ErrNotFound is returned when a habit or user does not exist. It is the
	// storage layer's sentinel, re-exported so callers need only this package.
	ErrNotFound = storage.ErrNotFound
)
