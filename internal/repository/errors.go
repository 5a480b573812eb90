package repository

import "errors"

// ErrNotFound indicates an entity was not located.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicateEmail indicates the email is already registered.
var ErrDuplicateEmail = errors.New("repository: email already registered")
